package common

// Nutrition 營養資訊
type Nutrition struct {
	Calories int    `json:"calories"`
	Protein  string `json:"protein"`
}

// Recipe 食譜
// 欄位名稱需與 AI 回應及儲存格式一致
type Recipe struct {
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	MatchingIngredients  []string  `json:"matchingIngredients"`
	MissingIngredients   []string  `json:"missingIngredients"`
	Nutrition            Nutrition `json:"nutrition"`
	CookingTime          string    `json:"cookingTime"`
	PrepTime             string    `json:"prepTime"`
	CookingSteps         []string  `json:"cookingSteps"`
	ImageQuery           string    `json:"imageQuery"`
	GeneratedImageURL    string    `json:"generatedImageUrl,omitempty"`
	IsRecommended        bool      `json:"isRecommended,omitempty"`
	RecommendationReason string    `json:"recommendationReason,omitempty"`
	SourceURL            string    `json:"sourceUrl,omitempty"`
}

// RecipeQuery 食譜查詢條件
type RecipeQuery struct {
	Ingredients        []string `json:"ingredients"`
	Allergies          string   `json:"allergies"`
	MealType           string   `json:"meal_type"`
	DietaryRestriction string   `json:"dietary_restriction"`
	CuisineType        string   `json:"cuisine_type"`
	LanguageCode       string   `json:"language_code"`
}

// CloneRecipes 複製食譜切片，避免共享底層陣列
func CloneRecipes(recipes []Recipe) []Recipe {
	if recipes == nil {
		return nil
	}
	out := make([]Recipe, len(recipes))
	copy(out, recipes)
	return out
}
