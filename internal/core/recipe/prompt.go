package recipe

import (
	"fmt"
	"strings"

	"smartpantry/internal/core/catalog"
	"smartpantry/internal/pkg/common"
)

// RecipesPerQuery 每次查詢要求的食譜數量
const RecipesPerQuery = 3

// BuildRecipesPrompt 依食材與篩選條件組裝食譜提示詞
func BuildRecipesPrompt(q common.RecipeQuery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I have the following ingredients: %s.", common.StringSliceToString(q.Ingredients))

	if allergies := strings.TrimSpace(q.Allergies); allergies != "" {
		fmt.Fprintf(&b, " I am allergic to %s. Please ensure none of the suggested recipes contain these allergens or their derivatives.", allergies)
	}

	mealTypeQuery := ""
	if q.MealType != "" && q.MealType != catalog.AllMeals {
		mealTypeQuery = " suitable for " + q.MealType
	}
	dietaryQuery := ""
	if q.DietaryRestriction != "" && q.DietaryRestriction != catalog.NoDietaryRestriction {
		dietaryQuery = " which are " + strings.ToLower(q.DietaryRestriction)
	}
	cuisineQuery := "authentic Tamil Nadu style"
	if q.CuisineType != "" && q.CuisineType != catalog.AllCuisines {
		cuisineQuery = q.CuisineType + " style Tamil Nadu"
	}
	languageName := catalog.LanguageName(q.LanguageCode)

	fmt.Fprintf(&b, " Please suggest %d %s recipes%s%s I can make.", RecipesPerQuery, cuisineQuery, dietaryQuery, mealTypeQuery)
	fmt.Fprintf(&b, " Critically, provide all recipe details (name, description, ingredients, steps, etc.) in **%s**.", languageName)
	b.WriteString(" For each recipe, provide a short description, and list only the ingredients I have that are used in this recipe (in 'matchingIngredients')." +
		" Critically, all suggested recipes must strictly use *only* the ingredients provided to you in my list." +
		" Do NOT suggest any recipes that require ingredients I have not explicitly listed." +
		" Therefore, the 'missingIngredients' array for any suggested recipe MUST be empty." +
		" Also, provide an estimated cooking time, prep time, calorie count, protein amount, a simple, effective image search query (e.g., 'Chettinad Chicken Curry')," +
		" AN OPTIONAL source URL for the recipe (if a relevant and authoritative one exists), AND step-by-step cooking instructions as a list of strings." +
		" Critically, choose ONE of these recipes as a \"Top Recommendation\"." +
		" For this recommended recipe, set 'isRecommended' to true and provide a brief 'recommendationReason' (e.g., \"Uses the most ingredients you have\" or \"A classic dish that's easy to start with\")." +
		" For the other non-recommended recipes, set 'isRecommended' to false and the 'recommendationReason' to an empty string.")
	return b.String()
}

// ImagePrompt 食譜圖片的提示詞
func ImagePrompt(r common.Recipe) string {
	return fmt.Sprintf("%s, %s, Tamil Nadu cuisine, high quality, food photography", r.ImageQuery, r.Name)
}
