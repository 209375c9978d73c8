package catalog

// Language 支援的回應語言
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// 篩選選項的預設值
const (
	AllMeals             = "All Meals"
	NoDietaryRestriction = "None"
	AllCuisines          = "All Cuisines"
	NoAllergen           = "None"
	DefaultLanguage      = "en"
)

var (
	MealTypes           = []string{AllMeals, "Breakfast", "Lunch", "Dinner", "Snacks"}
	DietaryRestrictions = []string{NoDietaryRestriction, "Vegetarian", "Non-vegetarian"}
	CuisineTypes        = []string{AllCuisines, "Chettinad", "Kongunadu", "Madurai", "Nanjilnadu", "Coimbatore"}
	AllergenOptions     = []string{NoAllergen, "Peanuts", "Gluten", "Dairy", "Soy", "Eggs", "Fish", "Shellfish", "Tree Nuts"}
	SupportedLanguages  = []Language{
		{Code: "en", Name: "English"},
		{Code: "ta", Name: "தமிழ்"},
		{Code: "hi", Name: "हिन्दी"},
		{Code: "es", Name: "Español"},
		{Code: "fr", Name: "Français"},
	}
)

// Options 所有篩選選項，供前端渲染
type Options struct {
	MealTypes           []string   `json:"meal_types"`
	DietaryRestrictions []string   `json:"dietary_restrictions"`
	CuisineTypes        []string   `json:"cuisine_types"`
	Allergens           []string   `json:"allergens"`
	Languages           []Language `json:"languages"`
}

// AllOptions 返回篩選選項
func AllOptions() Options {
	return Options{
		MealTypes:           MealTypes,
		DietaryRestrictions: DietaryRestrictions,
		CuisineTypes:        CuisineTypes,
		Allergens:           AllergenOptions,
		Languages:           SupportedLanguages,
	}
}

// LanguageName 以語言代碼查找顯示名稱，未知代碼返回 English
func LanguageName(code string) string {
	for _, l := range SupportedLanguages {
		if l.Code == code {
			return l.Name
		}
	}
	return "English"
}

// IsSupportedLanguage 是否為支援的語言代碼
func IsSupportedLanguage(code string) bool {
	for _, l := range SupportedLanguages {
		if l.Code == code {
			return true
		}
	}
	return false
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

// IsMealType 是否為有效的餐別
func IsMealType(v string) bool { return contains(MealTypes, v) }

// IsDietaryRestriction 是否為有效的飲食限制
func IsDietaryRestriction(v string) bool { return contains(DietaryRestrictions, v) }

// IsCuisineType 是否為有效的菜系
func IsCuisineType(v string) bool { return contains(CuisineTypes, v) }

// IsAllergen 是否為有效的過敏原
func IsAllergen(v string) bool { return contains(AllergenOptions, v) }
