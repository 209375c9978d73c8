package recipe

import "smartpantry/internal/core/ai/provider"

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func stringArrayProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"description": description,
	}
}

// recipesResponseFormat 要求模型以 {"recipes":[...]} 結構回應
func recipesResponseFormat() *provider.ResponseFormat {
	recipe := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name":                stringProp("Name of the recipe."),
			"description":         stringProp("A brief, appealing description of the dish."),
			"matchingIngredients": stringArrayProp("Ingredients from the user's list that are used in this recipe."),
			"missingIngredients":  stringArrayProp("Ingredients required for the recipe that the user does not have. This array must be empty as only provided ingredients are to be used."),
			"nutrition": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"calories": map[string]interface{}{"type": "integer", "description": "Estimated calories per serving."},
					"protein":  stringProp("Estimated protein per serving (e.g., '15g')."),
				},
				"required": []string{"calories", "protein"},
			},
			"cookingTime":          stringProp("Estimated total cooking time (e.g., '45 minutes')."),
			"prepTime":             stringProp("Estimated preparation time (e.g., '15 minutes')."),
			"cookingSteps":         stringArrayProp("Step-by-step instructions for cooking the recipe."),
			"imageQuery":           stringProp("A simple search query to find an image of the dish."),
			"isRecommended":        map[string]interface{}{"type": "boolean", "description": "True if this is the top recommended recipe, otherwise false."},
			"recommendationReason": stringProp("A short reason for the recommendation. Empty if not recommended."),
			"sourceUrl":            stringProp("Optional URL for the recipe source."),
		},
		"required": []string{
			"name", "description", "matchingIngredients", "missingIngredients", "nutrition",
			"cookingTime", "prepTime", "cookingSteps", "imageQuery", "isRecommended", "recommendationReason",
		},
	}

	return &provider.ResponseFormat{
		Type: "json_schema",
		JSONSchema: &provider.JSONSchema{
			Name:   "recipes",
			Strict: false,
			Schema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"recipes": map[string]interface{}{
						"type":  "array",
						"items": recipe,
					},
				},
				"required": []string{"recipes"},
			},
		},
	}
}
