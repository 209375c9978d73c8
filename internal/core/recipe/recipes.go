package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"smartpantry/internal/core/ai/provider"
	"smartpantry/internal/core/ai/service"
	"smartpantry/internal/pkg/common"
)

// rawRecipe AI 回應的中繼結構，指標欄位用於區分「缺少」與「零值」
type rawRecipe struct {
	Name                 *string       `json:"name" validate:"required"`
	Description          *string       `json:"description" validate:"required"`
	MatchingIngredients  []string      `json:"matchingIngredients" validate:"required"`
	MissingIngredients   []string      `json:"missingIngredients" validate:"required"`
	Nutrition            *rawNutrition `json:"nutrition" validate:"required"`
	CookingTime          *string       `json:"cookingTime" validate:"required"`
	PrepTime             *string       `json:"prepTime" validate:"required"`
	CookingSteps         []string      `json:"cookingSteps" validate:"required"`
	ImageQuery           *string       `json:"imageQuery" validate:"required"`
	IsRecommended        *bool         `json:"isRecommended" validate:"required"`
	RecommendationReason *string       `json:"recommendationReason" validate:"required"`
	SourceURL            string        `json:"sourceUrl"`
}

type rawNutrition struct {
	Calories *json.Number `json:"calories" validate:"required"`
	Protein  *string      `json:"protein" validate:"required"`
}

type rawRecipesEnvelope struct {
	Recipes []rawRecipe `json:"recipes" validate:"required,dive"`
}

// FetchRecipes 依食材與篩選條件取得食譜
// 回應缺少必要欄位或無法解析時返回 AI 服務錯誤；同名食譜只保留第一個
func (g *Gateway) FetchRecipes(ctx context.Context, q common.RecipeQuery) ([]common.Recipe, error) {
	prompt := BuildRecipesPrompt(q)
	common.LogDebug("FetchRecipes 組裝的 prompt", zap.Int("prompt_length", len(prompt)), zap.Strings("ingredients", q.Ingredients))

	resp, err := g.aiService.ProcessRequest(ctx, service.OpGenerate, &provider.Request{
		Messages:       []provider.Message{{Role: provider.RoleUser, Content: prompt}},
		ResponseFormat: recipesResponseFormat(),
	})
	if err != nil {
		return nil, err
	}

	recipes, err := g.parseRecipes(resp.Content)
	if err != nil {
		common.LogError("AI 回應解析失敗",
			zap.Error(err),
			zap.Int("ai_response_length", len(resp.Content)),
		)
		return nil, common.WrapError(common.ErrAIServiceError, err)
	}

	common.LogInfo("食譜生成完成", zap.Int("count", len(recipes)))
	return recipes, nil
}

// parseRecipes 解析並驗證 AI 回應
func (g *Gateway) parseRecipes(content string) ([]common.Recipe, error) {
	// 去除 markdown/fence：取第一個 { 到最後一個 }
	cleaned, ok := common.ExtractJSONObject(content)
	if !ok {
		return nil, fmt.Errorf("no JSON object in AI response")
	}

	var env rawRecipesEnvelope
	if err := common.ParseJSON(cleaned, &env); err != nil {
		// 模型偶爾會漏掉鍵的引號，補上後再試一次
		env = rawRecipesEnvelope{}
		if retryErr := common.ParseJSON(common.QuoteJSONKeys(cleaned), &env); retryErr != nil {
			return nil, fmt.Errorf("failed to parse AI response: %w", err)
		}
	}
	if err := g.validate.Struct(&env); err != nil {
		return nil, fmt.Errorf("AI response failed validation: %w", err)
	}

	out := make([]common.Recipe, 0, len(env.Recipes))
	seen := make(map[string]struct{}, len(env.Recipes))
	for i, raw := range env.Recipes {
		r, err := raw.toRecipe()
		if err != nil {
			return nil, fmt.Errorf("recipe %d: %w", i, err)
		}
		if _, dup := seen[r.Name]; dup {
			common.LogWarn("忽略重複的食譜名稱", zap.String("name", r.Name))
			continue
		}
		seen[r.Name] = struct{}{}
		out = append(out, r)
	}
	return out, nil
}

func (r rawRecipe) toRecipe() (common.Recipe, error) {
	name := strings.TrimSpace(*r.Name)
	if name == "" {
		return common.Recipe{}, fmt.Errorf("recipe name is empty")
	}

	calories, err := r.Nutrition.Calories.Float64()
	if err != nil {
		return common.Recipe{}, fmt.Errorf("invalid calories %q: %w", r.Nutrition.Calories.String(), err)
	}

	return common.Recipe{
		Name:                 name,
		Description:          strings.TrimSpace(*r.Description),
		MatchingIngredients:  r.MatchingIngredients,
		MissingIngredients:   r.MissingIngredients,
		Nutrition:            common.Nutrition{Calories: int(math.Round(calories)), Protein: *r.Nutrition.Protein},
		CookingTime:          *r.CookingTime,
		PrepTime:             *r.PrepTime,
		CookingSteps:         r.CookingSteps,
		ImageQuery:           *r.ImageQuery,
		IsRecommended:        *r.IsRecommended,
		RecommendationReason: *r.RecommendationReason,
		SourceURL:            strings.TrimSpace(r.SourceURL),
	}, nil
}
