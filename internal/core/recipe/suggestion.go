package recipe

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"smartpantry/internal/core/ai/provider"
	"smartpantry/internal/core/ai/service"
	"smartpantry/internal/pkg/common"
)

// starterIngredients 空食材庫時的隨機建議
var starterIngredients = []string{"Onion", "Tomato", "Rice", "Garlic", "Ginger"}

// SuggestNextIngredient 建議一個與現有食材搭配的食材名稱
// 食材庫為空時直接隨機挑選，不發送請求
func (g *Gateway) SuggestNextIngredient(ctx context.Context, current []string) (string, error) {
	if len(current) == 0 {
		return starterIngredients[g.pick(len(starterIngredients))], nil
	}

	prompt := fmt.Sprintf("Based on these ingredients for a Tamil Nadu style dish: [%s], suggest one more common ingredient that would pair well. Provide only the name of the single ingredient, no emoji, no explanation. For example: 'Coriander Leaves'.",
		common.StringSliceToString(current))

	resp, err := g.aiService.ProcessRequest(ctx, service.OpGenerate, &provider.Request{
		Messages: []provider.Message{{Role: provider.RoleUser, Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	name := cleanSuggestion(resp.Content)
	if name == "" {
		common.LogWarn("AI 建議的食材為空", zap.String("raw", common.TruncateString(resp.Content, 80)))
		return "", common.WrapError(common.ErrAIServiceError, fmt.Errorf("empty ingredient suggestion"))
	}
	return name, nil
}

// cleanSuggestion 去除空白、外層引號與結尾句點
func cleanSuggestion(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, ".")
	s = strings.Trim(s, `"'`+"`")
	s = strings.TrimSuffix(strings.TrimSpace(s), ".")
	return strings.TrimSpace(s)
}
