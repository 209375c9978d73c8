package pantry

import (
	"context"

	"smartpantry/internal/core/ai/provider"
	"smartpantry/internal/core/ai/service"
	"smartpantry/internal/core/recipe"
	"smartpantry/internal/pkg/common"
)

// Gateway 控制器依賴的 AI 閘道能力
type Gateway interface {
	SuggestNextIngredient(ctx context.Context, current []string) (string, error)
	FetchRecipes(ctx context.Context, q common.RecipeQuery) ([]common.Recipe, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
	CreateChatSession(systemPrompt string) *service.ChatSession
	StreamReply(ctx context.Context, session *service.ChatSession, text string, onFragment provider.FragmentHandler) (string, error)
}

var _ Gateway = (*recipe.Gateway)(nil)
