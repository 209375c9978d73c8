// Package recipe 是與生成式 AI 之間的閘道：組裝提示詞、要求結構化輸出並驗證回應
package recipe

import (
	"context"
	"math/rand"

	"github.com/go-playground/validator/v10"

	"smartpantry/internal/core/ai/provider"
	"smartpantry/internal/core/ai/service"
)

// Gateway 食譜閘道
type Gateway struct {
	aiService *service.Service
	validate  *validator.Validate
	pick      func(n int) int
}

// NewGateway 創建食譜閘道
func NewGateway(aiService *service.Service) *Gateway {
	return &Gateway{
		aiService: aiService,
		validate:  validator.New(),
		pick:      rand.Intn,
	}
}

// GenerateImage 依提示詞生成食譜圖片，返回 JPEG data URI
func (g *Gateway) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return g.aiService.GenerateImage(ctx, prompt)
}

// CreateChatSession 創建聊天會話
func (g *Gateway) CreateChatSession(systemPrompt string) *service.ChatSession {
	return g.aiService.NewChatSession(systemPrompt)
}

// StreamReply 在會話中發送訊息並串流回覆
func (g *Gateway) StreamReply(ctx context.Context, session *service.ChatSession, text string, onFragment provider.FragmentHandler) (string, error) {
	return session.StreamReply(ctx, text, onFragment)
}
