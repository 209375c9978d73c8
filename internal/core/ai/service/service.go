package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"smartpantry/internal/core/ai/cache"
	"smartpantry/internal/core/ai/image"
	"smartpantry/internal/core/ai/provider"
	"smartpantry/internal/infrastructure/monitoring"
	"smartpantry/internal/pkg/common"

	"go.uber.org/zap"
)

const imageCacheNamespace = "image"

// 操作名稱，用於日誌與指標
const (
	OpGenerate = "generate"
	OpImage    = "image"
	OpChat     = "chat"
)

// Service AI 服務：統一錯誤轉換、指標與圖片快取
type Service struct {
	provider     provider.Provider
	cacheManager *cache.CacheManager
	images       *image.Processor
}

// NewService 創建 AI 服務，cacheManager 可為 nil
func NewService(p provider.Provider, cacheManager *cache.CacheManager, images *image.Processor) *Service {
	return &Service{
		provider:     p,
		cacheManager: cacheManager,
		images:       images,
	}
}

// Model 文字模型名稱
func (s *Service) Model() string {
	return s.provider.GetModel()
}

// ProcessRequest 統一對外方法，所有失敗都轉為 AI 服務錯誤
func (s *Service) ProcessRequest(ctx context.Context, operation string, req *provider.Request) (*provider.Response, error) {
	started := time.Now()
	resp, err := s.provider.Generate(ctx, req)
	monitoring.ObserveAIRequest(operation, started, err)
	common.LogAICall(operation, time.Since(started), err)
	if err != nil {
		return nil, asServiceError(err)
	}
	return resp, nil
}

// GenerateImage 生成圖片並正規化為 JPEG data URI，相同提示詞命中快取時不再請求
func (s *Service) GenerateImage(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)

	if cached, err := s.cacheManager.Get(imageCacheNamespace, prompt); err == nil {
		monitoring.ObserveImageCache(true)
		return cached, nil
	}
	monitoring.ObserveImageCache(false)

	started := time.Now()
	raw, err := s.provider.GenerateImage(ctx, prompt)
	if err == nil {
		raw, err = s.images.Normalize(ctx, raw)
	}
	monitoring.ObserveAIRequest(OpImage, started, err)
	common.LogAICall(OpImage, time.Since(started), err)
	if err != nil {
		return "", asServiceError(err)
	}

	s.cacheManager.Set(imageCacheNamespace, prompt, raw)
	return raw, nil
}

// NewChatSession 創建帶系統提示的聊天會話
func (s *Service) NewChatSession(systemPrompt string) *ChatSession {
	return newChatSession(s, systemPrompt)
}

// CacheStats 圖片快取統計
func (s *Service) CacheStats() cache.Stats {
	return s.cacheManager.GetStats()
}

// Close 關閉底層資源
func (s *Service) Close() error {
	if err := s.cacheManager.Close(); err != nil {
		common.LogWarn("關閉快取失敗", zap.Error(err))
	}
	return s.provider.Close()
}

// asServiceError 將任何 AI 相關錯誤轉為統一的 503 錯誤，保留原始錯誤作為原因
func asServiceError(err error) error {
	if errors.Is(err, common.ErrAIServiceError) {
		return err
	}
	return common.WrapError(common.ErrAIServiceError, err)
}
