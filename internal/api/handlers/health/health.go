package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartpantry/internal/core/ai/cache"
	"smartpantry/internal/infrastructure/config"
	"smartpantry/internal/infrastructure/storage"
	"smartpantry/internal/pkg/common"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Sessions  int                    `json:"sessions"`
	AI        AIStatus               `json:"ai"`
}

// AIStatus AI 服務狀態
type AIStatus struct {
	Configured bool        `json:"configured"`
	Model      string      `json:"model"`
	ImageModel string      `json:"image_model"`
	ImageCache cache.Stats `json:"image_cache"`
}

// Dependencies 健康檢查需要的元件
type Dependencies struct {
	Config     *config.Config
	Store      storage.Store
	Sessions   func() int
	CacheStats func() cache.Stats
}

// Handler 健康檢查處理器
type Handler struct {
	deps Dependencies
}

// NewHandler 創建健康檢查處理器
func NewHandler(deps Dependencies) *Handler {
	return &Handler{deps: deps}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	cfg := h.deps.Config

	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   cfg.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		AI: AIStatus{
			Configured: cfg.HasAPIKey(),
			Model:      cfg.OpenRouter.Model,
			ImageModel: cfg.OpenRouter.ImageModel,
		},
	}
	if h.deps.Sessions != nil {
		response.Sessions = h.deps.Sessions()
	}
	if h.deps.CacheStats != nil {
		response.AI.ImageCache = h.deps.CacheStats()
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查：儲存後端必須可用
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.deps.Store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.deps.Store.Ping(ctx); err != nil {
			common.LogWarn("Storage not ready", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "not_ready",
				"storage": err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"storage": h.deps.Config.Storage.Driver,
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
