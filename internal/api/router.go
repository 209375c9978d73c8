package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartpantry/internal/api/handlers/health"
	recipeHandler "smartpantry/internal/api/handlers/recipe"
	"smartpantry/internal/api/middleware"
	"smartpantry/internal/core/ai/cache"
	"smartpantry/internal/core/catalog"
	"smartpantry/internal/core/pantry"
	"smartpantry/internal/infrastructure/config"
	"smartpantry/internal/infrastructure/monitoring"
	"smartpantry/internal/infrastructure/storage"
	"smartpantry/internal/pkg/common"
)

const (
	// 預設超時設置
	defaultTimeout = 120 * time.Second
	// 預設請求體大小限制 (1MB)
	defaultMaxBodySize = 1 << 20
)

// Dependencies 路由需要的服務
type Dependencies struct {
	Sessions   *pantry.Manager
	Catalog    *catalog.Catalog
	Store      storage.Store
	CacheStats func() cache.Stats
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	timeout := cfg.Server.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBodySize := cfg.Server.MaxBodyBytes
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.Logger())
	router.Use(monitoring.GinMiddleware())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-Client-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制與超時
	router.Use(middleware.BodySizeLimit(maxBodySize))
	router.Use(middleware.Timeout(timeout))

	// 健康檢查路由
	sessionCount := func() int { return 0 }
	if deps.Sessions != nil {
		sessionCount = deps.Sessions.Len
	}
	healthHandler := health.NewHandler(health.Dependencies{
		Config:     cfg,
		Store:      deps.Store,
		Sessions:   sessionCount,
		CacheStats: deps.CacheStats,
	})
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", monitoring.Handler())

	// API 路由組
	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	h := recipeHandler.NewHandler(deps.Sessions, deps.Catalog)
	api.GET("/catalog", h.HandleCatalog)
	api.POST("/sessions", h.HandleCreateSession)

	sessionGroup := api.Group("/sessions/:id")
	{
		sessionGroup.GET("", h.HandleGetSession)
		sessionGroup.DELETE("", h.HandleDeleteSession)

		// 食材
		sessionGroup.POST("/pantry", h.HandleAddIngredient)
		sessionGroup.DELETE("/pantry/:name", h.HandleRemoveIngredient)
		sessionGroup.POST("/pantry/suggest", h.HandleSuggestIngredient)
		sessionGroup.GET("/pantry/autocomplete", h.HandleAutocomplete)
		sessionGroup.GET("/pantry/catalog", h.HandlePantryCatalog)

		// 篩選條件
		sessionGroup.PUT("/filters", h.HandleSetFilters)
		sessionGroup.DELETE("/filters", h.HandleClearFilters)
		sessionGroup.POST("/filters/allergies", h.HandleToggleAllergy)

		// 食譜搜尋與排序，重複送出的搜尋直接擋掉
		sessionGroup.POST("/recipes", middleware.Deduplication(cfg.DedupWindow), h.HandleFindRecipes)
		sessionGroup.GET("/recipes", h.HandleGetRecipes)
		sessionGroup.PUT("/sort", h.HandleSetSort)
		sessionGroup.POST("/sort/toggle", h.HandleToggleSort)

		// 收藏與評分
		sessionGroup.GET("/saved", h.HandleListSaved)
		sessionGroup.POST("/saved", h.HandleSaveRecipe)
		sessionGroup.DELETE("/saved/:name", h.HandleRemoveSaved)
		sessionGroup.GET("/ratings", h.HandleListRatings)
		sessionGroup.PUT("/ratings/:name", h.HandleRateRecipe)

		// 烹調畫面
		sessionGroup.POST("/cooking", h.HandleStartCooking)
		sessionGroup.DELETE("/cooking", h.HandleStopCooking)
		sessionGroup.POST("/cooking/checklist", h.HandleToggleChecklist)
		sessionGroup.POST("/cooked", h.HandleMarkCooked)

		// 聊天助手
		sessionGroup.POST("/chat/open", h.HandleOpenChat)
		sessionGroup.DELETE("/chat", h.HandleCloseChat)
		sessionGroup.GET("/chat", h.HandleGetChat)
		sessionGroup.POST("/chat/messages", h.HandleSendChatMessage)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.ErrorResponse{
			Code:    common.ErrNotFound.Code,
			Message: "route not found",
		})
	})

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("timeout", timeout),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router
}
