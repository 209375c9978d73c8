package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"smartpantry/internal/api"
	"smartpantry/internal/core/ai/cache"
	"smartpantry/internal/core/ai/image"
	"smartpantry/internal/core/ai/openrouter"
	"smartpantry/internal/core/ai/provider"
	"smartpantry/internal/core/ai/service"
	"smartpantry/internal/core/catalog"
	"smartpantry/internal/core/pantry"
	"smartpantry/internal/core/recipe"
	"smartpantry/internal/infrastructure/config"
	"smartpantry/internal/infrastructure/storage"
	"smartpantry/internal/pkg/common"
)

func main() {
	// 載入設定（包含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(common.LoggerOptions{
		Level: cfg.LogLevel,
		Mode:  cfg.LogMode,
		File:  cfg.LogFile,
	}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.Bool("openrouter_api_key_set", cfg.HasAPIKey()),
		zap.String("openrouter_model", cfg.OpenRouter.Model),
		zap.String("image_model", cfg.OpenRouter.ImageModel),
		zap.String("storage_driver", cfg.Storage.Driver),
	)
	if !cfg.HasAPIKey() {
		common.LogWarn("OPENROUTER_API_KEY is not set, AI features will be unavailable")
	}

	// 儲存後端
	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := storage.Open(startCtx, cfg.Storage)
	cancelStart()
	if err != nil {
		common.LogFatal("Failed to open storage", zap.Error(err), zap.String("driver", cfg.Storage.Driver))
	}
	defer store.Close()

	// AI 服務
	client := openrouter.NewClient(provider.Config{
		APIKey:     cfg.OpenRouter.APIKey,
		BaseURL:    cfg.OpenRouter.BaseURL,
		Model:      cfg.OpenRouter.Model,
		ImageModel: cfg.OpenRouter.ImageModel,
		MaxTokens:  cfg.OpenRouter.MaxTokens,
		Timeout:    cfg.OpenRouter.Timeout,
		Referer:    cfg.OpenRouter.Referer,
		Title:      cfg.OpenRouter.Title,
	})
	cacheManager := cache.NewManager(cfg.Cache)
	aiService := service.NewService(client, cacheManager, image.NewProcessor(cfg.Image.MaxSizeBytes))
	defer aiService.Close()

	// 會話控制器
	ingredients := catalog.Default()
	sessions := pantry.NewManager(recipe.NewGateway(aiService), pantry.Options{
		Store:         store,
		Catalog:       ingredients,
		ImageWorkers:  cfg.Image.Workers,
		IdleTimeout:   cfg.Session.IdleTimeout,
		SweepInterval: cfg.Session.SweepInterval,
		Chat: pantry.ChatOptions{
			SystemPrompt: cfg.Chat.SystemPrompt,
			Greeting:     cfg.Chat.Greeting,
		},
	})
	sessions.StartSweeper()
	defer sessions.Close()

	// 設置路由
	router := api.SetupRouter(cfg, api.Dependencies{
		Sessions:   sessions,
		Catalog:    ingredients,
		Store:      store,
		CacheStats: aiService.CacheStats,
	})

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	serverErr := make(chan error, 1)
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		common.LogError("Failed to start server", zap.Error(err))
	}

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
	}

	common.LogInfo("Server exited")
}
