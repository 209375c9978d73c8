// Package monitoring 暴露 Prometheus 指標
package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI backend requests",
		},
		[]string{"operation", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "AI backend request duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"operation"},
	)
	recipeImagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_images_total",
			Help: "Recipe image generations by outcome",
		},
		[]string{"status"},
	)
	imageCacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_cache_operations_total",
			Help: "Image cache lookups by result",
		},
		[]string{"result"},
	)
	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Number of live pantry sessions",
		},
	)
)

// AI 請求狀態標籤
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ObserveAIRequest 記錄一次 AI 請求
func ObserveAIRequest(operation string, started time.Time, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	aiRequestsTotal.WithLabelValues(operation, status).Inc()
	aiRequestDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// ObserveRecipeImage 記錄食譜圖片生成結果
func ObserveRecipeImage(err error) {
	if err != nil {
		recipeImagesTotal.WithLabelValues(StatusError).Inc()
		return
	}
	recipeImagesTotal.WithLabelValues(StatusSuccess).Inc()
}

// ObserveImageCache 記錄圖片快取命中與否
func ObserveImageCache(hit bool) {
	if hit {
		imageCacheOperations.WithLabelValues("hit").Inc()
		return
	}
	imageCacheOperations.WithLabelValues("miss").Inc()
}

// SetActiveSessions 更新存活會話數
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

// GinMiddleware 記錄 HTTP 請求數與耗時，以路由模板作為 path 標籤
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler /metrics 端點
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
