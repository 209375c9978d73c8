package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartpantry/internal/pkg/common"
)

// RateLimiter 令牌桶限流器
type RateLimiter struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	rate     float64
	lastTime time.Time
}

// NewRateLimiter 創建新的限流器，window 內最多 requests 次
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:   float64(requests),
		capacity: float64(requests),
		rate:     float64(requests) / window.Seconds(),
		lastTime: time.Now(),
	}
}

// allowAt 檢查 now 時是否允許請求
func (rl *RateLimiter) allowAt(now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	elapsed := now.Sub(rl.lastTime).Seconds()
	if elapsed > 0 {
		rl.tokens = min(rl.capacity, rl.tokens+elapsed*rl.rate)
		rl.lastTime = now
	}

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// clientLimiters 每個來源 IP 一個令牌桶
type clientLimiters struct {
	mu       sync.Mutex
	requests int
	window   time.Duration
	limiters map[string]*RateLimiter
	lastSeen map[string]time.Time
}

func (cl *clientLimiters) get(key string, now time.Time) *RateLimiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	// 閒置超過兩個視窗的桶已經回滿，直接回收
	for k, seen := range cl.lastSeen {
		if now.Sub(seen) > 2*cl.window {
			delete(cl.limiters, k)
			delete(cl.lastSeen, k)
		}
	}

	l, ok := cl.limiters[key]
	if !ok {
		l = NewRateLimiter(cl.requests, cl.window)
		cl.limiters[key] = l
	}
	cl.lastSeen[key] = now
	return l
}

// RateLimit 依來源 IP 限流的中間件
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	clients := &clientLimiters{
		requests: requests,
		window:   window,
		limiters: make(map[string]*RateLimiter),
		lastSeen: make(map[string]time.Time),
	}

	return func(c *gin.Context) {
		now := time.Now()
		if !clients.get(c.ClientIP(), now).allowAt(now) {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
				Code:    common.ErrTooManyRequests.Code,
				Message: "Too many requests",
			})
			return
		}

		c.Next()
	}
}
