package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zen-wellness/Zen-snoopy/cache"
	"github.com/zen-wellness/Zen-snoopy/utils"
)

type CachedResponse struct {
	Status      int         `json:"status"`
	ContentType string      `json:"content_type"`
	Body        []byte      `json:"body"`
	Headers     http.Header `json:"headers"`
}

type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyLogWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func userCacheKey(c *gin.Context) string {
	userID := ""
	if user, ok := CurrentUser(c); ok {
		userID = user.ID
	}
	return fmt.Sprintf("cache:%s:%s?%s", userID, c.Request.URL.Path, c.Request.URL.RawQuery)
}

// CacheResponses кэширует успешные GET-ответы per-user на duration.
func CacheResponses(store *cache.Cache, duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		cacheKey := userCacheKey(c)

		var cachedResponse CachedResponse
		if err := store.Get(c.Request.Context(), cacheKey, &cachedResponse); err == nil {
			for key, values := range cachedResponse.Headers {
				for _, value := range values {
					c.Header(key, value)
				}
			}
			c.Header("X-Cache", "HIT")
			c.Data(cachedResponse.Status, cachedResponse.ContentType, cachedResponse.Body)
			c.Abort()
			return
		}

		c.Header("X-Cache", "MISS")

		blw := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// Кэшируем только успешные ответы
		if c.Writer.Status() == http.StatusOK {
			cachedResp := CachedResponse{
				Status:      c.Writer.Status(),
				ContentType: c.Writer.Header().Get("Content-Type"),
				Body:        blw.body.Bytes(),
				Headers:     c.Writer.Header(),
			}

			if err := store.Set(c.Request.Context(), cacheKey, cachedResp, duration); err != nil {
				utils.Logger.Warn("cache_set_failed",
					zap.Error(err),
					zap.String("key", cacheKey),
				)
			}
		}
	}
}

// InvalidateUserCache сбрасывает все кэшированные ответы пользователя —
// вызывается хендлерами после любой мутации его данных.
func InvalidateUserCache(c *gin.Context, store *cache.Cache, userID string) {
	pattern := fmt.Sprintf("cache:%s:*", userID)
	if err := store.DeletePattern(c.Request.Context(), pattern); err != nil {
		utils.Logger.Warn("cache_invalidate_failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}

// RateLimit ограничивает число запросов с одного IP за окно window.
func RateLimit(store *cache.Cache, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		key := fmt.Sprintf("rate_limit:%s", clientIP)

		count, err := store.IncrementCounter(c.Request.Context(), key, window)
		if err != nil {
			utils.Logger.Error("rate_limit_error", zap.Error(err))
			c.Next()
			return
		}

		remaining := maxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", maxRequests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if count > int64(maxRequests) {
			utils.Logger.Warn("rate_limit_exceeded",
				zap.String("ip", clientIP),
				zap.Int64("count", count),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
