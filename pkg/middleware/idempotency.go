package middleware

import (
	"net/http"
	"strings"
	"time"

	"SafeAlarm/pkg/cache"

	"github.com/gin-gonic/gin"
)

// IdempotencyConfig guards side-effecting routes against duplicate client
// retries inside the TTL window. Requests without an Idempotency-Key header
// pass through untouched; dispatch stays at-least-once either way, this only
// narrows the duplicate window for well-behaved clients.
type IdempotencyConfig struct {
	HeaderName string
	TTL        time.Duration
	Store      cache.Cache
}

func IdempotencyMiddleware(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "Idempotency-Key"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	store := cfg.Store
	if store == nil {
		store = cache.NewLocalCache(cache.LocalConfig{})
	}

	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(cfg.HeaderName))
		if key == "" {
			c.Next()
			return
		}
		cacheKey := "idem:" + c.FullPath() + ":" + key
		if store.Exists(c.Request.Context(), cacheKey) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "duplicate request"})
			return
		}
		_ = store.Set(c.Request.Context(), cacheKey, time.Now().Unix(), cfg.TTL)
		c.Next()
	}
}
