package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

var rateLimitDenied = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rate_limit_deny_total",
	Help: "Requests denied by the rate limiter",
}, []string{"route"})

// RateLimit limits per client IP using an in-memory store. The rate string
// uses limiter's "<count>-<period>" form, e.g. "60-M".
func RateLimit(rate string) gin.HandlerFunc {
	formatted, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		panic(err)
	}
	instance := limiter.New(memory.NewStore(), formatted)

	return func(c *gin.Context) {
		ctx, err := instance.Get(c.Request.Context(), c.ClientIP())
		if err != nil {
			c.Next()
			return
		}
		if ctx.Reached {
			rateLimitDenied.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
