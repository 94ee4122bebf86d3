package ratelimit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/rental-backend/internal/auth"
	"github.com/nekogravitycat/rental-backend/internal/metrics"
)

// Middleware rejects requests over the limit with 429. Authenticated callers
// are keyed by user ID, anonymous ones by client IP. Limiter failures let the
// request through. The middleware never calls c.Next.
func Middleware(l Limiter, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := auth.GetUserID(c)
		if key == "" {
			key = "ip:" + c.ClientIP()
		}

		allowed, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
			return
		}

		if !allowed {
			metrics.IncRateLimited()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		}
	}
}
