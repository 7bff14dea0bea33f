package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	mem "tripplanner/pkg/memcache"
	"tripplanner/pkg/utils"
)

// RateLimitMiddleware throttles per client IP.
func RateLimitMiddleware(limiters mem.LimiterStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiters.Allow(c.ClientIP()) {
			c.Header("Retry-After", "10")
			utils.RespondError(c, http.StatusTooManyRequests, "Too many requests, please wait a moment before trying again")
			c.Abort()
			return
		}
		c.Next()
	}
}
