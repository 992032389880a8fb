package middleware

import (
	"log"
	"time"

	"anoa.com/neoboard/pkg/ratelimiter"
	"anoa.com/neoboard/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitByIP caps requests per client IP in a fixed window. Redis errors
// let the request through.
func RateLimitByIP(rdb *redis.Client, max int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := ratelimiter.AllowRequest(c.Request.Context(), rdb, c.ClientIP(), max, window)
		if err != nil {
			if _, ok := err.(*ratelimiter.RateLimitError); ok {
				response.ResponseError(c, err)
				c.Abort()
				return
			}
			log.Printf("IP rate limiter unavailable: %v", err)
		}
		c.Next()
	}
}
