package middlewares

import (
	"net/http"
	"time"

	"civicpulse-be/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// IssueRateLimiter caps how many issues a user may create per 24h window.
// Counting is a per-user Redis INCR with a TTL set on the first increment.
func IssueRateLimiter(client *redis.Client, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, _ := c.Get(CtxUserID)
		userID, ok := userIDVal.(string)
		if !ok || userID == "" {
			utils.Fail(c, http.StatusUnauthorized, "Missing or invalid authorization")
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		userKey := "issue_limit:" + userID

		count, err := client.Incr(ctx, userKey).Result()
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			c.Abort()
			return
		}

		if count == 1 {
			if err := client.Expire(ctx, userKey, 24*time.Hour).Err(); err != nil {
				utils.Fail(c, http.StatusInternalServerError, "Internal server error")
				c.Abort()
				return
			}
		}

		if count > int64(limit) {
			retryAfter, _ := client.TTL(ctx, userKey).Result()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success":     false,
				"message":     "Daily issue limit reached",
				"retry_after": retryAfter.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
