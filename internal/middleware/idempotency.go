package middleware

import (
	"fmt"
	"net/http"
	"time"

	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	CtxIdempotencyCacheKey = "idempotency_cache_key"
	CtxIdempotencyLockKey  = "idempotency_lock_key"

	idempotencyLockTTL = 30 * time.Second
)

// Idempotency deduplicates POST requests carrying an Idempotency-Key header.
// A cached response is replayed as-is; a concurrent duplicate is rejected
// with 409 while the first request still holds the lock. Handlers store the
// response and release the lock through the context keys above.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		userID := c.GetString(CtxUserID)
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(c.Request.Context(), cacheKey).Result()
		if err == nil {
			c.Header("Content-Type", "application/json")
			c.String(http.StatusOK, val)
			c.Abort()
			return
		}

		// Short TTL on the lock so a crashed worker cannot wedge the key.
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", idempotencyLockTTL).Result()
		if !isNew {
			response.ErrorWithCode(c, http.StatusConflict, apperror.CodeConflict,
				"A request with this key is already being processed")
			c.Abort()
			return
		}

		c.Set(CtxIdempotencyCacheKey, cacheKey)
		c.Set(CtxIdempotencyLockKey, lockKey)

		c.Next()
	}
}
