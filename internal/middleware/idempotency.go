package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader   = "Idempotency-Key"
	idempotencyLockTTL  = 30 * time.Second
	ContextKeyIdemCache = "idempotency_cache_key"
	ContextKeyIdemLock  = "idempotency_lock_key"
)

// Idempotency replays the stored response for a repeated Idempotency-Key
// and rejects a concurrent duplicate while the first request still runs.
// Handlers store the response under ContextKeyIdemCache and release the lock.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	log := zap.L().Named("middleware.idempotency")

	return func(c *gin.Context) {
		idempKey := c.GetHeader(IdempotencyHeader)
		if rdb == nil || idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), c.GetString("actor"), idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var cached any
			if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil {
				c.Header("Idempotent-Replay", "true")
				response.Success(c, http.StatusOK, cached, nil)
				c.Abort()
				return
			}
		} else if err != redis.Nil {
			log.Warn("idempotency cache read failed", zap.Error(err))
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			log.Warn("idempotency lock failed, continuing without it", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING", "A request with this Idempotency-Key is still being processed", nil)
			c.Abort()
			return
		}

		c.Set(ContextKeyIdemCache, cacheKey)
		c.Set(ContextKeyIdemLock, lockKey)

		c.Next()
	}
}

// StoreIdempotentResult saves body for replay and releases the lock. It is a
// no-op when the request carried no Idempotency-Key.
func StoreIdempotentResult(c *gin.Context, rdb *redis.Client, ttl time.Duration, body any) {
	if rdb == nil {
		return
	}
	ctx := c.Request.Context()
	if ck := c.GetString(ContextKeyIdemCache); ck != "" && body != nil {
		if payload, err := json.Marshal(body); err == nil {
			_ = rdb.Set(ctx, ck, string(payload), ttl).Err()
		}
	}
	ReleaseIdempotencyLock(c, rdb)
}

func ReleaseIdempotencyLock(c *gin.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	if lk := c.GetString(ContextKeyIdemLock); lk != "" {
		_ = rdb.Del(c.Request.Context(), lk).Err()
	}
}
