package middleware

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type RateLimitConfig struct {
	Enabled bool
	Max     int
	Window  time.Duration
	Prefix  string
}

// RateLimit allows Max requests per user per fixed Window. A nil client or
// a disabled config lets everything through, and Redis errors fail open.
func RateLimit(cfg RateLimitConfig, rdb *redis.Client) gin.HandlerFunc {
	if !cfg.Enabled || rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "rl"
	}

	return func(c *gin.Context) {
		now := time.Now()
		key := rateKey(cfg, c, now)

		pipe := rdb.TxPipeline()
		incr := pipe.Incr(c, key)
		pipe.Expire(c, key, cfg.Window)
		if _, err := pipe.Exec(c); err != nil {
			log.Printf("Rate limiter unavailable: %v", err)
			c.Next()
			return
		}

		count := incr.Val()
		remaining := int64(cfg.Max) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Max))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(cfg.Max) {
			retry := cfg.Window - time.Duration(now.UnixNano()%int64(cfg.Window))
			c.Header("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many check-ins, slow down"})
			return
		}
		c.Next()
	}
}

// rateKey buckets by authenticated user when there is one, else by client
// IP, plus route and window start.
func rateKey(cfg RateLimitConfig, c *gin.Context, now time.Time) string {
	who := "ip:" + c.ClientIP()
	if u := CurrentUser(c); u != nil {
		who = "user:" + u.ID.String()
	}
	window := now.UnixNano() / int64(cfg.Window)
	return fmt.Sprintf("%s:%s:%s:%d", cfg.Prefix, who, c.FullPath(), window)
}
