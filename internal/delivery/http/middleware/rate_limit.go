package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const rateLimitMessage = "Rate limit exceeded. Please try again later."

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Custom key extractor (default: IP-based)
	KeyFunc func(*gin.Context) string
	// Key prefix for Redis
	KeyPrefix string
	// Redis backs the shared counter; nil means in-memory only
	Redis ScriptRunner
	Log   *zap.Logger
	// Now is the clock used by the in-memory store
	Now func() time.Time
}

// ScriptRunner is the part of a Redis client the limiter needs.
// *goredis.Client satisfies it.
type ScriptRunner interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *goredis.Cmd
}

// rateLimitEntry tracks request count for a key (in-memory fallback)
type rateLimitEntry struct {
	count   int
	resetAt time.Time
	mu      sync.Mutex
}

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

// ContactRateLimitConfig limits contact submissions per client IP
func ContactRateLimitConfig(limit int, window time.Duration, client *goredis.Client, log *zap.Logger) RateLimitConfig {
	cfg := RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:contact:",
		Log:       log,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
	// a nil *Client stored in the interface would not compare equal to nil
	if client != nil {
		cfg.Redis = client
	}
	return cfg
}

type rateLimiter struct {
	config      RateLimitConfig
	store       sync.Map
	cleanupOnce sync.Once
}

// RateLimitMiddleware creates a fixed-window rate limiter.
// Uses Redis when available and falls back to memory on Redis errors.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.Log == nil {
		config.Log = zap.NewNop()
	}
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	rl := &rateLimiter{config: config}

	return func(c *gin.Context) {
		rl.cleanupOnce.Do(rl.startCleanup)

		fullKey := config.KeyPrefix + config.KeyFunc(c)

		var (
			count   int
			resetAt time.Time
			err     error
		)
		if config.Redis != nil {
			count, resetAt, err = rl.checkRedis(c.Request.Context(), fullKey)
			if err != nil {
				config.Log.Warn("Rate limit store unavailable, using memory",
					zap.String("request_id", RequestIDFrom(c)),
					zap.Error(err))
				count, resetAt = rl.checkInMemory(fullKey)
			}
		} else {
			count, resetAt = rl.checkInMemory(fullKey)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := int(resetAt.Sub(config.Now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			config.Log.Info("Rate limit triggered",
				zap.String("request_id", RequestIDFrom(c)),
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.FullPath()))

			_ = c.Error(apperror.TooManyRequests(rateLimitMessage))
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(config.Limit-count))
		c.Next()
	}
}

// checkRedis checks rate limit using Redis with atomic Lua script
func (rl *rateLimiter) checkRedis(ctx context.Context, key string) (int, time.Time, error) {
	ttlSeconds := int(rl.config.Window.Seconds())

	result, err := rl.config.Redis.Eval(ctx, rateLimitLuaScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	// Parse result [count, ttl]
	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}

	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), rl.config.Now().Add(time.Duration(ttl) * time.Second), nil
}

// checkInMemory checks rate limit using the in-memory store
func (rl *rateLimiter) checkInMemory(key string) (int, time.Time) {
	now := rl.config.Now()
	entryI, _ := rl.store.LoadOrStore(key, &rateLimitEntry{
		resetAt: now.Add(rl.config.Window),
	})
	entry := entryI.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// Reset if window expired
	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(rl.config.Window)
	}
	entry.count++

	return entry.count, entry.resetAt
}

// startCleanup drops expired in-memory entries in the background
func (rl *rateLimiter) startCleanup() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			now := rl.config.Now()
			rl.store.Range(func(key, value interface{}) bool {
				entry := value.(*rateLimitEntry)
				entry.mu.Lock()
				if now.After(entry.resetAt) {
					rl.store.Delete(key)
				}
				entry.mu.Unlock()
				return true
			})
		}
	}()
}
