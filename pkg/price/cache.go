package price

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mocketh/walletd/pkg/utils"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const cacheKey = "walletd:rate:eth_usd"

// Cache holds the last fetched rate in Redis for a short TTL so repeated
// reads within a window share one upstream fetch. All operations are
// best-effort: errors are logged and treated as a miss.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCache creates a Redis-backed rate cache using environment variables:
//   - REDIS_HOST (default "localhost"), REDIS_PORT (default "6379")
//   - REDIS_PASSWORD (default ""), REDIS_DB (default 0)
//   - PRICE_CACHE_TTL seconds (default 30)
func NewCache(ctx context.Context, logger *zap.Logger) (*Cache, error) {
	addr := fmt.Sprintf("%s:%s", utils.Env("REDIS_HOST", "localhost"), utils.Env("REDIS_PORT", "6379"))

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.Env("REDIS_PASSWORD", ""),
		DB:       utils.EnvInt("REDIS_DB", 0),

		PoolSize:     10,
		MinIdleConns: 2,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	ttl := time.Duration(utils.EnvInt("PRICE_CACHE_TTL", 30)) * time.Second
	logger.Info("Connected to Redis for price caching",
		zap.String("addr", addr),
		zap.Duration("ttl", ttl))

	return &Cache{client: rdb, ttl: ttl, logger: logger}, nil
}

// Get returns the cached rate, or false on a miss or any Redis error.
func (c *Cache) Get(ctx context.Context) (decimal.Decimal, bool) {
	v, err := c.client.Get(ctx, cacheKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Rate cache read failed", zap.Error(err))
		}
		return decimal.Zero, false
	}

	rate, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, false
	}
	return rate, true
}

// Set stores the rate with the configured TTL, best-effort.
func (c *Cache) Set(ctx context.Context, rate decimal.Decimal) {
	if err := c.client.Set(ctx, cacheKey, rate.String(), c.ttl).Err(); err != nil {
		c.logger.Warn("Rate cache write failed", zap.Error(err))
	}
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
