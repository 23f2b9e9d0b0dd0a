package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dkurbatov/datingapp-backend/internal/config"
)

// likeCountTTL bounds staleness of the likes-received counters.
const likeCountTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// KeyForLikesReceived generates the Redis key for a user's count of active
// likes received.
func (c *RedisCache) KeyForLikesReceived(userID uint64) string {
	return fmt.Sprintf("likes:received:%d", userID)
}

// SetLikesReceived stores the count with a fresh TTL.
func (c *RedisCache) SetLikesReceived(ctx context.Context, userID uint64, count int64) error {
	return c.Client.Set(ctx, c.KeyForLikesReceived(userID), count, likeCountTTL).Err()
}

// GetLikesReceived returns the cached count. A cache miss is reported via
// the bool, not an error.
func (c *RedisCache) GetLikesReceived(ctx context.Context, userID uint64) (int64, bool, error) {
	key := c.KeyForLikesReceived(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, likeCountTTL).Err()
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// InvalidateLikesReceived drops the counter so the next read goes to the DB.
// Called after any like write that touches the user as recipient.
func (c *RedisCache) InvalidateLikesReceived(ctx context.Context, userID uint64) error {
	return c.Client.Del(ctx, c.KeyForLikesReceived(userID)).Err()
}
