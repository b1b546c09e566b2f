package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces translation keys in a shared Redis database.
const DefaultKeyPrefix = "csvlate:"

// RedisCache is a Redis-backed translation cache shared between runs and
// machines.
type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	timeout   time.Duration
	onError   func(error)
}

// RedisConfig holds configuration for the Redis cache.
type RedisConfig struct {
	URL       string        // Redis connection URL (e.g., "redis://localhost:6379/0")
	TTL       int           // TTL in seconds (0 = no expiration)
	KeyPrefix string        // Default: DefaultKeyPrefix
	Timeout   time.Duration // Per-operation timeout (default: 5s)

	// OnError receives lookup failures, which are otherwise reported as
	// cache misses.
	OnError func(error)
}

// NewRedisCache connects to Redis and checks the connection.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	c := newRedisCache(redis.NewClient(opts), cfg)
	if err := c.Ping(); err != nil {
		_ = c.client.Close()
		return nil, err
	}
	return c, nil
}

// NewRedisCacheFromClient creates a RedisCache from an existing Redis client.
func NewRedisCacheFromClient(client *redis.Client, ttlSeconds int, keyPrefix string) *RedisCache {
	return newRedisCache(client, RedisConfig{TTL: ttlSeconds, KeyPrefix: keyPrefix})
}

func newRedisCache(client *redis.Client, cfg RedisConfig) *RedisCache {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	var ttl time.Duration
	if cfg.TTL > 0 {
		ttl = time.Duration(cfg.TTL) * time.Second
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &RedisCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: prefix,
		timeout:   timeout,
		onError:   cfg.OnError,
	}
}

// Get retrieves a value from Redis. Connection errors count as misses.
func (c *RedisCache) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	val, err := c.client.Get(ctx, c.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		if c.onError != nil {
			c.onError(err)
		}
		return "", false
	}
	return val, true
}

// Set stores a value in Redis.
func (c *RedisCache) Set(key string, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	return c.client.Set(ctx, c.keyPrefix+key, value, c.ttl).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping tests the Redis connection.
func (c *RedisCache) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	return c.client.Ping(ctx).Err()
}

var _ TranslationCache = (*RedisCache)(nil)
