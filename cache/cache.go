// Package cache provides a Redis-backed cache for ranking results. Entries
// are keyed by intent fingerprint, so semantically identical intents share
// a cache slot regardless of how they are phrased.
package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MartiniMaung/loom/weaver"
)

// ErrMiss indicates no cached result exists for the fingerprint.
var ErrMiss = errors.New("cache miss")

// Cache defines the interface for storing and retrieving ranking results.
type Cache interface {
	// Get returns the cached result for an intent fingerprint.
	// Returns ErrMiss when nothing is cached.
	Get(ctx context.Context, fingerprint string) (weaver.Result, error)

	// Put stores a ranking result under an intent fingerprint.
	Put(ctx context.Context, fingerprint string, result weaver.Result) error

	// Invalidate removes the cached result for an intent fingerprint.
	Invalidate(ctx context.Context, fingerprint string) error

	// Flush removes every cached ranking. Call it after graph mutations so
	// stale rankings cannot be served.
	Flush(ctx context.Context) error

	// Close closes the underlying connection.
	Close() error
}

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string

	// TLS configuration for secure connections
	TLS *tls.Config

	// TTL is how long cached rankings stay valid. Default: 15m
	TTL time.Duration

	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration
}

// keyPrefix namespaces ranking entries within a shared Redis instance.
const keyPrefix = "loom:rank:"

// RedisCache implements the Cache interface using go-redis/v9.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis ranking cache with the given options.
func NewRedisCache(opts RedisOptions) (*RedisCache, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.TTL == 0 {
		opts.TTL = 15 * time.Minute
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout

	return &RedisCache{
		client: redis.NewClient(redisOpts),
		ttl:    opts.TTL,
	}, nil
}

// NewRedisCacheFromClient wraps an existing client, mainly for tests.
func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached result for an intent fingerprint.
func (c *RedisCache) Get(ctx context.Context, fingerprint string) (weaver.Result, error) {
	data, err := c.client.Get(ctx, keyPrefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		return weaver.Result{}, ErrMiss
	}
	if err != nil {
		return weaver.Result{}, fmt.Errorf("failed to read cached ranking: %w", err)
	}

	var result weaver.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return weaver.Result{}, fmt.Errorf("failed to decode cached ranking: %w", err)
	}
	return result, nil
}

// Put stores a ranking result under an intent fingerprint with the
// configured TTL.
func (c *RedisCache) Put(ctx context.Context, fingerprint string, result weaver.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode ranking: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+fingerprint, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store ranking: %w", err)
	}
	return nil
}

// Invalidate removes the cached result for an intent fingerprint.
func (c *RedisCache) Invalidate(ctx context.Context, fingerprint string) error {
	if err := c.client.Del(ctx, keyPrefix+fingerprint).Err(); err != nil {
		return fmt.Errorf("failed to invalidate ranking: %w", err)
	}
	return nil
}

// Flush removes every cached ranking, leaving unrelated keys in the same
// Redis instance alone.
func (c *RedisCache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached rankings: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to flush rankings: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
