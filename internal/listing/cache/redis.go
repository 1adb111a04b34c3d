package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lowa/pkg/platform/circuit"
	"lowa/pkg/platform/sentinel"
)

const (
	defaultTTL = 30 * time.Second
	keyPrefix  = "lowa:"
	genPrefix  = "lowa:gen:"
)

// RedisViewCache stores serialized public views with a short TTL. Only
// public views are ever written here, so a cache dump never exposes contact
// ids or preferences.
//
// Reads and writes go through a circuit breaker: while Redis is failing the
// cache behaves as a permanent miss instead of adding a timeout to every
// browse request.
type RedisViewCache struct {
	client  redis.UniversalClient
	ttl     time.Duration
	breaker *circuit.Breaker
}

type Option func(*RedisViewCache)

func WithTTL(ttl time.Duration) Option {
	return func(c *RedisViewCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(c *RedisViewCache) {
		if b != nil {
			c.breaker = b
		}
	}
}

func NewRedisViewCache(client redis.UniversalClient, opts ...Option) *RedisViewCache {
	c := &RedisViewCache{client: client, ttl: defaultTTL, breaker: circuit.New("view_cache")}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open reports whether the breaker is currently bypassing Redis.
func (c *RedisViewCache) Open() bool {
	return c.breaker.IsOpen()
}

func (c *RedisViewCache) record(err error) error {
	if err != nil {
		c.breaker.RecordFailure()
		return err
	}
	c.breaker.RecordSuccess()
	return nil
}

// Get decodes the cached value into dst. A missing key is a miss, not an error.
func (c *RedisViewCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if !c.breaker.Allow() {
		return false, nil
	}
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.breaker.RecordSuccess()
		return false, nil
	}
	if err := c.record(err); err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisViewCache) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if !c.breaker.Allow() {
		return nil
	}
	return c.record(c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err())
}

// Generation returns the collection's current version, zero if it was never
// invalidated. While the breaker bypasses Redis it returns
// sentinel.ErrUnavailable so callers skip caching for that read.
func (c *RedisViewCache) Generation(ctx context.Context, collection string) (int64, error) {
	if !c.breaker.Allow() {
		return 0, sentinel.ErrUnavailable
	}
	gen, err := c.client.Get(ctx, genPrefix+collection).Int64()
	if errors.Is(err, redis.Nil) {
		c.breaker.RecordSuccess()
		return 0, nil
	}
	if err := c.record(err); err != nil {
		return 0, fmt.Errorf("generation %s: %w", collection, err)
	}
	return gen, nil
}

// Invalidate advances the collection's generation. Entries written under an
// older generation are never read again and expire with their TTL.
func (c *RedisViewCache) Invalidate(ctx context.Context, collection string) error {
	// Invalidation always reaches Redis, open or not.
	if err := c.record(c.client.Incr(ctx, genPrefix+collection).Err()); err != nil {
		return fmt.Errorf("invalidate %s: %w", collection, err)
	}
	return nil
}
