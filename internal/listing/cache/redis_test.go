package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lowa/pkg/platform/circuit"
	"lowa/pkg/platform/sentinel"
)

// unreachableClient points at a closed port so every command fails fast.
func unreachableClient(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisViewCacheOpensBreakerOnFailures(t *testing.T) {
	ctx := context.Background()
	breaker := circuit.New("view_cache", circuit.WithFailureThreshold(2), circuit.WithProbeInterval(time.Hour))
	c := NewRedisViewCache(unreachableClient(t), WithBreaker(breaker))

	var dst []string
	_, err := c.Get(ctx, "views:invitations", &dst)
	require.Error(t, err)
	assert.False(t, c.Open())

	require.Error(t, c.Set(ctx, "views:invitations", []string{"a"}))
	assert.True(t, c.Open())

	// Open breaker: the cache acts as a silent miss.
	hit, err := c.Get(ctx, "views:invitations", &dst)
	require.NoError(t, err)
	assert.False(t, hit)
	require.NoError(t, c.Set(ctx, "views:invitations", []string{"a"}))

	// Generation reads are skipped while open; invalidation still reaches Redis.
	_, err = c.Generation(ctx, "views:invitations")
	require.ErrorIs(t, err, sentinel.ErrUnavailable)
	require.Error(t, c.Invalidate(ctx, "views:invitations"))
}
