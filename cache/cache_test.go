package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MartiniMaung/loom/taxonomy"
	"github.com/MartiniMaung/loom/weaver"
)

// setupTestCache creates a miniredis instance and returns a connected RedisCache.
func setupTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	c, err := NewRedisCache(RedisOptions{
		URL: fmt.Sprintf("redis://%s", mr.Addr()),
		TTL: time.Minute,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
		mr.Close()
	})

	return c, mr
}

func sampleResult() weaver.Result {
	return weaver.Result{
		Patterns: []weaver.Pattern{{
			Name:       "Django + PostgreSQL Stack",
			Confidence: 0.82,
			Complexity: 0.31,
			Components: []weaver.Component{
				{Role: "Application Framework", Capability: taxonomy.CapabilityWebFramework, Name: "Django", License: "BSD-3-Clause"},
				{Role: "Primary Database", Capability: taxonomy.CapabilityDatabase, Name: "PostgreSQL", License: "PostgreSQL"},
			},
		}},
	}
}

func TestCachePutGet(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	want := sampleResult()
	require.NoError(t, c.Put(ctx, "fp-1", want))

	got, err := c.Get(ctx, "fp-1")
	require.NoError(t, err)
	assert.Equal(t, want.Patterns[0].Name, got.Patterns[0].Name)
	assert.InDelta(t, want.Patterns[0].Confidence, got.Patterns[0].Confidence, 1e-9)
	assert.Len(t, got.Patterns[0].Components, 2)
}

func TestCacheMiss(t *testing.T) {
	c, _ := setupTestCache(t)

	_, err := c.Get(context.Background(), "never-stored")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestCacheExpiry(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "fp-1", sampleResult()))
	mr.FastForward(2 * time.Minute)

	_, err := c.Get(ctx, "fp-1")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestCacheInvalidate(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "fp-1", sampleResult()))
	require.NoError(t, c.Invalidate(ctx, "fp-1"))

	_, err := c.Get(ctx, "fp-1")
	assert.ErrorIs(t, err, ErrMiss)

	// Invalidating an absent entry is not an error.
	assert.NoError(t, c.Invalidate(ctx, "fp-1"))
}

func TestCacheFlush(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "fp-1", sampleResult()))
	require.NoError(t, c.Put(ctx, "fp-2", sampleResult()))
	// An unrelated key in the same instance must survive the flush.
	require.NoError(t, mr.Set("session:abc", "keep"))

	require.NoError(t, c.Flush(ctx))

	_, err := c.Get(ctx, "fp-1")
	assert.ErrorIs(t, err, ErrMiss)
	_, err = c.Get(ctx, "fp-2")
	assert.ErrorIs(t, err, ErrMiss)
	assert.True(t, mr.Exists("session:abc"))
}

func TestCacheFlushEmpty(t *testing.T) {
	c, _ := setupTestCache(t)
	assert.NoError(t, c.Flush(context.Background()))
}

func TestCacheCorruptEntry(t *testing.T) {
	c, mr := setupTestCache(t)

	require.NoError(t, mr.Set(keyPrefix+"fp-1", "not json"))
	_, err := c.Get(context.Background(), "fp-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}

func TestCacheInvalidURL(t *testing.T) {
	_, err := NewRedisCache(RedisOptions{URL: "not-a-url://///"})
	assert.Error(t, err)
}
