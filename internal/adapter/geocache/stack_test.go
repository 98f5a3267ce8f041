package geocache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-credit-score/internal/config"
	"github.com/couchcryptid/climate-credit-score/internal/observability"
)

func TestStack_MemoryThenRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := &config.Config{MapboxCacheSize: 10, RedisCacheTTL: time.Hour}
	inner := &countingGeocoder{result: mumbaiResult}
	g := Stack(inner, cfg, client, observability.NewMetricsForTesting(), discardLogger())

	for range 3 {
		res, err := g.ForwardGeocode(context.Background(), "Mumbai")
		require.NoError(t, err)
		assert.Equal(t, mumbaiResult, res)
	}

	assert.Equal(t, 1, inner.callCount())
	assert.True(t, mr.Exists(redisKeyPrefix+cacheKey("Mumbai")))
}

func TestStack_WithoutRedis(t *testing.T) {
	cfg := &config.Config{MapboxCacheSize: 10}
	inner := &countingGeocoder{result: mumbaiResult}
	g := Stack(inner, cfg, nil, observability.NewMetricsForTesting(), discardLogger())

	_, ok := g.(*CachedGeocoder)
	require.True(t, ok)

	_, err := g.ForwardGeocode(context.Background(), "Mumbai")
	require.NoError(t, err)
	_, err = g.ForwardGeocode(context.Background(), "mumbai")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.callCount())
}

func TestPing(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedisClient(mr.Addr())
	t.Cleanup(func() { client.Close() })

	require.NoError(t, Ping(context.Background(), client))

	mr.Close()
	assert.Error(t, Ping(context.Background(), client))
}
