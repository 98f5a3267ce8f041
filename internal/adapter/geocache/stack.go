package geocache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/couchcryptid/climate-credit-score/internal/config"
	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/couchcryptid/climate-credit-score/internal/observability"
)

// NewRedisClient returns a client for the shared geocode cache.
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
}

// Ping reports whether the Redis cache is reachable.
func Ping(ctx context.Context, client redis.Cmdable) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Stack layers the configured caches over a provider: memory first, then
// Redis when client is non-nil.
func Stack(provider domain.Geocoder, cfg *config.Config, client redis.Cmdable, metrics *observability.Metrics, logger *slog.Logger) domain.Geocoder {
	g := provider
	if client != nil {
		g = NewRedisGeocoder(g, client, cfg.RedisCacheTTL, metrics, logger)
	}
	return NewCachedGeocoder(g, cfg.MapboxCacheSize, metrics)
}
