package geocache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/couchcryptid/climate-credit-score/internal/observability"
)

const redisKeyPrefix = "geocode:"

// RedisGeocoder wraps a Geocoder with a Redis cache shared across processes.
// Redis failures are logged and the lookup falls through to the inner geocoder.
type RedisGeocoder struct {
	inner   domain.Geocoder
	client  redis.Cmdable
	ttl     time.Duration
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewRedisGeocoder creates a Redis cache decorator. Entries expire after ttl.
func NewRedisGeocoder(inner domain.Geocoder, client redis.Cmdable, ttl time.Duration, metrics *observability.Metrics, logger *slog.Logger) *RedisGeocoder {
	return &RedisGeocoder{
		inner:   inner,
		client:  client,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger,
	}
}

func (r *RedisGeocoder) ForwardGeocode(ctx context.Context, query string) (domain.GeocodingResult, error) {
	key := redisKeyPrefix + cacheKey(query)

	if result, ok := r.lookup(ctx, key); ok {
		return result, nil
	}

	result, err := r.inner.ForwardGeocode(ctx, query)
	if err != nil {
		return result, err
	}
	if cacheable(result) {
		r.store(ctx, key, result)
	}
	return result, nil
}

func (r *RedisGeocoder) lookup(ctx context.Context, key string) (domain.GeocodingResult, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		r.metrics.GeocodeCache.WithLabelValues("redis", "miss").Inc()
		return domain.GeocodingResult{}, false
	case err != nil:
		r.metrics.GeocodeCache.WithLabelValues("redis", "error").Inc()
		r.logger.Warn("geocode cache read failed", "key", key, "error", err)
		return domain.GeocodingResult{}, false
	}

	var result domain.GeocodingResult
	if err := json.Unmarshal(val, &result); err != nil {
		r.metrics.GeocodeCache.WithLabelValues("redis", "error").Inc()
		r.logger.Warn("geocode cache entry corrupt", "key", key, "error", err)
		return domain.GeocodingResult{}, false
	}
	r.metrics.GeocodeCache.WithLabelValues("redis", "hit").Inc()
	return result, true
}

func (r *RedisGeocoder) store(ctx context.Context, key string, result domain.GeocodingResult) {
	data, err := json.Marshal(result)
	if err != nil {
		r.metrics.GeocodeCache.WithLabelValues("redis", "error").Inc()
		r.logger.Warn("geocode cache entry not encodable", "key", key, "error", err)
		return
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.metrics.GeocodeCache.WithLabelValues("redis", "error").Inc()
		r.logger.Warn("geocode cache write failed", "key", key, "error", err)
	}
}
