// Package geocache provides caching decorators for domain.Geocoder.
//
// Only successful lookups are cached so that misses and outages can be
// retried on the next request.
package geocache

import (
	"context"
	"strings"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/couchcryptid/climate-credit-score/internal/observability"
	"github.com/couchcryptid/climate-credit-score/internal/platform/lru"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *lru.Cache[string, domain.GeocodingResult]
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a memory cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		cache:   lru.New[string, domain.GeocodingResult](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedGeocoder) ForwardGeocode(ctx context.Context, query string) (domain.GeocodingResult, error) {
	key := cacheKey(query)
	if result, ok := c.cache.Get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("memory", "hit").Inc()
		return result, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("memory", "miss").Inc()

	result, err := c.inner.ForwardGeocode(ctx, query)
	if err != nil {
		return result, err
	}
	if cacheable(result) {
		c.cache.Put(key, result)
	}
	return result, nil
}

// cacheable rejects replies the resolver will refuse, so a retry reaches the provider.
func cacheable(result domain.GeocodingResult) bool {
	return domain.Coordinate{Lat: result.Lat, Lng: result.Lng}.Validate() == nil
}

// cacheKey normalizes a query so trivially different spellings share an entry.
func cacheKey(query string) string {
	return "fwd:" + strings.ToLower(strings.Join(strings.Fields(query), " "))
}
