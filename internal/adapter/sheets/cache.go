package sheets

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/couchcryptid/lead-capture-service/internal/domain"
	"github.com/couchcryptid/lead-capture-service/internal/observability"
)

const exportKey = "stations.csv"

// CachedStationSource wraps a StationSource and reuses a successful export
// for the configured TTL. Failed fetches are never cached.
type CachedStationSource struct {
	inner   domain.StationSource
	cache   *gocache.Cache
	metrics *observability.Metrics
}

// NewCachedStationSource creates a cache decorator around a station source.
func NewCachedStationSource(inner domain.StationSource, ttl time.Duration, metrics *observability.Metrics) *CachedStationSource {
	return &CachedStationSource{
		inner:   inner,
		cache:   gocache.New(ttl, 2*ttl),
		metrics: metrics,
	}
}

func (c *CachedStationSource) FetchStationsCSV(ctx context.Context) (string, error) {
	if v, ok := c.cache.Get(exportKey); ok {
		c.metrics.StationCache.WithLabelValues("hit").Inc()
		return v.(string), nil
	}
	c.metrics.StationCache.WithLabelValues("miss").Inc()

	text, err := c.inner.FetchStationsCSV(ctx)
	if err != nil {
		return "", err
	}
	c.cache.SetDefault(exportKey, text)
	return text, nil
}
