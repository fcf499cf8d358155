package review

import (
	"time"

	"designsight/internal/domain/models"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	boundsCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "designsight_image_bounds_cache_hits_total",
		Help: "Image dimension lookups served from the LRU cache.",
	})
	boundsCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "designsight_image_bounds_cache_misses_total",
		Help: "Image dimension lookups that went to the store.",
	})
)

// BoundsCache keeps image pixel dimensions for feedback bounds checks.
// Dimensions never change after upload, so entries only leave on TTL,
// eviction or image deletion.
type BoundsCache struct {
	cache *expirable.LRU[string, models.Bounds]
}

// NewBoundsCache creates an LRU cache holding up to size entries for ttl.
func NewBoundsCache(size int, ttl time.Duration) *BoundsCache {
	if size <= 0 {
		size = 1
	}
	return &BoundsCache{cache: expirable.NewLRU[string, models.Bounds](size, nil, ttl)}
}

func (c *BoundsCache) Get(imageID string) (models.Bounds, bool) {
	b, ok := c.cache.Get(imageID)
	if ok {
		boundsCacheHits.Inc()
		return b, true
	}
	boundsCacheMisses.Inc()
	return models.Bounds{}, false
}

func (c *BoundsCache) Set(imageID string, b models.Bounds) {
	c.cache.Add(imageID, b)
}

func (c *BoundsCache) Delete(imageID string) {
	c.cache.Remove(imageID)
}
