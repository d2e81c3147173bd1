// Package cache keeps constituent models around between requests.
package cache

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"go.ngs.io/tide-clock/internal/domain"
	"go.ngs.io/tide-clock/internal/metrics"
)

// DefaultSize is the number of (calibration, year) models kept by default.
const DefaultSize = 256

type modelKey struct {
	calibration string
	year        int
}

// ModelCache is an LRU of immutable ConstituentModels keyed by calibration
// source and year. Concurrent misses on one key may build the model twice;
// both results are identical.
type ModelCache struct {
	lru    *lru.Cache[modelKey, *domain.ConstituentModel]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// Stats reports cache effectiveness.
type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Size   int    `json:"size"`
}

// NewModelCache creates a cache holding up to size models.
func NewModelCache(size int) (*ModelCache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	l, err := lru.New[modelKey, *domain.ConstituentModel](size)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}
	return &ModelCache{lru: l}, nil
}

// GetOrBuild returns the model for (calibration, year), calling load and
// building the model only on a miss.
func (c *ModelCache) GetOrBuild(calibration string, year int, load func() (domain.CalibrationTable, error)) (*domain.ConstituentModel, error) {
	key := modelKey{calibration: calibration, year: year}
	if m, ok := c.lru.Get(key); ok {
		c.hits.Add(1)
		metrics.CacheHit()
		return m, nil
	}
	c.misses.Add(1)
	metrics.CacheMiss()

	table, err := load()
	if err != nil {
		return nil, err
	}

	m := domain.NewConstituentModel(year, table)
	c.lru.Add(key, m)
	return m, nil
}

// Stats returns hit and miss counts since creation.
func (c *ModelCache) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.lru.Len(),
	}
}

// Purge drops every cached model.
func (c *ModelCache) Purge() {
	c.lru.Purge()
}
