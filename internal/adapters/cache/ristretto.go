package cache

import (
	"context"
	"fmt"
	"time"

	"ecbrates/internal/domain"

	"github.com/dgraph-io/ristretto"
)

type RistrettoRateCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

const defaultMaxItems = 4096

// NewRistrettoRateCache keeps at most maxItems rates, each for ttl (0 means no
// expiry).
func NewRistrettoRateCache(maxItems int64, ttl time.Duration) (*RistrettoRateCache, error) {
	if maxItems <= 0 {
		maxItems = defaultMaxItems
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create rate cache failed: %w", err)
	}
	return &RistrettoRateCache{cache: c, ttl: ttl}, nil
}

func (c *RistrettoRateCache) Get(_ context.Context, req domain.QuoteRequest) (domain.Rate, bool) {
	if v, ok := c.cache.Get(req.Key()); ok {
		r, ok := v.(domain.Rate)
		return r, ok
	}
	return domain.Rate{}, false
}

func (c *RistrettoRateCache) Set(_ context.Context, r domain.Rate) {
	c.cache.SetWithTTL(r.Request.Key(), r, 1, c.ttl)
}

func (c *RistrettoRateCache) Clear(_ context.Context) { c.cache.Clear() }

func (c *RistrettoRateCache) Close() { c.cache.Close() }
