package enrichment

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultConcurrency bounds parallel upstream fetches.
const DefaultConcurrency = 4

// Cache memoizes provider lookups for one run: enrichment is requested at
// most once per unique ticker. A failed lookup is cached as an empty
// context, degrading that ticker's score neutrally.
type Cache struct {
	provider    Provider
	concurrency int
	log         zerolog.Logger

	mu      sync.Mutex
	entries map[string]*TickerContext
}

// NewCache creates a per-run Cache. concurrency <= 0 falls back to
// DefaultConcurrency.
func NewCache(provider Provider, concurrency int, log zerolog.Logger) *Cache {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Cache{
		provider:    provider,
		concurrency: concurrency,
		log:         log,
		entries:     make(map[string]*TickerContext),
	}
}

// Warm fetches context for every ticker not yet cached, fanning out under
// the concurrency bound. Individual failures are logged and cached empty.
func (c *Cache) Warm(ctx context.Context, tickers []string) {
	var missing []string
	queued := make(map[string]struct{})
	c.mu.Lock()
	for _, t := range tickers {
		if _, ok := c.entries[t]; ok {
			continue
		}
		if _, ok := queued[t]; ok {
			continue
		}
		queued[t] = struct{}{}
		missing = append(missing, t)
	}
	c.mu.Unlock()
	if len(missing) == 0 {
		return
	}

	sem := make(chan struct{}, c.concurrency)
	var wg sync.WaitGroup
	for _, ticker := range missing {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			tc, err := c.provider.Context(ctx, ticker)
			if err != nil {
				c.log.Warn().Err(err).Str("ticker", ticker).Msg("enrichment lookup failed")
				tc = &TickerContext{}
			}
			c.mu.Lock()
			c.entries[ticker] = tc
			c.mu.Unlock()
		}(ticker)
	}
	wg.Wait()
}

// Context returns the cached context for a ticker, fetching it on a miss.
func (c *Cache) Context(ctx context.Context, ticker string) (*TickerContext, error) {
	c.mu.Lock()
	if tc, ok := c.entries[ticker]; ok {
		c.mu.Unlock()
		return tc, nil
	}
	c.mu.Unlock()

	c.Warm(ctx, []string{ticker})

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[ticker], nil
}

// Compile-time interface check.
var _ Provider = (*Cache)(nil)
