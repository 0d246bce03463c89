package enrichment

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

type countingProvider struct {
	mu      sync.Mutex
	calls   map[string]int
	inUse   atomic.Int32
	maxSeen atomic.Int32
	fail    map[string]bool
}

func newCountingProvider() *countingProvider {
	return &countingProvider{calls: make(map[string]int), fail: make(map[string]bool)}
}

func (p *countingProvider) Context(_ context.Context, ticker string) (*TickerContext, error) {
	cur := p.inUse.Add(1)
	defer p.inUse.Add(-1)
	for {
		max := p.maxSeen.Load()
		if cur <= max || p.maxSeen.CompareAndSwap(max, cur) {
			break
		}
	}

	p.mu.Lock()
	p.calls[ticker]++
	p.mu.Unlock()

	if p.fail[ticker] {
		return nil, errors.New("upstream down")
	}
	mc := 1e9
	return &TickerContext{MarketCap: &mc}, nil
}

func TestCache_OneFetchPerTicker(t *testing.T) {
	p := newCountingProvider()
	cache := NewCache(p, 2, zerolog.Nop())
	ctx := context.Background()

	cache.Warm(ctx, []string{"A", "B", "A"})
	cache.Warm(ctx, []string{"A", "B", "C"})

	for _, ticker := range []string{"A", "B", "C"} {
		if p.calls[ticker] != 1 {
			t.Fatalf("ticker %s fetched %d times, want 1", ticker, p.calls[ticker])
		}
		tc, err := cache.Context(ctx, ticker)
		if err != nil {
			t.Fatalf("Context: %v", err)
		}
		if tc == nil || tc.MarketCap == nil {
			t.Fatalf("expected cached context for %s", ticker)
		}
	}
}

func TestCache_FailureCachedEmpty(t *testing.T) {
	p := newCountingProvider()
	p.fail["BAD"] = true
	cache := NewCache(p, 1, zerolog.Nop())
	ctx := context.Background()

	cache.Warm(ctx, []string{"BAD"})

	tc, err := cache.Context(ctx, "BAD")
	if err != nil {
		t.Fatalf("Context: %v", err)
	}
	if tc == nil || tc.MarketCap != nil || tc.ShortInterestPct != nil {
		t.Fatalf("expected empty context, got %+v", tc)
	}
	if p.calls["BAD"] != 1 {
		t.Fatalf("failed ticker refetched: %d calls", p.calls["BAD"])
	}
}

func TestCache_BoundedConcurrency(t *testing.T) {
	p := newCountingProvider()
	cache := NewCache(p, 2, zerolog.Nop())

	tickers := make([]string, 20)
	for i := range tickers {
		tickers[i] = string(rune('A' + i))
	}
	cache.Warm(context.Background(), tickers)

	if max := p.maxSeen.Load(); max > 2 {
		t.Fatalf("observed %d concurrent fetches, bound is 2", max)
	}
}
