package memory

import (
	"context"
	"sort"
	"sync"

	"insider-radar/internal/domain"
	"insider-radar/internal/storage"
)

type holdingKey struct {
	holder string
	ticker string
	period string
}

// HoldingStore is an in-memory implementation of storage.HoldingStore.
type HoldingStore struct {
	mu   sync.RWMutex
	data map[holdingKey]*domain.HoldingSnapshot
}

// NewHoldingStore creates a new in-memory holding store.
func NewHoldingStore() *HoldingStore {
	return &HoldingStore{
		data: make(map[holdingKey]*domain.HoldingSnapshot),
	}
}

var _ storage.HoldingStore = (*HoldingStore)(nil)

// Upsert inserts or replaces the snapshot for its (holder, ticker, period) key.
func (s *HoldingStore) Upsert(_ context.Context, snap *domain.HoldingSnapshot) error {
	if snap == nil || snap.HolderName == "" || snap.Ticker == "" || snap.ReportingPeriod == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *snap
	s.data[holdingKey{snap.HolderName, snap.Ticker, snap.ReportingPeriod}] = &cp
	return nil
}

// GetCurrentByTicker retrieves the latest-period snapshot per holder for a
// ticker, ordered by holder name ASC.
func (s *HoldingStore) GetCurrentByTicker(_ context.Context, ticker string) ([]*domain.HoldingSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := make(map[string]*domain.HoldingSnapshot)
	for _, snap := range s.data {
		if snap.Ticker != ticker {
			continue
		}
		cur, ok := latest[snap.HolderName]
		if !ok || snap.PeriodStart.After(cur.PeriodStart) {
			latest[snap.HolderName] = snap
		}
	}

	result := make([]*domain.HoldingSnapshot, 0, len(latest))
	for _, snap := range latest {
		cp := *snap
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].HolderName < result[j].HolderName
	})
	return result, nil
}

// TickersHeld retrieves distinct tickers with at least one snapshot, sorted
// ascending.
func (s *HoldingStore) TickersHeld(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, snap := range s.data {
		seen[snap.Ticker] = struct{}{}
	}

	tickers := make([]string, 0, len(seen))
	for t := range seen {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers, nil
}
