package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"insider-radar/internal/domain"
	"insider-radar/internal/storage"
)

// EventStore is an in-memory implementation of storage.EventStore.
type EventStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TradeEvent // keyed by event_id
}

// NewEventStore creates a new in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{
		data: make(map[string]*domain.TradeEvent),
	}
}

var _ storage.EventStore = (*EventStore)(nil)

// Insert adds a new event. Returns ErrDuplicateKey if event_id exists.
func (s *EventStore) Insert(_ context.Context, e *domain.TradeEvent) error {
	if e == nil || e.EventID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[e.EventID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *e
	s.data[e.EventID] = &cp
	return nil
}

// InsertBulk adds multiple events atomically. Fails entire batch on any duplicate.
func (s *EventStore) InsertBulk(_ context.Context, events []*domain.TradeEvent) error {
	if len(events) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(events))
	for _, e := range events {
		if e == nil || e.EventID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[e.EventID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[e.EventID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[e.EventID] = struct{}{}
	}

	for _, e := range events {
		cp := *e
		s.data[e.EventID] = &cp
	}
	return nil
}

// GetByTickerSince retrieves events for a ticker and class with recency date
// on or after since, ordered by transaction date ASC.
func (s *EventStore) GetByTickerSince(_ context.Context, ticker string, class domain.ActorClass, since time.Time) ([]*domain.TradeEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.TradeEvent, 0)
	for _, e := range s.data {
		if e.Ticker == ticker && e.ActorClass == class && !e.RecencyDate().Before(since) {
			cp := *e
			result = append(result, &cp)
		}
	}

	sortByTransactionDate(result)
	return result, nil
}

// GetRecent retrieves all events for a class with recency date on or after
// since, ordered by transaction date ASC.
func (s *EventStore) GetRecent(_ context.Context, class domain.ActorClass, since time.Time) ([]*domain.TradeEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.TradeEvent, 0)
	for _, e := range s.data {
		if e.ActorClass == class && !e.RecencyDate().Before(since) {
			cp := *e
			result = append(result, &cp)
		}
	}

	sortByTransactionDate(result)
	return result, nil
}

// TickersSince retrieves distinct tickers with activity for a class on or
// after since, sorted ascending.
func (s *EventStore) TickersSince(_ context.Context, class domain.ActorClass, since time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, e := range s.data {
		if e.ActorClass == class && !e.RecencyDate().Before(since) {
			seen[e.Ticker] = struct{}{}
		}
	}

	tickers := make([]string, 0, len(seen))
	for t := range seen {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers, nil
}

func sortByTransactionDate(events []*domain.TradeEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].TransactionDate.Before(events[j].TransactionDate)
	})
}
