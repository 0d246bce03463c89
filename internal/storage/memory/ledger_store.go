package memory

import (
	"context"
	"sync"
	"time"

	"insider-radar/internal/domain"
	"insider-radar/internal/storage"
)

// LedgerStore is an in-memory implementation of storage.LedgerStore.
// All operations take the same mutex, so same-key reads and writes are
// linearizable.
type LedgerStore struct {
	mu   sync.RWMutex
	data map[string]*domain.LedgerEntry // keyed by alert_key
}

// NewLedgerStore creates a new in-memory ledger store.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		data: make(map[string]*domain.LedgerEntry),
	}
}

var _ storage.LedgerStore = (*LedgerStore)(nil)

// Upsert inserts or updates an entry. On conflict the later expires_at wins.
func (s *LedgerStore) Upsert(_ context.Context, e *domain.LedgerEntry) error {
	if e == nil || e.AlertKey == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, exists := s.data[e.AlertKey]; exists && cur.ExpiresAt.After(e.ExpiresAt) {
		return nil
	}
	cp := *e
	s.data[e.AlertKey] = &cp
	return nil
}

// Get retrieves an entry by alert_key. Returns ErrNotFound if not exists.
func (s *LedgerStore) Get(_ context.Context, alertKey string) (*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.data[alertKey]
	if !exists {
		return nil, storage.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

// DeleteExpired removes entries with expires_at < now.
func (s *LedgerStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.data {
		if e.ExpiresAt.Before(now) {
			delete(s.data, key)
			removed++
		}
	}
	return removed, nil
}
