// Package ledger tracks which alerts were already delivered and when their
// suppression expires. It is the engine's only shared mutable state; the
// backing store guarantees atomic upsert on alert_key.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"insider-radar/internal/domain"
	"insider-radar/internal/storage"
)

// DefaultTTLDays suppresses a re-detected alert for this long.
const DefaultTTLDays = 30

// Service wraps a LedgerStore with suppression semantics.
type Service struct {
	store storage.LedgerStore
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source. Tests use this.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a ledger Service over a store.
func NewService(store storage.LedgerStore, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsSuppressed reports whether a non-expired entry exists for the key.
func (s *Service) IsSuppressed(ctx context.Context, alertKey string) (bool, error) {
	entry, err := s.store.Get(ctx, alertKey)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get ledger entry: %w", err)
	}
	return !entry.Expired(s.now()), nil
}

// RecordSent marks an alert delivered, suppressing it for ttlDays.
// Idempotent: re-recording an existing key keeps the later expiry.
func (s *Service) RecordSent(ctx context.Context, alertKey, ticker string, pattern domain.PatternKind, ttlDays int) error {
	if ttlDays <= 0 {
		ttlDays = DefaultTTLDays
	}
	now := s.now()
	err := s.store.Upsert(ctx, &domain.LedgerEntry{
		AlertKey:  alertKey,
		Ticker:    ticker,
		Pattern:   pattern,
		SentAt:    now,
		ExpiresAt: now.AddDate(0, 0, ttlDays),
	})
	if err != nil {
		return fmt.Errorf("record sent: %w", err)
	}
	return nil
}

// SweepExpired physically removes expired entries and returns the count.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	removed, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("sweep expired: %w", err)
	}
	return removed, nil
}
