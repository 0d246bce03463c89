package postgres

import (
	"context"
	"fmt"
	"time"

	"insider-radar/internal/domain"
	"insider-radar/internal/storage"
)

// LedgerStore implements storage.LedgerStore using PostgreSQL. The unique
// alert_key constraint plus ON CONFLICT upsert give linearizable same-key
// writes without an explicit transaction.
type LedgerStore struct {
	pool *Pool
}

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(pool *Pool) *LedgerStore {
	return &LedgerStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LedgerStore = (*LedgerStore)(nil)

// Upsert inserts or updates an entry. On conflict the later expires_at wins.
func (s *LedgerStore) Upsert(ctx context.Context, e *domain.LedgerEntry) error {
	if e == nil || e.AlertKey == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO alert_ledger (alert_key, ticker, pattern_kind, sent_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (alert_key) DO UPDATE SET
			sent_at = EXCLUDED.sent_at,
			expires_at = EXCLUDED.expires_at
		WHERE alert_ledger.expires_at <= EXCLUDED.expires_at
	`

	_, err := s.pool.Exec(ctx, query,
		e.AlertKey, e.Ticker, string(e.Pattern), e.SentAt, e.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("upsert ledger entry: %w", err)
	}
	return nil
}

// Get retrieves an entry by alert_key. Returns ErrNotFound if not exists.
func (s *LedgerStore) Get(ctx context.Context, alertKey string) (*domain.LedgerEntry, error) {
	query := `
		SELECT alert_key, ticker, pattern_kind, sent_at, expires_at
		FROM alert_ledger
		WHERE alert_key = $1
	`

	var (
		e       domain.LedgerEntry
		pattern string
	)
	err := s.pool.QueryRow(ctx, query, alertKey).Scan(
		&e.AlertKey, &e.Ticker, &pattern, &e.SentAt, &e.ExpiresAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	e.Pattern = domain.PatternKind(pattern)
	return &e, nil
}

// DeleteExpired removes entries with expires_at < now.
func (s *LedgerStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM alert_ledger WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired ledger entries: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
