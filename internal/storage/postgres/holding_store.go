package postgres

import (
	"context"
	"fmt"

	"insider-radar/internal/domain"
	"insider-radar/internal/storage"
)

// HoldingStore implements storage.HoldingStore using PostgreSQL.
type HoldingStore struct {
	pool *Pool
}

// NewHoldingStore creates a new HoldingStore.
func NewHoldingStore(pool *Pool) *HoldingStore {
	return &HoldingStore{pool: pool}
}

// Compile-time interface check.
var _ storage.HoldingStore = (*HoldingStore)(nil)

// Upsert inserts or replaces a snapshot for its (holder, ticker, period) key.
func (s *HoldingStore) Upsert(ctx context.Context, snap *domain.HoldingSnapshot) error {
	if snap == nil || snap.HolderName == "" || snap.Ticker == "" || snap.ReportingPeriod == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO holding_snapshots (
			holder_name, ticker, company_name, portfolio_pct,
			shares_held, value, reporting_period, period_start, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (holder_name, ticker, reporting_period) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			portfolio_pct = EXCLUDED.portfolio_pct,
			shares_held = EXCLUDED.shares_held,
			value = EXCLUDED.value,
			period_start = EXCLUDED.period_start,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		snap.HolderName, snap.Ticker, snap.CompanyName, snap.PortfolioPct,
		snap.SharesHeld, snap.Value, snap.ReportingPeriod, snap.PeriodStart, snap.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert holding snapshot: %w", err)
	}
	return nil
}

// GetCurrentByTicker retrieves the latest-period snapshot per holder for a
// ticker, ordered by holder name ASC.
func (s *HoldingStore) GetCurrentByTicker(ctx context.Context, ticker string) ([]*domain.HoldingSnapshot, error) {
	query := `
		SELECT DISTINCT ON (holder_name)
			holder_name, ticker, company_name, portfolio_pct,
			shares_held, value, reporting_period, period_start, updated_at
		FROM holding_snapshots
		WHERE ticker = $1
		ORDER BY holder_name ASC, period_start DESC
	`

	rows, err := s.pool.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("get holdings by ticker: %w", err)
	}
	defer rows.Close()

	snaps := make([]*domain.HoldingSnapshot, 0)
	for rows.Next() {
		var snap domain.HoldingSnapshot
		if err := rows.Scan(
			&snap.HolderName, &snap.Ticker, &snap.CompanyName, &snap.PortfolioPct,
			&snap.SharesHeld, &snap.Value, &snap.ReportingPeriod, &snap.PeriodStart, &snap.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan holding snapshot: %w", err)
		}
		snaps = append(snaps, &snap)
	}
	return snaps, rows.Err()
}

// TickersHeld retrieves distinct tickers with at least one snapshot, sorted
// ascending.
func (s *HoldingStore) TickersHeld(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT ticker FROM holding_snapshots ORDER BY ticker ASC`)
	if err != nil {
		return nil, fmt.Errorf("get held tickers: %w", err)
	}
	defer rows.Close()

	tickers := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan ticker: %w", err)
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}
