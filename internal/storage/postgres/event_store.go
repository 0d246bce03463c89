package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"insider-radar/internal/domain"
	"insider-radar/internal/storage"
)

// EventStore implements storage.EventStore using PostgreSQL.
type EventStore struct {
	pool *Pool
}

// NewEventStore creates a new EventStore.
func NewEventStore(pool *Pool) *EventStore {
	return &EventStore{pool: pool}
}

// Compile-time interface check.
var _ storage.EventStore = (*EventStore)(nil)

const insertEventSQL = `
	INSERT INTO trade_events (
		event_id, source, ticker, company_name,
		actor_class, actor_name, actor_role, direction,
		value, value_low, value_high,
		transaction_date, disclosure_date, non_discretionary
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8,
		$9, $10, $11,
		$12, $13, $14
	)
`

const selectEventColumns = `
	event_id, source, ticker, company_name,
	actor_class, actor_name, actor_role, direction,
	value, value_low, value_high,
	transaction_date, disclosure_date, non_discretionary
`

// Insert adds a new event. Returns ErrDuplicateKey if event_id exists.
func (s *EventStore) Insert(ctx context.Context, e *domain.TradeEvent) error {
	if e == nil || e.EventID == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertEventSQL, eventArgs(e)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade event: %w", err)
	}
	return nil
}

// InsertBulk adds multiple events atomically. Fails entire batch on any duplicate.
func (s *EventStore) InsertBulk(ctx context.Context, events []*domain.TradeEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range events {
		if e == nil || e.EventID == "" {
			return storage.ErrInvalidInput
		}
		if _, err := tx.Exec(ctx, insertEventSQL, eventArgs(e)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trade event in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByTickerSince retrieves events for a ticker and class with recency date
// on or after since, ordered by transaction date ASC.
func (s *EventStore) GetByTickerSince(ctx context.Context, ticker string, class domain.ActorClass, since time.Time) ([]*domain.TradeEvent, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM trade_events
		WHERE ticker = $1 AND actor_class = $2 AND %s >= $3
		ORDER BY transaction_date ASC
	`, selectEventColumns, recencyColumn(class))

	rows, err := s.pool.Query(ctx, query, ticker, string(class), since)
	if err != nil {
		return nil, fmt.Errorf("get events by ticker: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetRecent retrieves all events for a class with recency date on or after
// since, ordered by transaction date ASC.
func (s *EventStore) GetRecent(ctx context.Context, class domain.ActorClass, since time.Time) ([]*domain.TradeEvent, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM trade_events
		WHERE actor_class = $1 AND %s >= $2
		ORDER BY transaction_date ASC
	`, selectEventColumns, recencyColumn(class))

	rows, err := s.pool.Query(ctx, query, string(class), since)
	if err != nil {
		return nil, fmt.Errorf("get recent events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// TickersSince retrieves distinct tickers with activity for a class on or
// after since, sorted ascending.
func (s *EventStore) TickersSince(ctx context.Context, class domain.ActorClass, since time.Time) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT ticker
		FROM trade_events
		WHERE actor_class = $1 AND %s >= $2
		ORDER BY ticker ASC
	`, recencyColumn(class))

	rows, err := s.pool.Query(ctx, query, string(class), since)
	if err != nil {
		return nil, fmt.Errorf("get tickers with activity: %w", err)
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

// recencyColumn returns the date column that governs lookback cutoffs for an
// actor class: disclosure_date for legislators, transaction_date for insiders.
func recencyColumn(class domain.ActorClass) string {
	if class == domain.ClassLegislator {
		return "disclosure_date"
	}
	return "transaction_date"
}

func eventArgs(e *domain.TradeEvent) []any {
	return []any{
		e.EventID, e.Source, e.Ticker, e.CompanyName,
		string(e.ActorClass), e.ActorName, e.ActorRole, string(e.Direction),
		e.Value, e.ValueLow, e.ValueHigh,
		e.TransactionDate, e.DisclosureDate, e.NonDiscretionary,
	}
}

func scanEvents(rows pgx.Rows) ([]*domain.TradeEvent, error) {
	events := make([]*domain.TradeEvent, 0)
	for rows.Next() {
		var (
			e         domain.TradeEvent
			class     string
			direction string
		)
		if err := rows.Scan(
			&e.EventID, &e.Source, &e.Ticker, &e.CompanyName,
			&class, &e.ActorName, &e.ActorRole, &direction,
			&e.Value, &e.ValueLow, &e.ValueHigh,
			&e.TransactionDate, &e.DisclosureDate, &e.NonDiscretionary,
		); err != nil {
			return nil, fmt.Errorf("scan trade event: %w", err)
		}
		e.ActorClass = domain.ActorClass(class)
		e.Direction = domain.Direction(direction)
		events = append(events, &e)
	}
	return events, rows.Err()
}
