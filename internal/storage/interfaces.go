package storage

import (
	"context"
	"time"

	"insider-radar/internal/domain"
)

// EventStore provides access to trade_events storage. Append-only: events
// are never mutated or deleted (pruning is out of scope).
type EventStore interface {
	// Insert adds a new event. Returns ErrDuplicateKey if event_id exists.
	Insert(ctx context.Context, e *domain.TradeEvent) error

	// InsertBulk adds multiple events atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, events []*domain.TradeEvent) error

	// GetByTickerSince retrieves events for a ticker and actor class whose
	// recency date (disclosure date for legislators, transaction date for
	// insiders) is on or after since. Ordered by transaction date ASC.
	GetByTickerSince(ctx context.Context, ticker string, class domain.ActorClass, since time.Time) ([]*domain.TradeEvent, error)

	// GetRecent retrieves all events for an actor class whose recency date is
	// on or after since. Ordered by transaction date ASC.
	GetRecent(ctx context.Context, class domain.ActorClass, since time.Time) ([]*domain.TradeEvent, error)

	// TickersSince retrieves the distinct tickers with activity for an actor
	// class on or after since, sorted ascending.
	TickersSince(ctx context.Context, class domain.ActorClass, since time.Time) ([]string, error)
}

// HoldingStore provides access to holding_snapshots storage.
// Latest-period-wins: upserting the same (holder, ticker, period) key
// supersedes the prior snapshot.
type HoldingStore interface {
	// Upsert inserts or replaces a snapshot for its (holder, ticker, period) key.
	Upsert(ctx context.Context, s *domain.HoldingSnapshot) error

	// GetCurrentByTicker retrieves the latest-period snapshot per holder for
	// a ticker, ordered by holder name ASC.
	GetCurrentByTicker(ctx context.Context, ticker string) ([]*domain.HoldingSnapshot, error)

	// TickersHeld retrieves the distinct tickers with at least one snapshot,
	// sorted ascending.
	TickersHeld(ctx context.Context) ([]string, error)
}

// LedgerStore provides access to alert_ledger storage. The one shared
// mutable resource of the engine: Upsert must be atomic on alert_key so
// same-key reads and writes are linearizable.
type LedgerStore interface {
	// Upsert inserts or updates an entry. On conflict the later expires_at
	// wins; never an error.
	Upsert(ctx context.Context, e *domain.LedgerEntry) error

	// Get retrieves an entry by alert_key. Returns ErrNotFound if not exists.
	Get(ctx context.Context, alertKey string) (*domain.LedgerEntry, error)

	// DeleteExpired removes entries with expires_at < now. Returns the number
	// removed. Safe alongside concurrent reads.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// EventArchive receives an append-only analytics copy of ingested events.
// Archive errors never block ingestion into the primary store.
type EventArchive interface {
	Archive(ctx context.Context, events []*domain.TradeEvent) error
}
