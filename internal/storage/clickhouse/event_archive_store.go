package clickhouse

import (
	"context"
	"fmt"

	"insider-radar/internal/domain"
	"insider-radar/internal/storage"
)

// EventArchiveStore implements storage.EventArchive using ClickHouse.
//
// The archive is append-only; re-ingested events collapse via
// ReplacingMergeTree on merge, so Archive never reports duplicates.
type EventArchiveStore struct {
	conn *Conn
}

// NewEventArchiveStore creates a new EventArchiveStore.
func NewEventArchiveStore(conn *Conn) *EventArchiveStore {
	return &EventArchiveStore{conn: conn}
}

// Compile-time interface check.
var _ storage.EventArchive = (*EventArchiveStore)(nil)

// Archive writes a batch of events to the analytics archive.
func (s *EventArchiveStore) Archive(ctx context.Context, events []*domain.TradeEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trade_events_archive (
			event_id, source, ticker, company_name,
			actor_class, actor_name, actor_role, direction,
			value, value_low, value_high,
			transaction_date, disclosure_date, non_discretionary
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, e := range events {
		nonDiscretionary := uint8(0)
		if e.NonDiscretionary {
			nonDiscretionary = 1
		}
		err = batch.Append(
			e.EventID, e.Source, e.Ticker, e.CompanyName,
			string(e.ActorClass), e.ActorName, e.ActorRole, string(e.Direction),
			e.Value, e.ValueLow, e.ValueHigh,
			e.TransactionDate, e.DisclosureDate, nonDiscretionary,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}
