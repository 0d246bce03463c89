package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insider-radar/internal/domain"
	"insider-radar/internal/storage"
)

func testDay(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func testEvent(id, ticker, actor string, class domain.ActorClass, txDay, discDay int, value float64) *domain.TradeEvent {
	return &domain.TradeEvent{
		EventID:         id,
		Source:          "test-feed",
		Ticker:          ticker,
		CompanyName:     ticker + " Inc",
		ActorClass:      class,
		ActorName:       actor,
		ActorRole:       "CEO",
		Direction:       domain.DirectionBuy,
		Value:           value,
		ValueLow:        value,
		ValueHigh:       value,
		TransactionDate: testDay(txDay),
		DisclosureDate:  testDay(discDay),
	}
}

func TestEventStore_InsertAndQuery(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewEventStore(pool)
	ctx := context.Background()

	events := []*domain.TradeEvent{
		testEvent("ev1", "ACME", "Alice", domain.ClassInsider, 3, 5, 200000),
		testEvent("ev2", "ACME", "Bob", domain.ClassInsider, 5, 7, 300000),
		testEvent("ev3", "ZULU", "Carol", domain.ClassInsider, 4, 6, 150000),
	}
	require.NoError(t, store.InsertBulk(ctx, events))

	// Duplicate insert maps to ErrDuplicateKey.
	err := store.Insert(ctx, events[0])
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	got, err := store.GetByTickerSince(ctx, "ACME", domain.ClassInsider, testDay(1))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alice", got[0].ActorName, "ascending transaction date order")
	assert.Equal(t, "Bob", got[1].ActorName)

	tickers, err := store.TickersSince(ctx, domain.ClassInsider, testDay(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"ACME", "ZULU"}, tickers)
}

func TestEventStore_LegislatorRecencyUsesDisclosure(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewEventStore(pool)
	ctx := context.Background()

	// Transacted day 1, disclosed day 20.
	leg := testEvent("leg1", "ACME", "Rep. Smith", domain.ClassLegislator, 1, 20, 15000)
	require.NoError(t, store.Insert(ctx, leg))

	got, err := store.GetRecent(ctx, domain.ClassLegislator, testDay(10))
	require.NoError(t, err)
	assert.Len(t, got, 1, "legislator recency is measured on disclosure date")

	got, err = store.GetRecent(ctx, domain.ClassLegislator, testDay(25))
	require.NoError(t, err)
	assert.Empty(t, got)
}
