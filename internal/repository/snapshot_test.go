package repository

import (
	"context"
	"reflect"
	"testing"
	"time"

	"insider-radar/internal/domain"
	"insider-radar/internal/storage/memory"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func buildTestSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	ctx := context.Background()

	events := memory.NewEventStore()
	holdings := memory.NewHoldingStore()

	seed := []*domain.TradeEvent{
		{
			EventID: "e1", Source: "sec-form4", Ticker: "ACME",
			ActorClass: domain.ClassInsider, ActorName: "Alice", ActorRole: "CEO",
			Direction: domain.DirectionBuy, Value: 100000,
			TransactionDate: day(10), DisclosureDate: day(11),
		},
		{
			EventID: "e2", Source: "sec-form4", Ticker: "ZULU",
			ActorClass: domain.ClassInsider, ActorName: "Bob", ActorRole: "CFO",
			Direction: domain.DirectionBuy, Value: 200000,
			TransactionDate: day(12), DisclosureDate: day(12),
		},
		{
			// Transacted before the cutoff but disclosed after it, so it
			// qualifies for the legislator class.
			EventID: "e3", Source: "house-ptr", Ticker: "ACME",
			ActorClass: domain.ClassLegislator, ActorName: "Rep Carol", ActorRole: domain.PartyDemocrat,
			Direction: domain.DirectionBuy, ValueLow: 15001, ValueHigh: 50000,
			TransactionDate: day(1), DisclosureDate: day(14),
		},
		{
			// Stale insider event, outside the cutoff.
			EventID: "e4", Source: "sec-form4", Ticker: "ACME",
			ActorClass: domain.ClassInsider, ActorName: "Dave", ActorRole: "VP",
			Direction: domain.DirectionBuy, Value: 300000,
			TransactionDate: day(1), DisclosureDate: day(2),
		},
	}
	if err := events.InsertBulk(ctx, seed); err != nil {
		t.Fatalf("seed events: %v", err)
	}

	err := holdings.Upsert(ctx, &domain.HoldingSnapshot{
		HolderName: "Baupost", Ticker: "ACME", PortfolioPct: 2.5,
		ReportingPeriod: "2026-Q2", PeriodStart: day(1),
	})
	if err != nil {
		t.Fatalf("seed holdings: %v", err)
	}

	snap, err := Build(ctx, events, holdings, Cutoffs{Insider: day(5), Legislator: day(5)})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return snap
}

func TestSnapshot_CutoffPerClass(t *testing.T) {
	snap := buildTestSnapshot(t)

	insiders := snap.EventsForTicker("ACME", domain.ClassInsider)
	if len(insiders) != 1 || insiders[0].EventID != "e1" {
		t.Fatalf("expected only e1 for ACME insiders, got %d events", len(insiders))
	}

	legislators := snap.EventsForTicker("ACME", domain.ClassLegislator)
	if len(legislators) != 1 || legislators[0].EventID != "e3" {
		t.Fatalf("expected e3 (disclosed after cutoff) for ACME legislators, got %d events", len(legislators))
	}
}

func TestSnapshot_TickersWithActivity(t *testing.T) {
	snap := buildTestSnapshot(t)

	got := snap.TickersWithActivity(domain.ClassInsider)
	want := []string{"ACME", "ZULU"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("insider tickers = %v, want %v", got, want)
	}

	if got := snap.TickersWithActivity(domain.ClassLegislator); !reflect.DeepEqual(got, []string{"ACME"}) {
		t.Fatalf("legislator tickers = %v, want [ACME]", got)
	}
}

func TestSnapshot_Holdings(t *testing.T) {
	snap := buildTestSnapshot(t)

	if got := snap.TickersHeld(); !reflect.DeepEqual(got, []string{"ACME"}) {
		t.Fatalf("TickersHeld = %v, want [ACME]", got)
	}

	held := snap.HoldingsForTicker("ACME")
	if len(held) != 1 || held[0].HolderName != "Baupost" {
		t.Fatalf("expected Baupost snapshot for ACME, got %+v", held)
	}
}

func TestSnapshot_EmptyNeverNil(t *testing.T) {
	snap := buildTestSnapshot(t)

	if got := snap.EventsForTicker("NOPE", domain.ClassInsider); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
	if got := snap.AllRecent(domain.ClassInstitution); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice for unseen class, got %v", got)
	}
	if got := snap.HoldingsForTicker("NOPE"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil holdings, got %v", got)
	}
	if got := snap.TickersWithActivity(domain.ClassInstitution); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil tickers, got %v", got)
	}
}
