package convergence

import (
	"context"
	"testing"
	"time"

	"insider-radar/internal/domain"
	"insider-radar/internal/repository"
	"insider-radar/internal/storage/memory"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

type seed struct {
	events   []*domain.TradeEvent
	holdings []*domain.HoldingSnapshot
}

func snapshotFor(t *testing.T, s seed) *repository.Snapshot {
	t.Helper()
	ctx := context.Background()

	events := memory.NewEventStore()
	holdings := memory.NewHoldingStore()
	if err := events.InsertBulk(ctx, s.events); err != nil {
		t.Fatalf("seed events: %v", err)
	}
	for _, h := range s.holdings {
		if err := holdings.Upsert(ctx, h); err != nil {
			t.Fatalf("seed holdings: %v", err)
		}
	}

	snap, err := repository.Build(ctx, events, holdings, repository.Cutoffs{
		Insider: day(1), Legislator: day(1),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return snap
}

func legislatorBuy(id, ticker, name, party string, d int) *domain.TradeEvent {
	return &domain.TradeEvent{
		EventID: id, Source: "capitoltrades", Ticker: ticker,
		ActorClass: domain.ClassLegislator, ActorName: name, ActorRole: party,
		Direction: domain.DirectionBuy, Value: 15001, ValueLow: 15001, ValueHigh: 50000,
		TransactionDate: day(d), DisclosureDate: day(d + 2),
	}
}

func insiderBuy(id, ticker, name string, d int) *domain.TradeEvent {
	return &domain.TradeEvent{
		EventID: id, Source: "openinsider", Ticker: ticker,
		ActorClass: domain.ClassInsider, ActorName: name, ActorRole: "CEO",
		Direction: domain.DirectionBuy, Value: 250000, ValueLow: 250000, ValueHigh: 250000,
		TransactionDate: day(d), DisclosureDate: day(d),
	}
}

func holding(holder, ticker string, periodStartDay int) *domain.HoldingSnapshot {
	return &domain.HoldingSnapshot{
		HolderName: holder, Ticker: ticker, PortfolioPct: 3.0,
		ReportingPeriod: "2026-Q3", PeriodStart: day(periodStartDay),
	}
}

func TestAnalyze_SequentialIgnoresPeriodStartOrder(t *testing.T) {
	// Legislator day 1, insider day 3, institution period starts day 0.
	// "Already holds" means the period start must not break the ordering.
	snap := snapshotFor(t, seed{
		events: []*domain.TradeEvent{
			legislatorBuy("l1", "ACME", "Rep Carol", domain.PartyDemocrat, 1),
			insiderBuy("i1", "ACME", "Alice", 3),
		},
		holdings: []*domain.HoldingSnapshot{holding("Baupost", "ACME", 0)},
	})

	records := NewAnalyzer().Analyze(snap)
	rec, ok := records["ACME"]
	if !ok {
		t.Fatal("expected a convergence record for ACME")
	}
	if rec.Label != domain.ConvergenceSequential {
		t.Fatalf("label = %q, want SEQUENTIAL", rec.Label)
	}
	if rec.Bonus != 3 {
		t.Fatalf("bonus = %v, want 3", rec.Bonus)
	}
	if len(rec.Timeline) != 3 {
		t.Fatalf("timeline legs = %d, want 3", len(rec.Timeline))
	}
	for i := 1; i < len(rec.Timeline); i++ {
		if rec.Timeline[i].EarliestDate.Before(rec.Timeline[i-1].EarliestDate) {
			t.Fatal("timeline not sorted ascending")
		}
	}
}

func TestAnalyze_TightTwoClasses(t *testing.T) {
	snap := snapshotFor(t, seed{
		events: []*domain.TradeEvent{
			insiderBuy("i1", "ACME", "Alice", 2),
			legislatorBuy("l1", "ACME", "Rep Carol", domain.PartyDemocrat, 10),
		},
	})

	rec := NewAnalyzer().Analyze(snap)["ACME"]
	if rec == nil {
		t.Fatal("expected a convergence record")
	}
	if rec.Label != domain.ConvergenceTight {
		t.Fatalf("label = %q, want TIGHT", rec.Label)
	}
	if rec.Bonus != 2 {
		t.Fatalf("bonus = %v, want 2", rec.Bonus)
	}
}

func TestAnalyze_ConcurrentWideSpan(t *testing.T) {
	snap := snapshotFor(t, seed{
		events: []*domain.TradeEvent{
			insiderBuy("i1", "ACME", "Alice", 1),
			legislatorBuy("l1", "ACME", "Rep Carol", domain.PartyRepublican, 25),
		},
	})

	rec := NewAnalyzer().Analyze(snap)["ACME"]
	if rec == nil {
		t.Fatal("expected a convergence record")
	}
	if rec.Label != domain.ConvergenceConcurrent {
		t.Fatalf("label = %q, want CONCURRENT", rec.Label)
	}
	if rec.Bonus != 1 {
		t.Fatalf("bonus = %v, want 1", rec.Bonus)
	}
}

func TestAnalyze_BipartisanAddsOne(t *testing.T) {
	snap := snapshotFor(t, seed{
		events: []*domain.TradeEvent{
			legislatorBuy("l1", "ACME", "Rep Carol", domain.PartyDemocrat, 1),
			legislatorBuy("l2", "ACME", "Rep Ed", domain.PartyRepublican, 2),
			insiderBuy("i1", "ACME", "Alice", 3),
		},
		holdings: []*domain.HoldingSnapshot{holding("Baupost", "ACME", 0)},
	})

	rec := NewAnalyzer().Analyze(snap)["ACME"]
	if rec == nil {
		t.Fatal("expected a convergence record")
	}
	if !rec.Bipartisan {
		t.Fatal("expected bipartisan flag")
	}
	if rec.Bonus != 4 {
		t.Fatalf("bonus = %v, want 4 (sequential 3 + bipartisan 1)", rec.Bonus)
	}
}

func TestAnalyze_TradeLegsOutsideCorrelationWindow(t *testing.T) {
	// Disclosed day 3, insider buys 37 days later. The per-class lookbacks
	// admit both legs, but they do not correlate.
	snap := snapshotFor(t, seed{
		events: []*domain.TradeEvent{
			legislatorBuy("l1", "ACME", "Rep Carol", domain.PartyDemocrat, 1),
			insiderBuy("i1", "ACME", "Alice", 40),
		},
		holdings: []*domain.HoldingSnapshot{holding("Baupost", "ACME", 0)},
	})

	if records := NewAnalyzer().Analyze(snap); len(records) != 0 {
		t.Fatalf("expected no records for a 37-day gap, got %d", len(records))
	}
}

func TestAnalyze_LegislatorLegDatesFromDisclosure(t *testing.T) {
	// Transacted seven weeks before the insider buy but disclosed nine days
	// before it. The trade only becomes knowable at disclosure, so the legs
	// still correlate tightly.
	late := legislatorBuy("l1", "ACME", "Rep Carol", domain.PartyDemocrat, 1)
	late.TransactionDate = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	late.DisclosureDate = day(10)

	snap := snapshotFor(t, seed{
		events: []*domain.TradeEvent{late, insiderBuy("i1", "ACME", "Alice", 19)},
	})

	rec := NewAnalyzer().Analyze(snap)["ACME"]
	if rec == nil {
		t.Fatal("expected a convergence record")
	}
	if rec.Label != domain.ConvergenceTight {
		t.Fatalf("label = %q, want TIGHT", rec.Label)
	}
	if rec.Bonus != 2 {
		t.Fatalf("bonus = %v, want 2", rec.Bonus)
	}
}

func TestAnalyze_SingleClassSkipped(t *testing.T) {
	snap := snapshotFor(t, seed{
		events: []*domain.TradeEvent{insiderBuy("i1", "ACME", "Alice", 3)},
	})

	if records := NewAnalyzer().Analyze(snap); len(records) != 0 {
		t.Fatalf("expected no records for single-class ticker, got %d", len(records))
	}
}

func TestAnalyze_NonDiscretionaryExcluded(t *testing.T) {
	exercise := insiderBuy("i1", "ACME", "Alice", 3)
	exercise.NonDiscretionary = true

	snap := snapshotFor(t, seed{
		events: []*domain.TradeEvent{
			exercise,
			legislatorBuy("l1", "ACME", "Rep Carol", domain.PartyDemocrat, 1),
		},
	})

	// Only the legislator leg remains, so no convergence.
	if records := NewAnalyzer().Analyze(snap); len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}
