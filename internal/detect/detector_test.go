package detect

import (
	"context"
	"reflect"
	"testing"
	"time"

	"insider-radar/internal/domain"
	"insider-radar/internal/repository"
	"insider-radar/internal/storage/memory"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func snapshotFor(t *testing.T, events []*domain.TradeEvent, holdings ...*domain.HoldingSnapshot) *repository.Snapshot {
	t.Helper()
	ctx := context.Background()

	eventStore := memory.NewEventStore()
	holdingStore := memory.NewHoldingStore()
	if err := eventStore.InsertBulk(ctx, events); err != nil {
		t.Fatalf("seed events: %v", err)
	}
	for _, h := range holdings {
		if err := holdingStore.Upsert(ctx, h); err != nil {
			t.Fatalf("seed holdings: %v", err)
		}
	}

	snap, err := repository.Build(ctx, eventStore, holdingStore, repository.Cutoffs{
		Insider: day(1), Legislator: day(1),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return snap
}

func insiderTrade(id, ticker, name, role string, dir domain.Direction, value float64, d int) *domain.TradeEvent {
	return &domain.TradeEvent{
		EventID: id, Source: "openinsider", Ticker: ticker,
		ActorClass: domain.ClassInsider, ActorName: name, ActorRole: role,
		Direction: dir, Value: value, ValueLow: value, ValueHigh: value,
		TransactionDate: day(d), DisclosureDate: day(d),
	}
}

func legislatorBuy(id, ticker, name, party string, low, high float64, d int) *domain.TradeEvent {
	return &domain.TradeEvent{
		EventID: id, Source: "capitoltrades", Ticker: ticker,
		ActorClass: domain.ClassLegislator, ActorName: name, ActorRole: party,
		Direction: domain.DirectionBuy, Value: low, ValueLow: low, ValueHigh: high,
		TransactionDate: day(d), DisclosureDate: day(d + 2),
	}
}

func TestClusterBuy_ScenarioThreeBuyers(t *testing.T) {
	// A, B, C buy $200k each on days 1, 2, 4.
	events := []*domain.TradeEvent{
		insiderTrade("a", "Z", "A", "VP", domain.DirectionBuy, 200000, 1),
		insiderTrade("b", "Z", "B", "VP", domain.DirectionBuy, 200000, 2),
		insiderTrade("c", "Z", "C", "VP", domain.DirectionBuy, 200000, 4),
	}
	snap := snapshotFor(t, events)

	signals, err := NewClusterBuyDetector(5, 3, 500000).Detect(context.Background(), snap)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
	sig := signals[0]
	if sig.Pattern != domain.PatternClusterBuy {
		t.Fatalf("pattern = %q", sig.Pattern)
	}
	if sig.AggregateValue != 600000 {
		t.Fatalf("aggregate = %v, want 600000", sig.AggregateValue)
	}
	if !reflect.DeepEqual(sig.Actors, []string{"A", "B", "C"}) {
		t.Fatalf("actors = %v", sig.Actors)
	}

	// Raising the floor past the aggregate suppresses it.
	signals, err = NewClusterBuyDetector(5, 3, 700000).Detect(context.Background(), snap)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(signals) != 0 {
		t.Fatalf("got %d signals at min_value=700000, want 0", len(signals))
	}
}

func TestClusterBuy_BoundaryInclusive(t *testing.T) {
	// Exactly min_actors and exactly min_value qualifies.
	events := []*domain.TradeEvent{
		insiderTrade("a", "Z", "A", "VP", domain.DirectionBuy, 250000, 1),
		insiderTrade("b", "Z", "B", "VP", domain.DirectionBuy, 250000, 2),
	}
	snap := snapshotFor(t, events)

	signals, _ := NewClusterBuyDetector(5, 2, 500000).Detect(context.Background(), snap)
	if len(signals) != 1 {
		t.Fatalf("exact thresholds: got %d signals, want 1", len(signals))
	}

	// One fewer actor is excluded.
	signals, _ = NewClusterBuyDetector(5, 3, 500000).Detect(context.Background(), snap)
	if len(signals) != 0 {
		t.Fatalf("min_actors above count: got %d signals, want 0", len(signals))
	}

	// One dollar short is excluded.
	signals, _ = NewClusterBuyDetector(5, 2, 500001).Detect(context.Background(), snap)
	if len(signals) != 0 {
		t.Fatalf("min_value above sum: got %d signals, want 0", len(signals))
	}
}

func TestClusterBuy_DistinctActorsRequired(t *testing.T) {
	// Same actor twice is one distinct buyer.
	events := []*domain.TradeEvent{
		insiderTrade("a1", "Z", "A", "VP", domain.DirectionBuy, 300000, 1),
		insiderTrade("a2", "Z", "A", "VP", domain.DirectionBuy, 300000, 2),
	}
	snap := snapshotFor(t, events)

	signals, _ := NewClusterBuyDetector(5, 2, 500000).Detect(context.Background(), snap)
	if len(signals) != 0 {
		t.Fatalf("got %d signals, want 0", len(signals))
	}
}

func TestClusterBuy_WindowExcludesStragglers(t *testing.T) {
	events := []*domain.TradeEvent{
		insiderTrade("a", "Z", "A", "VP", domain.DirectionBuy, 300000, 1),
		insiderTrade("b", "Z", "B", "VP", domain.DirectionBuy, 300000, 10),
	}
	snap := snapshotFor(t, events)

	signals, _ := NewClusterBuyDetector(5, 2, 500000).Detect(context.Background(), snap)
	if len(signals) != 0 {
		t.Fatalf("buys 9 days apart with 5-day window: got %d signals, want 0", len(signals))
	}
}

func TestClusterBuy_NonDiscretionaryExcluded(t *testing.T) {
	exercise := insiderTrade("a", "Z", "A", "VP", domain.DirectionBuy, 300000, 1)
	exercise.NonDiscretionary = true
	events := []*domain.TradeEvent{
		exercise,
		insiderTrade("b", "Z", "B", "VP", domain.DirectionBuy, 300000, 2),
	}
	snap := snapshotFor(t, events)

	signals, _ := NewClusterBuyDetector(5, 2, 500000).Detect(context.Background(), snap)
	if len(signals) != 0 {
		t.Fatalf("got %d signals, want 0", len(signals))
	}
}

func TestBearishCluster_SellSide(t *testing.T) {
	events := []*domain.TradeEvent{
		insiderTrade("a", "Z", "A", "CEO", domain.DirectionSell, 600000, 1),
		insiderTrade("b", "Z", "B", "CFO", domain.DirectionSell, 600000, 2),
		insiderTrade("c", "Z", "C", "VP", domain.DirectionBuy, 600000, 2),
	}
	snap := snapshotFor(t, events)

	signals, _ := NewBearishClusterDetector(5, 2, 1000000).Detect(context.Background(), snap)
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
	if signals[0].AggregateValue != 1200000 {
		t.Fatalf("aggregate = %v, want 1200000 (buy not counted)", signals[0].AggregateValue)
	}
}

func TestCSuiteBuy(t *testing.T) {
	events := []*domain.TradeEvent{
		insiderTrade("a", "Z", "Alice", "Chief Executive Officer", domain.DirectionBuy, 150000, 1),
		insiderTrade("b", "Z", "Bob", "VP of Sales", domain.DirectionBuy, 150000, 1),
		insiderTrade("c", "Z", "Carl", "CFO", domain.DirectionBuy, 50000, 1),
	}
	snap := snapshotFor(t, events)

	d := NewCSuiteBuyDetector(100000, domain.CSuiteTags)
	signals, _ := d.Detect(context.Background(), snap)
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
	if signals[0].Actors[0] != "Alice" {
		t.Fatalf("actor = %v, want Alice", signals[0].Actors)
	}
}

func TestCorporateBuy_WordBoundary(t *testing.T) {
	events := []*domain.TradeEvent{
		insiderTrade("a", "Z", "Sequoia Capital Fund LP", "10% owner", domain.DirectionBuy, 1000, 1),
		// "Vincent" contains "inc" but is not a corporate entity.
		insiderTrade("b", "Z", "Vincent Price", "Director", domain.DirectionBuy, 1000000, 1),
	}
	snap := snapshotFor(t, events)

	d := NewCorporateBuyDetector(domain.CorporateEntityTags)
	signals, _ := d.Detect(context.Background(), snap)
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
	if signals[0].Actors[0] != "Sequoia Capital Fund LP" {
		t.Fatalf("actor = %v", signals[0].Actors)
	}
}

func TestLargeSingleBuy(t *testing.T) {
	events := []*domain.TradeEvent{
		insiderTrade("a", "Z", "A", "Employee", domain.DirectionBuy, 250000, 1),
		insiderTrade("b", "Z", "B", "Employee", domain.DirectionBuy, 249999, 1),
	}
	snap := snapshotFor(t, events)

	signals, _ := NewLargeSingleBuyDetector(250000).Detect(context.Background(), snap)
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
}

func TestEliteCluster_AllowListAndBipartisan(t *testing.T) {
	events := []*domain.TradeEvent{
		legislatorBuy("l1", "Z", "Rep Carol", domain.PartyDemocrat, 15001, 50000, 1),
		legislatorBuy("l2", "Z", "Rep Ed", domain.PartyRepublican, 15001, 50000, 10),
		legislatorBuy("l3", "Z", "Rep Unknown", domain.PartyDemocrat, 1000001, 5000000, 5),
	}
	snap := snapshotFor(t, events)

	allowed := NewAllowList([]string{"Rep Carol", "Rep Ed"})
	signals, _ := NewEliteClusterDetector(30, 2, allowed).Detect(context.Background(), snap)
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
	sig := signals[0]
	if len(sig.Actors) != 2 {
		t.Fatalf("actors = %v, want the two allow-listed", sig.Actors)
	}
	if !sig.Bipartisan {
		t.Fatal("expected bipartisan flag")
	}
}

func TestEliteSingleBuy_LowerBoundFloor(t *testing.T) {
	events := []*domain.TradeEvent{
		legislatorBuy("l1", "Z", "Rep Carol", domain.PartyDemocrat, 100001, 250000, 1),
		legislatorBuy("l2", "Z", "Rep Ed", domain.PartyRepublican, 50001, 250000, 1),
	}
	snap := snapshotFor(t, events)

	allowed := NewAllowList([]string{"Rep Carol", "Rep Ed"})
	signals, _ := NewEliteSingleBuyDetector(100000, allowed).Detect(context.Background(), snap)
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1 (range lower bound must clear floor)", len(signals))
	}
	if signals[0].Actors[0] != "Rep Carol" {
		t.Fatalf("actor = %v", signals[0].Actors)
	}
}

func TestEventCountsForMultipleDetectors(t *testing.T) {
	// A $300k CEO buy backs the cluster, the c-suite signal and the large
	// single buy at once. Detectors never suppress each other.
	events := []*domain.TradeEvent{
		insiderTrade("a", "Z", "Alice", "CEO", domain.DirectionBuy, 300000, 1),
		insiderTrade("b", "Z", "Bob", "VP", domain.DirectionBuy, 300000, 2),
	}
	snap := snapshotFor(t, events)
	ctx := context.Background()

	cluster, _ := NewClusterBuyDetector(5, 2, 500000).Detect(ctx, snap)
	csuite, _ := NewCSuiteBuyDetector(100000, domain.CSuiteTags).Detect(ctx, snap)
	large, _ := NewLargeSingleBuyDetector(250000).Detect(ctx, snap)

	if len(cluster) != 1 || len(csuite) != 1 || len(large) != 2 {
		t.Fatalf("cluster=%d csuite=%d large=%d, want 1/1/2",
			len(cluster), len(csuite), len(large))
	}
}
