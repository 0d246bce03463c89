// Package repository provides the read surface the detectors consume.
//
// A Snapshot is built once per run from the stores and then queried purely
// in memory, so every detector in a pass observes the same data regardless
// of concurrent ingestion.
package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"insider-radar/internal/domain"
	"insider-radar/internal/storage"
)

// Cutoffs holds the per-class recency cutoffs for one run. An event
// qualifies when its recency date (disclosure date for legislators,
// transaction date for insiders) is on or after the class cutoff.
type Cutoffs struct {
	Insider    time.Time
	Legislator time.Time
}

// Snapshot is an immutable per-run view over events and holdings.
type Snapshot struct {
	cutoffs Cutoffs

	events  map[domain.ActorClass][]*domain.TradeEvent
	byTick  map[domain.ActorClass]map[string][]*domain.TradeEvent
	tickers map[domain.ActorClass][]string

	holdings    map[string][]*domain.HoldingSnapshot
	heldTickers []string
}

// Build reads the stores once and assembles the run snapshot.
func Build(ctx context.Context, events storage.EventStore, holdings storage.HoldingStore, cutoffs Cutoffs) (*Snapshot, error) {
	snap := &Snapshot{
		cutoffs: cutoffs,
		events:  make(map[domain.ActorClass][]*domain.TradeEvent),
		byTick:  make(map[domain.ActorClass]map[string][]*domain.TradeEvent),
		tickers: make(map[domain.ActorClass][]string),
	}

	classes := []struct {
		class domain.ActorClass
		since time.Time
	}{
		{domain.ClassInsider, cutoffs.Insider},
		{domain.ClassLegislator, cutoffs.Legislator},
	}

	for _, c := range classes {
		recent, err := events.GetRecent(ctx, c.class, c.since)
		if err != nil {
			return nil, fmt.Errorf("load %s events: %w", c.class, err)
		}
		snap.events[c.class] = recent

		byTicker := make(map[string][]*domain.TradeEvent)
		var tickers []string
		for _, e := range recent {
			if _, seen := byTicker[e.Ticker]; !seen {
				tickers = append(tickers, e.Ticker)
			}
			byTicker[e.Ticker] = append(byTicker[e.Ticker], e)
		}
		sort.Strings(tickers)
		snap.byTick[c.class] = byTicker
		snap.tickers[c.class] = tickers
	}

	held, err := holdings.TickersHeld(ctx)
	if err != nil {
		return nil, fmt.Errorf("load held tickers: %w", err)
	}
	snap.heldTickers = held

	snap.holdings = make(map[string][]*domain.HoldingSnapshot, len(held))
	for _, ticker := range held {
		current, err := holdings.GetCurrentByTicker(ctx, ticker)
		if err != nil {
			return nil, fmt.Errorf("load holdings for %s: %w", ticker, err)
		}
		snap.holdings[ticker] = current
	}

	return snap, nil
}

// Cutoffs returns the per-class recency cutoffs the snapshot was built with.
func (s *Snapshot) Cutoffs() Cutoffs {
	return s.cutoffs
}

// EventsForTicker returns the qualifying events for a ticker and actor
// class, ordered by transaction date ASC. Never nil.
func (s *Snapshot) EventsForTicker(ticker string, class domain.ActorClass) []*domain.TradeEvent {
	events := s.byTick[class][ticker]
	if events == nil {
		return []*domain.TradeEvent{}
	}
	return events
}

// TickersWithActivity returns the distinct tickers with qualifying events
// for an actor class, sorted ascending. Never nil.
func (s *Snapshot) TickersWithActivity(class domain.ActorClass) []string {
	tickers := s.tickers[class]
	if tickers == nil {
		return []string{}
	}
	return tickers
}

// AllRecent returns every qualifying event for an actor class, ordered by
// transaction date ASC. Never nil.
func (s *Snapshot) AllRecent(class domain.ActorClass) []*domain.TradeEvent {
	events := s.events[class]
	if events == nil {
		return []*domain.TradeEvent{}
	}
	return events
}

// HoldingsForTicker returns the latest-period snapshot per holder for a
// ticker, ordered by holder name ASC. Never nil.
func (s *Snapshot) HoldingsForTicker(ticker string) []*domain.HoldingSnapshot {
	holdings := s.holdings[ticker]
	if holdings == nil {
		return []*domain.HoldingSnapshot{}
	}
	return holdings
}

// TickersHeld returns the distinct tickers with at least one institutional
// snapshot, sorted ascending. Never nil.
func (s *Snapshot) TickersHeld() []string {
	if s.heldTickers == nil {
		return []string{}
	}
	return s.heldTickers
}
