// Package detect holds the nine signal detectors. Each detector is a pure,
// stateless function over a repository snapshot; detectors never suppress
// each other, so one event may back several signals at once.
package detect

import (
	"context"
	"sort"
	"time"

	"insider-radar/internal/domain"
	"insider-radar/internal/repository"
)

// Detector produces zero or more raw signals for one pattern kind.
type Detector interface {
	// Kind returns the pattern this detector emits.
	Kind() domain.PatternKind

	// Detect scans the snapshot and returns the signals found.
	Detect(ctx context.Context, snap *repository.Snapshot) ([]*domain.Signal, error)
}

// WatchlistSource returns the current set of user-subscribed tickers.
type WatchlistSource interface {
	Tickers(ctx context.Context) ([]string, error)
}

// newSignal assembles a signal from its supporting events: actors are the
// insertion-ordered distinct set, aggregate value the sum, and the window
// spans the event dates.
func newSignal(pattern domain.PatternKind, ticker string, events []*domain.TradeEvent) *domain.Signal {
	sig := &domain.Signal{
		Pattern: pattern,
		Ticker:  ticker,
		Events:  events,
	}
	seen := make(map[string]struct{})
	for _, e := range events {
		if sig.CompanyName == "" {
			sig.CompanyName = e.CompanyName
		}
		if _, ok := seen[e.ActorName]; !ok {
			seen[e.ActorName] = struct{}{}
			sig.Actors = append(sig.Actors, e.ActorName)
		}
		sig.AggregateValue += e.Value
		if sig.WindowStart.IsZero() || e.TransactionDate.Before(sig.WindowStart) {
			sig.WindowStart = e.TransactionDate
		}
		if e.TransactionDate.After(sig.WindowEnd) {
			sig.WindowEnd = e.TransactionDate
		}
	}
	return sig
}

// discretionary filters events to the given direction, dropping
// non-discretionary ones. Order is preserved.
func discretionary(events []*domain.TradeEvent, dir domain.Direction) []*domain.TradeEvent {
	out := make([]*domain.TradeEvent, 0, len(events))
	for _, e := range events {
		if e.Direction == dir && e.Discretionary() {
			out = append(out, e)
		}
	}
	return out
}

// detectClusters finds the first qualifying rolling-window cluster per
// ticker: at least minActors distinct actors whose events fall within
// windowDays of an anchor event and sum to at least minValue (both
// inclusive). At most one signal per ticker per run.
func detectClusters(snap *repository.Snapshot, pattern domain.PatternKind, class domain.ActorClass,
	dir domain.Direction, windowDays, minActors int, minValue float64,
	keep func(*domain.TradeEvent) bool) []*domain.Signal {

	var signals []*domain.Signal
	for _, ticker := range snap.TickersWithActivity(class) {
		events := discretionary(snap.EventsForTicker(ticker, class), dir)
		if keep != nil {
			filtered := events[:0:len(events)]
			for _, e := range events {
				if keep(e) {
					filtered = append(filtered, e)
				}
			}
			events = filtered
		}
		if sig := firstCluster(pattern, ticker, events, windowDays, minActors, minValue); sig != nil {
			signals = append(signals, sig)
		}
	}
	return signals
}

// firstCluster slides a window over date-ordered events and returns the
// earliest anchored cluster meeting both thresholds, or nil.
func firstCluster(pattern domain.PatternKind, ticker string, events []*domain.TradeEvent,
	windowDays, minActors int, minValue float64) *domain.Signal {

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].TransactionDate.Before(events[j].TransactionDate)
	})

	for i, anchor := range events {
		cutoff := anchor.TransactionDate.Add(time.Duration(windowDays) * 24 * time.Hour)

		var (
			window []*domain.TradeEvent
			actors = make(map[string]struct{})
			total  float64
		)
		for _, e := range events[i:] {
			if !e.TransactionDate.Before(cutoff) {
				break
			}
			window = append(window, e)
			actors[e.ActorName] = struct{}{}
			total += e.Value
		}

		if len(actors) >= minActors && total >= minValue {
			return newSignal(pattern, ticker, window)
		}
	}
	return nil
}
