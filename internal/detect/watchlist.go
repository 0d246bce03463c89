package detect

import (
	"context"
	"fmt"
	"sort"

	"insider-radar/internal/domain"
	"insider-radar/internal/repository"
)

// WatchlistDetector emits one informational signal per subscribed ticker
// with any recent events, regardless of direction or value. Watchlist
// signals are exempt from Top-N truncation but still deduplicated.
type WatchlistDetector struct {
	source WatchlistSource
}

// NewWatchlistDetector creates a new WatchlistDetector.
func NewWatchlistDetector(source WatchlistSource) *WatchlistDetector {
	return &WatchlistDetector{source: source}
}

// Kind returns the pattern this detector emits.
func (d *WatchlistDetector) Kind() domain.PatternKind {
	return domain.PatternWatchlist
}

// Detect emits one signal per subscribed ticker with activity.
func (d *WatchlistDetector) Detect(ctx context.Context, snap *repository.Snapshot) ([]*domain.Signal, error) {
	tickers, err := d.source.Tickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}

	var signals []*domain.Signal
	for _, ticker := range tickers {
		insider := snap.EventsForTicker(ticker, domain.ClassInsider)
		legislator := snap.EventsForTicker(ticker, domain.ClassLegislator)
		events := make([]*domain.TradeEvent, 0, len(insider)+len(legislator))
		events = append(events, insider...)
		events = append(events, legislator...)
		if len(events) == 0 {
			continue
		}

		sig := newSignal(domain.PatternWatchlist, ticker, events)
		sig.Holdings = snap.HoldingsForTicker(ticker)
		signals = append(signals, sig)
	}

	sortSignalsByTicker(signals)
	return signals, nil
}

func sortSignalsByTicker(signals []*domain.Signal) {
	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].Ticker < signals[j].Ticker
	})
}
