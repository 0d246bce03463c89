package detect

import (
	"context"

	"insider-radar/internal/convergence"
	"insider-radar/internal/domain"
	"insider-radar/internal/repository"
)

// ConvergenceDetector emits a signal when a ticker has qualifying activity
// in all three actor classes within the lookback window. The convergence
// record itself is computed by the analyzer and attached to the signal.
type ConvergenceDetector struct {
	analyzer *convergence.Analyzer
}

// NewConvergenceDetector creates a new ConvergenceDetector.
func NewConvergenceDetector(analyzer *convergence.Analyzer) *ConvergenceDetector {
	return &ConvergenceDetector{analyzer: analyzer}
}

// Kind returns the pattern this detector emits.
func (d *ConvergenceDetector) Kind() domain.PatternKind {
	return domain.PatternConvergence
}

// Detect emits at most one signal per ticker with all three classes present.
func (d *ConvergenceDetector) Detect(_ context.Context, snap *repository.Snapshot) ([]*domain.Signal, error) {
	var signals []*domain.Signal
	for _, rec := range d.analyzer.Analyze(snap) {
		if len(rec.Timeline) < 3 {
			continue
		}

		events := discretionary(snap.EventsForTicker(rec.Ticker, domain.ClassInsider), domain.DirectionBuy)
		events = append(events, discretionary(snap.EventsForTicker(rec.Ticker, domain.ClassLegislator), domain.DirectionBuy)...)

		sig := newSignal(domain.PatternConvergence, rec.Ticker, events)
		sig.Holdings = snap.HoldingsForTicker(rec.Ticker)
		sig.Bipartisan = rec.Bipartisan
		sig.Convergence = rec
		signals = append(signals, sig)
	}

	sortSignalsByTicker(signals)
	return signals, nil
}
