// Package selector orchestrates one engine pass:
// COLLECT → SCORE → FILTER → RANK → TRUNCATE → DONE.
package selector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"insider-radar/internal/convergence"
	"insider-radar/internal/delivery"
	"insider-radar/internal/detect"
	"insider-radar/internal/domain"
	"insider-radar/internal/enrichment"
	"insider-radar/internal/ledger"
	"insider-radar/internal/repository"
	"insider-radar/internal/scoring"
	"insider-radar/internal/storage"
)

// Engine runs the detect → score → filter → rank → truncate → deliver pass.
type Engine struct {
	eventStore   storage.EventStore
	holdingStore storage.HoldingStore

	detectors []detect.Detector
	analyzer  *convergence.Analyzer
	scorer    *scoring.Scorer
	provider  enrichment.Provider
	ledger    *ledger.Service
	channel   delivery.Channel

	insiderLookbackDays    int
	legislatorLookbackDays int
	enrichConcurrency      int
	topN                   int
	ledgerTTLDays          int
	watchlistBypass        bool

	log zerolog.Logger
	now func() time.Time
}

// Options for creating an Engine.
type Options struct {
	// Required stores and collaborators.
	EventStore   storage.EventStore
	HoldingStore storage.HoldingStore
	Detectors    []detect.Detector
	Analyzer     *convergence.Analyzer
	Scorer       *scoring.Scorer
	Enrichment   enrichment.Provider
	Ledger       *ledger.Service
	Channel      delivery.Channel

	// Tuning.
	InsiderLookbackDays    int
	LegislatorLookbackDays int
	EnrichConcurrency      int
	TopN                   int
	LedgerTTLDays          int
	WatchlistBypass        bool

	Logger zerolog.Logger
	Clock  func() time.Time // defaults to time.Now
}

// New creates a new Engine.
func New(opts Options) *Engine {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Engine{
		eventStore:             opts.EventStore,
		holdingStore:           opts.HoldingStore,
		detectors:              opts.Detectors,
		analyzer:               opts.Analyzer,
		scorer:                 opts.Scorer,
		provider:               opts.Enrichment,
		ledger:                 opts.Ledger,
		channel:                opts.Channel,
		insiderLookbackDays:    opts.InsiderLookbackDays,
		legislatorLookbackDays: opts.LegislatorLookbackDays,
		enrichConcurrency:      opts.EnrichConcurrency,
		topN:                   opts.TopN,
		ledgerTTLDays:          opts.LedgerTTLDays,
		watchlistBypass:        opts.WatchlistBypass,
		log:                    opts.Logger,
		now:                    now,
	}
}

// RunResult is the outcome of one pass.
type RunResult struct {
	StartedAt  time.Time
	FinishedAt time.Time

	// Items is the final ranked output, one per delivery attempt.
	Items []*domain.DeliveredSignal

	// Suppressed holds signals dropped by the dedup filter, for the report.
	Suppressed []*domain.DeliveredSignal

	SignalsDetected int
	Truncated       int
	SweptExpired    int
	DetectorErrors  []DetectorError
}

// DetectorError records one isolated detector failure.
type DetectorError struct {
	Pattern domain.PatternKind
	Err     string
}

// RunOnce executes a single batch pass. The returned result is ordered by
// rank; delivery failures are marked and retried on the next run because
// their keys are never recorded in the ledger.
func (e *Engine) RunOnce(ctx context.Context) (*RunResult, error) {
	result := &RunResult{StartedAt: e.now()}

	snap, err := repository.Build(ctx, e.eventStore, e.holdingStore, repository.Cutoffs{
		Insider:    result.StartedAt.AddDate(0, 0, -e.insiderLookbackDays),
		Legislator: result.StartedAt.AddDate(0, 0, -e.legislatorLookbackDays),
	})
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}

	signals := e.collect(ctx, snap, result)
	scored := e.score(ctx, signals)
	kept, err := e.filter(ctx, scored, result)
	if err != nil {
		return nil, err
	}
	ranked := rank(kept)
	final := e.truncate(ranked, result)

	e.deliver(ctx, final, result)

	swept, err := e.ledger.SweepExpired(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("ledger sweep failed")
	}
	result.SweptExpired = swept

	result.FinishedAt = e.now()
	e.log.Info().
		Int("detected", result.SignalsDetected).
		Int("suppressed", len(result.Suppressed)).
		Int("truncated", result.Truncated).
		Int("delivered", len(result.Items)).
		Msg("run complete")
	return result, nil
}

// collect runs every detector over the snapshot, isolating failures, then
// attaches convergence records to the surviving signals.
func (e *Engine) collect(ctx context.Context, snap *repository.Snapshot, result *RunResult) []*domain.Signal {
	var signals []*domain.Signal
	for _, d := range e.detectors {
		found, err := e.detect(ctx, d, snap)
		if err != nil {
			e.log.Error().Err(err).Str("detector", string(d.Kind())).Msg("detector failed")
			result.DetectorErrors = append(result.DetectorErrors, DetectorError{
				Pattern: d.Kind(), Err: err.Error(),
			})
			continue
		}
		signals = append(signals, found...)
	}
	result.SignalsDetected = len(signals)

	records := e.analyzer.Analyze(snap)
	for _, sig := range signals {
		if sig.Convergence == nil {
			sig.Convergence = records[sig.Ticker]
		}
	}
	return signals
}

// detect isolates one detector call, recovering a panic into an error so a
// misbehaving detector never takes down the run.
func (e *Engine) detect(ctx context.Context, d detect.Detector, snap *repository.Snapshot) (signals []*domain.Signal, err error) {
	defer func() {
		if r := recover(); r != nil {
			signals = nil
			err = fmt.Errorf("detector panic: %v", r)
		}
	}()
	return d.Detect(ctx, snap)
}

// score enriches once per unique ticker, then scores in insertion order.
func (e *Engine) score(ctx context.Context, signals []*domain.Signal) []*domain.ScoredSignal {
	cache := enrichment.NewCache(e.provider, e.enrichConcurrency, e.log)

	seen := make(map[string]struct{})
	var tickers []string
	for _, sig := range signals {
		if _, ok := seen[sig.Ticker]; !ok {
			seen[sig.Ticker] = struct{}{}
			tickers = append(tickers, sig.Ticker)
		}
	}
	cache.Warm(ctx, tickers)

	scored := make([]*domain.ScoredSignal, 0, len(signals))
	for _, sig := range signals {
		tc, _ := cache.Context(ctx, sig.Ticker)
		scored = append(scored, e.scorer.Score(sig, tc))
	}
	return scored
}

// filter drops signals whose alert key is still suppressed.
func (e *Engine) filter(ctx context.Context, scored []*domain.ScoredSignal, result *RunResult) ([]*domain.ScoredSignal, error) {
	kept := make([]*domain.ScoredSignal, 0, len(scored))
	for _, s := range scored {
		suppressed, err := e.ledger.IsSuppressed(ctx, s.AlertKey)
		if err != nil {
			// Without the ledger the no-double-delivery guarantee is gone.
			return nil, fmt.Errorf("check suppression: %w", err)
		}
		if suppressed {
			result.Suppressed = append(result.Suppressed, &domain.DeliveredSignal{
				ScoredSignal: *s, Status: domain.DeliverySuppressed,
			})
			continue
		}
		kept = append(kept, s)
	}
	return kept, nil
}

// rank sorts by score descending, stable on insertion order for ties.
func rank(scored []*domain.ScoredSignal) []*domain.ScoredSignal {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// truncate keeps the top N signals. Watchlist signals always pass: they are
// explicit subscriptions, not discovered patterns.
func (e *Engine) truncate(ranked []*domain.ScoredSignal, result *RunResult) []*domain.ScoredSignal {
	if e.topN <= 0 {
		return ranked
	}
	final := make([]*domain.ScoredSignal, 0, len(ranked))
	kept := 0
	for _, s := range ranked {
		if s.Pattern == domain.PatternWatchlist && e.watchlistBypass {
			final = append(final, s)
			continue
		}
		if kept < e.topN {
			final = append(final, s)
			kept++
			continue
		}
		result.Truncated++
	}
	return final
}

// deliver hands each item to the channel and records confirmed deliveries.
func (e *Engine) deliver(ctx context.Context, final []*domain.ScoredSignal, result *RunResult) {
	for _, s := range final {
		item := &domain.DeliveredSignal{ScoredSignal: *s}
		if err := e.channel.Deliver(ctx, s); err != nil {
			item.Status = domain.DeliveryFailed
			item.Err = err.Error()
			e.log.Warn().Err(err).Str("ticker", s.Ticker).Str("pattern", string(s.Pattern)).
				Msg("delivery failed, will retry next run")
		} else {
			item.Status = domain.DeliveryDelivered
			if err := e.ledger.RecordSent(ctx, s.AlertKey, s.Ticker, s.Pattern, e.ledgerTTLDays); err != nil {
				e.log.Error().Err(err).Str("alert_key", s.AlertKey).Msg("ledger write failed")
			}
		}
		result.Items = append(result.Items, item)
	}
}
