// Package ingest loads trade events and holding snapshots from JSON feed
// files into storage. Scraping the upstream sources is out of scope; this
// is the boundary where their output enters the engine.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"insider-radar/internal/domain"
	"insider-radar/internal/idhash"
	"insider-radar/internal/storage"
)

const dateLayout = "2006-01-02"

// EventFeedRecord is one trade event as the feed files carry it.
type EventFeedRecord struct {
	Source           string  `json:"source"`
	Ticker           string  `json:"ticker"`
	CompanyName      string  `json:"company_name"`
	ActorClass       string  `json:"actor_class"`
	ActorName        string  `json:"actor_name"`
	ActorRole        string  `json:"actor_role"`
	Direction        string  `json:"direction"`
	Value            float64 `json:"value"`
	ValueLow         float64 `json:"value_low"`
	ValueHigh        float64 `json:"value_high"`
	TransactionDate  string  `json:"transaction_date"`
	DisclosureDate   string  `json:"disclosure_date"`
	NonDiscretionary bool    `json:"non_discretionary"`
}

// HoldingFeedRecord is one institutional snapshot as the feed carries it.
type HoldingFeedRecord struct {
	HolderName      string  `json:"holder_name"`
	Ticker          string  `json:"ticker"`
	CompanyName     string  `json:"company_name"`
	PortfolioPct    float64 `json:"portfolio_pct"`
	SharesHeld      int64   `json:"shares_held"`
	Value           float64 `json:"value"`
	ReportingPeriod string  `json:"reporting_period"`
	PeriodStart     string  `json:"period_start"`
}

// Loader writes feed records into the stores.
type Loader struct {
	events   storage.EventStore
	holdings storage.HoldingStore
	archive  storage.EventArchive // nil disables archiving
	log      zerolog.Logger
	now      func() time.Time
}

// Options for creating a Loader.
type Options struct {
	Events   storage.EventStore
	Holdings storage.HoldingStore
	Archive  storage.EventArchive
	Logger   zerolog.Logger
	Clock    func() time.Time
}

// NewLoader creates a Loader.
func NewLoader(opts Options) *Loader {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Loader{
		events:   opts.Events,
		holdings: opts.Holdings,
		archive:  opts.Archive,
		log:      opts.Logger,
		now:      now,
	}
}

// Result counts what one load pass did.
type Result struct {
	EventsInserted   int
	EventsDuplicate  int
	HoldingsUpserted int
	RecordsRejected  int
	ArchiveFailed    bool
}

// LoadEvents reads a JSON array of event records and appends them.
// Duplicates (by the uniqueness key) are skipped, malformed records are
// rejected and logged; neither stops the load.
func (l *Loader) LoadEvents(ctx context.Context, r io.Reader) (*Result, error) {
	var records []EventFeedRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode event feed: %w", err)
	}

	result := &Result{}
	var inserted []*domain.TradeEvent
	for i, rec := range records {
		e, err := l.toEvent(rec)
		if err != nil {
			result.RecordsRejected++
			l.log.Warn().Err(err).Int("index", i).Str("ticker", rec.Ticker).Msg("rejected feed record")
			continue
		}
		err = l.events.Insert(ctx, e)
		if errors.Is(err, storage.ErrDuplicateKey) {
			result.EventsDuplicate++
			continue
		}
		if err != nil {
			return result, fmt.Errorf("insert event %s: %w", e.EventID, err)
		}
		result.EventsInserted++
		inserted = append(inserted, e)
	}

	if l.archive != nil && len(inserted) > 0 {
		if err := l.archive.Archive(ctx, inserted); err != nil {
			// The archive is analytics-only; its failure never blocks ingestion.
			result.ArchiveFailed = true
			l.log.Warn().Err(err).Msg("event archive failed")
		}
	}
	return result, nil
}

// LoadHoldings reads a JSON array of holding snapshots and upserts them.
func (l *Loader) LoadHoldings(ctx context.Context, r io.Reader) (*Result, error) {
	var records []HoldingFeedRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode holding feed: %w", err)
	}

	result := &Result{}
	for i, rec := range records {
		h, err := l.toHolding(rec)
		if err != nil {
			result.RecordsRejected++
			l.log.Warn().Err(err).Int("index", i).Str("ticker", rec.Ticker).Msg("rejected feed record")
			continue
		}
		if err := l.holdings.Upsert(ctx, h); err != nil {
			return result, fmt.Errorf("upsert holding %s/%s: %w", h.HolderName, h.Ticker, err)
		}
		result.HoldingsUpserted++
	}
	return result, nil
}

func (l *Loader) toEvent(rec EventFeedRecord) (*domain.TradeEvent, error) {
	if rec.Ticker == "" || rec.ActorName == "" || rec.Source == "" {
		return nil, fmt.Errorf("missing required field")
	}

	class := domain.ActorClass(rec.ActorClass)
	switch class {
	case domain.ClassInsider, domain.ClassLegislator:
	default:
		return nil, fmt.Errorf("unknown actor class %q", rec.ActorClass)
	}

	dir := domain.Direction(rec.Direction)
	if dir != domain.DirectionBuy && dir != domain.DirectionSell {
		return nil, fmt.Errorf("unknown direction %q", rec.Direction)
	}

	txDate, err := time.Parse(dateLayout, rec.TransactionDate)
	if err != nil {
		return nil, fmt.Errorf("transaction_date: %w", err)
	}
	disclosure := txDate
	if rec.DisclosureDate != "" {
		if disclosure, err = time.Parse(dateLayout, rec.DisclosureDate); err != nil {
			return nil, fmt.Errorf("disclosure_date: %w", err)
		}
	}

	value, low, high := rec.Value, rec.ValueLow, rec.ValueHigh
	if value == 0 && low > 0 {
		value = low
	}
	if low == 0 {
		low = value
	}
	if high == 0 {
		high = value
	}
	if value <= 0 {
		return nil, fmt.Errorf("non-positive value")
	}

	return &domain.TradeEvent{
		EventID:          idhash.ComputeEventID(rec.Source, rec.Ticker, rec.ActorName, txDate, value),
		Source:           rec.Source,
		Ticker:           rec.Ticker,
		CompanyName:      rec.CompanyName,
		ActorClass:       class,
		ActorName:        rec.ActorName,
		ActorRole:        rec.ActorRole,
		Direction:        dir,
		Value:            value,
		ValueLow:         low,
		ValueHigh:        high,
		TransactionDate:  txDate,
		DisclosureDate:   disclosure,
		NonDiscretionary: rec.NonDiscretionary,
	}, nil
}

func (l *Loader) toHolding(rec HoldingFeedRecord) (*domain.HoldingSnapshot, error) {
	if rec.HolderName == "" || rec.Ticker == "" || rec.ReportingPeriod == "" {
		return nil, fmt.Errorf("missing required field")
	}
	periodStart, err := time.Parse(dateLayout, rec.PeriodStart)
	if err != nil {
		return nil, fmt.Errorf("period_start: %w", err)
	}
	return &domain.HoldingSnapshot{
		HolderName:      rec.HolderName,
		Ticker:          rec.Ticker,
		CompanyName:     rec.CompanyName,
		PortfolioPct:    rec.PortfolioPct,
		SharesHeld:      rec.SharesHeld,
		Value:           rec.Value,
		ReportingPeriod: rec.ReportingPeriod,
		PeriodStart:     periodStart,
		UpdatedAt:       l.now(),
	}, nil
}
