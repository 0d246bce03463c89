package detect

import (
	"context"

	"insider-radar/internal/domain"
	"insider-radar/internal/repository"
)

// CSuiteBuyDetector flags individual buys by C-suite-equivalent insiders.
// The role match carries the conviction, so only a value floor applies.
type CSuiteBuyDetector struct {
	MinValue float64
	Roles    domain.TagSet
}

// NewCSuiteBuyDetector creates a new CSuiteBuyDetector.
func NewCSuiteBuyDetector(minValue float64, roles domain.TagSet) *CSuiteBuyDetector {
	return &CSuiteBuyDetector{MinValue: minValue, Roles: roles}
}

// Kind returns the pattern this detector emits.
func (d *CSuiteBuyDetector) Kind() domain.PatternKind {
	return domain.PatternCSuiteBuy
}

// Detect emits one signal per qualifying buy.
func (d *CSuiteBuyDetector) Detect(_ context.Context, snap *repository.Snapshot) ([]*domain.Signal, error) {
	var signals []*domain.Signal
	for _, e := range discretionary(snap.AllRecent(domain.ClassInsider), domain.DirectionBuy) {
		if e.Value >= d.MinValue && d.Roles.Match(domain.NormalizeTitle(e.ActorRole)) {
			signals = append(signals, newSignal(domain.PatternCSuiteBuy, e.Ticker, []*domain.TradeEvent{e}))
		}
	}
	return signals, nil
}

// CorporateBuyDetector flags buys where the filer is a corporate entity
// rather than an individual (strategic investor). Name keywords match on
// word boundaries; there is no value floor.
type CorporateBuyDetector struct {
	Entities domain.TagSet
}

// NewCorporateBuyDetector creates a new CorporateBuyDetector.
func NewCorporateBuyDetector(entities domain.TagSet) *CorporateBuyDetector {
	return &CorporateBuyDetector{Entities: entities}
}

// Kind returns the pattern this detector emits.
func (d *CorporateBuyDetector) Kind() domain.PatternKind {
	return domain.PatternCorporateBuy
}

// Detect emits one signal per qualifying buy.
func (d *CorporateBuyDetector) Detect(_ context.Context, snap *repository.Snapshot) ([]*domain.Signal, error) {
	var signals []*domain.Signal
	for _, e := range discretionary(snap.AllRecent(domain.ClassInsider), domain.DirectionBuy) {
		if d.Entities.MatchWord(e.ActorName) {
			signals = append(signals, newSignal(domain.PatternCorporateBuy, e.Ticker, []*domain.TradeEvent{e}))
		}
	}
	return signals, nil
}

// LargeSingleBuyDetector flags any single discretionary insider buy at or
// above a value floor, regardless of role.
type LargeSingleBuyDetector struct {
	MinValue float64
}

// NewLargeSingleBuyDetector creates a new LargeSingleBuyDetector.
func NewLargeSingleBuyDetector(minValue float64) *LargeSingleBuyDetector {
	return &LargeSingleBuyDetector{MinValue: minValue}
}

// Kind returns the pattern this detector emits.
func (d *LargeSingleBuyDetector) Kind() domain.PatternKind {
	return domain.PatternLargeSingleBuy
}

// Detect emits one signal per qualifying buy.
func (d *LargeSingleBuyDetector) Detect(_ context.Context, snap *repository.Snapshot) ([]*domain.Signal, error) {
	var signals []*domain.Signal
	for _, e := range discretionary(snap.AllRecent(domain.ClassInsider), domain.DirectionBuy) {
		if e.Value >= d.MinValue {
			signals = append(signals, newSignal(domain.PatternLargeSingleBuy, e.Ticker, []*domain.TradeEvent{e}))
		}
	}
	return signals, nil
}
