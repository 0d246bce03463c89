package detect

import (
	"context"
	"strings"

	"insider-radar/internal/domain"
	"insider-radar/internal/repository"
)

// AllowList is a fixed set of named legislators whose trades alone qualify
// for the elite patterns. Name matching is case-insensitive.
type AllowList struct {
	names map[string]struct{}
}

// NewAllowList builds an AllowList from legislator names.
func NewAllowList(names []string) AllowList {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return AllowList{names: set}
}

// Contains reports whether name is on the list.
func (a AllowList) Contains(name string) bool {
	_, ok := a.names[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Len returns the list size.
func (a AllowList) Len() int {
	return len(a.names)
}

// EliteClusterDetector finds several allow-listed legislators buying the
// same ticker within the (longer) legislator window. Disclosure lag means
// legislator clusters form slowly, hence the wider default window.
type EliteClusterDetector struct {
	WindowDays int
	MinActors  int
	Allowed    AllowList
}

// NewEliteClusterDetector creates a new EliteClusterDetector.
func NewEliteClusterDetector(windowDays, minActors int, allowed AllowList) *EliteClusterDetector {
	return &EliteClusterDetector{WindowDays: windowDays, MinActors: minActors, Allowed: allowed}
}

// Kind returns the pattern this detector emits.
func (d *EliteClusterDetector) Kind() domain.PatternKind {
	return domain.PatternEliteCluster
}

// Detect returns at most one elite cluster per ticker, flagged bipartisan
// when both party labels appear among the cluster's actors.
func (d *EliteClusterDetector) Detect(_ context.Context, snap *repository.Snapshot) ([]*domain.Signal, error) {
	signals := detectClusters(snap, domain.PatternEliteCluster, domain.ClassLegislator,
		domain.DirectionBuy, d.WindowDays, d.MinActors, 0,
		func(e *domain.TradeEvent) bool { return d.Allowed.Contains(e.ActorName) })

	for _, sig := range signals {
		sig.Bipartisan = bipartisan(sig.Events)
	}
	return signals, nil
}

// EliteSingleBuyDetector flags any allow-listed legislator buy whose
// disclosed value-range lower bound meets the floor. Ranges are wide, so
// the conservative bound is what must clear it.
type EliteSingleBuyDetector struct {
	MinValueLow float64
	Allowed     AllowList
}

// NewEliteSingleBuyDetector creates a new EliteSingleBuyDetector.
func NewEliteSingleBuyDetector(minValueLow float64, allowed AllowList) *EliteSingleBuyDetector {
	return &EliteSingleBuyDetector{MinValueLow: minValueLow, Allowed: allowed}
}

// Kind returns the pattern this detector emits.
func (d *EliteSingleBuyDetector) Kind() domain.PatternKind {
	return domain.PatternEliteSingleBuy
}

// Detect emits one signal per qualifying buy.
func (d *EliteSingleBuyDetector) Detect(_ context.Context, snap *repository.Snapshot) ([]*domain.Signal, error) {
	var signals []*domain.Signal
	for _, e := range discretionary(snap.AllRecent(domain.ClassLegislator), domain.DirectionBuy) {
		if e.ValueLow >= d.MinValueLow && d.Allowed.Contains(e.ActorName) {
			signals = append(signals, newSignal(domain.PatternEliteSingleBuy, e.Ticker, []*domain.TradeEvent{e}))
		}
	}
	return signals, nil
}

// bipartisan reports whether both party labels appear among the events.
func bipartisan(events []*domain.TradeEvent) bool {
	var d, r bool
	for _, e := range events {
		switch e.ActorRole {
		case domain.PartyDemocrat:
			d = true
		case domain.PartyRepublican:
			r = true
		}
	}
	return d && r
}
