// Package convergence detects cross-class temporal alignment: the same
// ticker touched by two or more actor classes within the lookback window.
package convergence

import (
	"sort"
	"time"

	"insider-radar/internal/domain"
	"insider-radar/internal/repository"
)

// Convergence bonus points by classification.
const (
	bonusSequential = 3
	bonusTight      = 2
	bonusConcurrent = 1
	bonusBipartisan = 1
)

// tightSpan is the maximum first-to-last spread for a TIGHT classification.
const tightSpan = 14 * 24 * time.Hour

// correlationWindow bounds the gap between the insider and legislator legs.
// The per-class store lookbacks can admit older events (legislators disclose
// up to 45 days late), so the analyzer enforces its own window.
const correlationWindow = 30 * 24 * time.Hour

// Analyzer builds per-ticker timelines and classifies them.
type Analyzer struct{}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze returns the best convergence record per ticker. Tickers touched
// by fewer than two actor classes are absent from the result.
func (a *Analyzer) Analyze(snap *repository.Snapshot) map[string]*domain.ConvergenceRecord {
	records := make(map[string]*domain.ConvergenceRecord)
	for _, ticker := range candidateTickers(snap) {
		if rec := a.analyzeTicker(snap, ticker); rec != nil {
			records[ticker] = rec
		}
	}
	return records
}

func (a *Analyzer) analyzeTicker(snap *repository.Snapshot, ticker string) *domain.ConvergenceRecord {
	var timeline []domain.TimelineLeg

	insiderLeg, _ := buyLeg(snap.EventsForTicker(ticker, domain.ClassInsider))
	legislatorLeg, bipartisan := buyLeg(snap.EventsForTicker(ticker, domain.ClassLegislator))

	// The trade legs must fall inside the correlation window. The
	// institution leg is exempt: "already holds" is a standing fact
	// dated by its reporting period, not a trade.
	if insiderLeg != nil && legislatorLeg != nil {
		gap := insiderLeg.EarliestDate.Sub(legislatorLeg.EarliestDate)
		if gap < 0 {
			gap = -gap
		}
		if gap > correlationWindow {
			return nil
		}
	}

	if insiderLeg != nil {
		timeline = append(timeline, *insiderLeg)
	}
	if legislatorLeg != nil {
		timeline = append(timeline, *legislatorLeg)
	}

	holdings := snap.HoldingsForTicker(ticker)
	if len(holdings) > 0 {
		timeline = append(timeline, holdingLeg(holdings))
	}

	if len(timeline) < 2 {
		return nil
	}

	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].EarliestDate.Before(timeline[j].EarliestDate)
	})

	label, bonus := classify(timeline, insiderLeg, legislatorLeg, len(holdings) > 0)
	if bipartisan {
		bonus += bonusBipartisan
	}

	return &domain.ConvergenceRecord{
		Ticker:     ticker,
		Timeline:   timeline,
		Label:      label,
		Bonus:      bonus,
		Bipartisan: bipartisan,
	}
}

// classify picks the strongest label the timeline supports.
//
// SEQUENTIAL requires all three classes with the legislator transacting no
// later than the insider. The institution leg means "already holds": its
// reporting-period start never disqualifies the ordering.
func classify(timeline []domain.TimelineLeg, insider, legislator *domain.TimelineLeg, holds bool) (string, float64) {
	if insider != nil && legislator != nil && holds &&
		!legislator.EarliestDate.After(insider.EarliestDate) {
		return domain.ConvergenceSequential, bonusSequential
	}

	span := timeline[len(timeline)-1].EarliestDate.Sub(timeline[0].EarliestDate)
	if span <= tightSpan {
		return domain.ConvergenceTight, bonusTight
	}

	return domain.ConvergenceConcurrent, bonusConcurrent
}

// buyLeg reduces a class's events to its earliest discretionary BUY and the
// distinct actor count behind the leg. Legs are dated by RecencyDate, so a
// legislator leg dates from disclosure, when the trade becomes knowable.
// Second result reports whether both party labels appear among the
// qualifying actors.
func buyLeg(events []*domain.TradeEvent) (*domain.TimelineLeg, bool) {
	var (
		leg     *domain.TimelineLeg
		actors  = make(map[string]struct{})
		parties = make(map[string]struct{})
	)
	for _, e := range events {
		if e.Direction != domain.DirectionBuy || !e.Discretionary() {
			continue
		}
		if leg == nil {
			leg = &domain.TimelineLeg{Class: e.ActorClass, EarliestDate: e.RecencyDate()}
		} else if e.RecencyDate().Before(leg.EarliestDate) {
			leg.EarliestDate = e.RecencyDate()
		}
		actors[e.ActorName] = struct{}{}
		if e.ActorClass == domain.ClassLegislator {
			parties[e.ActorRole] = struct{}{}
		}
	}
	if leg == nil {
		return nil, false
	}
	leg.ActorCount = len(actors)

	_, d := parties[domain.PartyDemocrat]
	_, r := parties[domain.PartyRepublican]
	return leg, d && r
}

// holdingLeg dates the institution leg at the earliest reporting-period
// start among current holders.
func holdingLeg(holdings []*domain.HoldingSnapshot) domain.TimelineLeg {
	leg := domain.TimelineLeg{
		Class:        domain.ClassInstitution,
		EarliestDate: holdings[0].PeriodStart,
		ActorCount:   len(holdings),
	}
	for _, h := range holdings[1:] {
		if h.PeriodStart.Before(leg.EarliestDate) {
			leg.EarliestDate = h.PeriodStart
		}
	}
	return leg
}

// candidateTickers is the union of tickers with insider or legislator
// activity. Institution-only tickers cannot converge and are skipped.
func candidateTickers(snap *repository.Snapshot) []string {
	seen := make(map[string]struct{})
	var tickers []string
	for _, class := range []domain.ActorClass{domain.ClassInsider, domain.ClassLegislator} {
		for _, t := range snap.TickersWithActivity(class) {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tickers = append(tickers, t)
		}
	}
	sort.Strings(tickers)
	return tickers
}
