package domain

import "time"

// PatternKind identifies which detector produced a signal.
type PatternKind string

const (
	PatternClusterBuy      PatternKind = "Cluster Buying"
	PatternCSuiteBuy       PatternKind = "C-Suite Buy"
	PatternCorporateBuy    PatternKind = "Corporate Investor Buy"
	PatternBearishCluster  PatternKind = "Bearish Cluster Selling"
	PatternLargeSingleBuy  PatternKind = "Large Single Buy"
	PatternEliteCluster    PatternKind = "Elite Cluster Buy"
	PatternEliteSingleBuy  PatternKind = "Elite Single Buy"
	PatternConvergence     PatternKind = "Temporal Convergence"
	PatternWatchlist       PatternKind = "Watchlist Activity"
)

// Signal is one detected pattern for one ticker. Fresh each run, never
// persisted. SupportingEvents are ordered by date and fall within
// [WindowStart, WindowEnd]; Actors is the insertion-ordered distinct set of
// actor names behind those events.
type Signal struct {
	Pattern        PatternKind
	Ticker         string
	CompanyName    string
	Actors         []string
	Events         []*TradeEvent
	Holdings       []*HoldingSnapshot // institution leg, convergence and watchlist only
	AggregateValue float64
	WindowStart    time.Time
	WindowEnd      time.Time

	// Bipartisan is set by the legislator detectors when both party labels
	// appear among the actors.
	Bipartisan bool

	// Convergence is attached by the analyzer when this ticker has
	// qualifying activity from two or more actor classes.
	Convergence *ConvergenceRecord
}

// TimelineLeg is one actor class's earliest qualifying activity on a ticker.
type TimelineLeg struct {
	Class        ActorClass
	EarliestDate time.Time
	ActorCount   int
}

// Convergence pattern labels.
const (
	ConvergenceSequential = "SEQUENTIAL"
	ConvergenceTight      = "TIGHT"
	ConvergenceConcurrent = "CONCURRENT"
)

// ConvergenceRecord captures cross-class temporal alignment for one ticker.
// Derived per run, not persisted. Timeline is sorted by EarliestDate ascending.
type ConvergenceRecord struct {
	Ticker     string
	Timeline   []TimelineLeg
	Label      string
	Bonus      float64
	Bipartisan bool // bipartisan +1 already folded into Bonus
}
