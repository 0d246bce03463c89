package domain

import "time"

// ActorClass identifies which disclosure source an event came from.
type ActorClass string

const (
	ClassInsider     ActorClass = "INSIDER"
	ClassLegislator  ActorClass = "LEGISLATOR"
	ClassInstitution ActorClass = "INSTITUTION"
)

// Direction of a disclosed transaction.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// Party labels as they appear in legislator disclosures.
const (
	PartyDemocrat   = "D"
	PartyRepublican = "R"
)

// TradeEvent is one disclosed insider or legislator transaction.
// Immutable once appended; uniqueness key = (source, ticker, actor_name,
// transaction_date, value). Corresponds to the trade_events table.
type TradeEvent struct {
	EventID     string // PRIMARY KEY, deterministic hash of the uniqueness key
	Source      string // feed identifier, e.g. "openinsider", "capitoltrades"
	Ticker      string
	CompanyName string
	ActorClass  ActorClass
	ActorName   string
	ActorRole   string // insider title ("CEO", "VP of Sales", ...) or legislator party ("D"/"R")
	Direction   Direction

	// Value is the best point estimate in USD. Legislator disclosures carry
	// a range; for those ValueLow/ValueHigh hold the disclosed bounds and
	// Value equals ValueLow. For insiders all three are equal.
	Value     float64
	ValueLow  float64
	ValueHigh float64

	TransactionDate time.Time
	DisclosureDate  time.Time

	// NonDiscretionary marks automatic transactions (option exercises,
	// 10b5-1 plan sales). Excluded from all value and cluster computations.
	NonDiscretionary bool
}

// RecencyDate returns the date that governs lookback cutoffs for this event:
// disclosure date for legislators (the trade is only knowable once published,
// up to 45 days after the fact), transaction date for insiders.
func (e *TradeEvent) RecencyDate() time.Time {
	if e.ActorClass == ClassLegislator {
		return e.DisclosureDate
	}
	return e.TransactionDate
}

// Discretionary reports whether the event counts toward signal detection.
func (e *TradeEvent) Discretionary() bool {
	return !e.NonDiscretionary
}
