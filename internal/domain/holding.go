package domain

import "time"

// HoldingSnapshot is a point-in-time institutional ownership fact from a
// quarterly filing. Refreshed wholesale each reporting period; a snapshot
// with the same (holder, ticker, period) key supersedes the prior one.
// Corresponds to the holding_snapshots table.
type HoldingSnapshot struct {
	HolderName       string
	Ticker           string
	CompanyName      string
	PortfolioPct     float64 // fraction of the holder's portfolio, 0-100
	SharesHeld       int64
	Value            float64 // position value in USD
	ReportingPeriod  string  // e.g. "2026-Q2"
	PeriodStart      time.Time
	UpdatedAt        time.Time
}
