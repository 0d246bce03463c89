// Package enrichment fetches per-ticker market context for scoring.
// Every field is optional: a missing value degrades the score neutrally,
// it never fails the run.
package enrichment

import "context"

// TickerContext is the market context for one ticker. Nil fields mean the
// upstream source had no data.
type TickerContext struct {
	MarketCap        *float64 `json:"market_cap"`
	ShortInterestPct *float64 `json:"short_interest_pct"`
	PriceContext     string   `json:"price_context"`
}

// Provider returns market context for a ticker.
type Provider interface {
	Context(ctx context.Context, ticker string) (*TickerContext, error)
}
