// Package delivery holds the outbound side of a run: the channel alerts
// are handed to and the watchlist subscription source.
package delivery

import (
	"context"

	"github.com/rs/zerolog"

	"insider-radar/internal/domain"
)

// Channel attempts delivery of one scored signal. An error means the item
// was not confirmed; the selector will retry it next run.
type Channel interface {
	Deliver(ctx context.Context, item *domain.ScoredSignal) error
}

// LogChannel is the default delivery channel: it writes each alert to the
// structured log. Useful standalone and as the fallback when no real
// notifier is configured.
type LogChannel struct {
	log zerolog.Logger
}

// NewLogChannel creates a LogChannel.
func NewLogChannel(log zerolog.Logger) *LogChannel {
	return &LogChannel{log: log}
}

// Compile-time interface check.
var _ Channel = (*LogChannel)(nil)

// Deliver logs the alert. Never fails.
func (c *LogChannel) Deliver(_ context.Context, item *domain.ScoredSignal) error {
	evt := c.log.Info().
		Str("pattern", string(item.Pattern)).
		Str("ticker", item.Ticker).
		Strs("actors", item.Actors).
		Float64("aggregate_value", item.AggregateValue).
		Float64("score", item.Score).
		Str("alert_key", item.AlertKey)
	if item.Convergence != nil {
		evt = evt.Str("convergence", item.Convergence.Label)
	}
	evt.Msg("alert")
	return nil
}

// StaticWatchlist serves a fixed set of subscribed tickers from config.
type StaticWatchlist struct {
	tickers []string
}

// NewStaticWatchlist creates a StaticWatchlist.
func NewStaticWatchlist(tickers []string) *StaticWatchlist {
	return &StaticWatchlist{tickers: tickers}
}

// Tickers returns the subscribed tickers.
func (w *StaticWatchlist) Tickers(context.Context) ([]string, error) {
	out := make([]string, len(w.tickers))
	copy(out, w.tickers)
	return out, nil
}
