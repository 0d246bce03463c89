// Package reporting renders the per-run summary consumed by operators:
// what was detected, how each alert scored, and what happened on delivery.
package reporting

import (
	"fmt"
	"time"

	"insider-radar/internal/domain"
	"insider-radar/internal/selector"
)

// Report is the renderable view of one engine pass.
type Report struct {
	GeneratedAt time.Time
	StartedAt   time.Time
	FinishedAt  time.Time

	SignalsDetected int
	Delivered       int
	Failed          int
	Suppressed      int
	Truncated       int
	SweptExpired    int
	DetectorErrors  []string

	// Alerts in rank order, suppressed items appended last.
	Alerts []AlertRow
}

// AlertRow is one alert with its full score breakdown.
type AlertRow struct {
	Pattern        domain.PatternKind
	Ticker         string
	Actors         []string
	AggregateValue float64
	Score          float64
	Status         domain.DeliveryStatus
	Err            string
	Breakdown      []domain.FactorContribution
}

// FromRunResult builds a Report from a selector run.
func FromRunResult(result *selector.RunResult, now func() time.Time) *Report {
	if now == nil {
		now = time.Now
	}
	r := &Report{
		GeneratedAt:     now().UTC(),
		StartedAt:       result.StartedAt,
		FinishedAt:      result.FinishedAt,
		SignalsDetected: result.SignalsDetected,
		Suppressed:      len(result.Suppressed),
		Truncated:       result.Truncated,
		SweptExpired:    result.SweptExpired,
	}
	for _, de := range result.DetectorErrors {
		r.DetectorErrors = append(r.DetectorErrors, fmt.Sprintf("%s: %s", de.Pattern, de.Err))
	}

	for _, item := range result.Items {
		switch item.Status {
		case domain.DeliveryDelivered:
			r.Delivered++
		case domain.DeliveryFailed:
			r.Failed++
		}
		r.Alerts = append(r.Alerts, alertRow(item))
	}
	for _, item := range result.Suppressed {
		r.Alerts = append(r.Alerts, alertRow(item))
	}
	return r
}

func alertRow(item *domain.DeliveredSignal) AlertRow {
	return AlertRow{
		Pattern:        item.Pattern,
		Ticker:         item.Ticker,
		Actors:         item.Actors,
		AggregateValue: item.AggregateValue,
		Score:          item.Score,
		Status:         item.Status,
		Err:            item.Err,
		Breakdown:      item.Breakdown,
	}
}
