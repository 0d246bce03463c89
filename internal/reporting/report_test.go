package reporting

import (
	"strings"
	"testing"
	"time"

	"insider-radar/internal/domain"
	"insider-radar/internal/selector"
)

func sampleResult() *selector.RunResult {
	started := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	item := func(pattern domain.PatternKind, ticker string, score float64, status domain.DeliveryStatus, errText string) *domain.DeliveredSignal {
		return &domain.DeliveredSignal{
			ScoredSignal: domain.ScoredSignal{
				Signal: domain.Signal{
					Pattern: pattern, Ticker: ticker,
					Actors:         []string{"Alice", "Bob"},
					AggregateValue: 600000,
				},
				AlertKey: "key-" + ticker,
				Score:    score,
				Breakdown: []domain.FactorContribution{
					{Factor: "Base Score", Delta: 7, Detail: string(pattern)},
					{Factor: "Aggregate Value", Delta: 1.5, Detail: "$600000 aggregate"},
				},
			},
			Status: status,
			Err:    errText,
		}
	}
	return &selector.RunResult{
		StartedAt:       started,
		FinishedAt:      started.Add(2 * time.Second),
		SignalsDetected: 4,
		Truncated:       1,
		SweptExpired:    2,
		Items: []*domain.DeliveredSignal{
			item(domain.PatternClusterBuy, "ACME", 10.5, domain.DeliveryDelivered, ""),
			item(domain.PatternLargeSingleBuy, "ZULU", 5.5, domain.DeliveryFailed, "webhook down"),
		},
		Suppressed: []*domain.DeliveredSignal{
			item(domain.PatternCSuiteBuy, "OLDY", 8, domain.DeliverySuppressed, ""),
		},
	}
}

func TestFromRunResult(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 8, 20, 9, 0, 5, 0, time.UTC) }
	r := FromRunResult(sampleResult(), now)

	if r.Delivered != 1 || r.Failed != 1 || r.Suppressed != 1 {
		t.Fatalf("counts = %d/%d/%d, want 1/1/1", r.Delivered, r.Failed, r.Suppressed)
	}
	if len(r.Alerts) != 3 {
		t.Fatalf("alerts = %d, want 3", len(r.Alerts))
	}
	// Suppressed rows come after ranked output.
	if r.Alerts[2].Status != domain.DeliverySuppressed {
		t.Fatalf("last alert status = %q", r.Alerts[2].Status)
	}
}

func TestRenderMarkdown(t *testing.T) {
	r := FromRunResult(sampleResult(), nil)
	md := RenderMarkdown(r)

	for _, want := range []string{
		"# Signal Engine Run Report",
		"| Signals Detected | 4 |",
		"| Cluster Buying | ACME | Alice; Bob | $600000 | 10.50 | DELIVERED |",
		"### ACME - Cluster Buying (10.50)",
		"Delivery error: webhook down",
		"| Base Score | +7.00 | Cluster Buying |",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestRenderCSV(t *testing.T) {
	r := FromRunResult(sampleResult(), nil)
	csv := RenderCSV(r.Alerts)

	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want header + 3 rows", len(lines))
	}
	if lines[0] != "pattern,ticker,actors,aggregate_value,score,status,error" {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Cluster Buying,ACME,Alice; Bob,600000.00,10.5000,DELIVERED,") {
		t.Fatalf("row = %q", lines[1])
	}
}
