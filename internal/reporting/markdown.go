package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Signal Engine Run Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run window: %s → %s\n\n",
		r.StartedAt.Format(time.RFC3339), r.FinishedAt.Format(time.RFC3339)))

	sb.WriteString("## Run Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Signals Detected | %d |\n", r.SignalsDetected))
	sb.WriteString(fmt.Sprintf("| Delivered | %d |\n", r.Delivered))
	sb.WriteString(fmt.Sprintf("| Failed | %d |\n", r.Failed))
	sb.WriteString(fmt.Sprintf("| Suppressed | %d |\n", r.Suppressed))
	sb.WriteString(fmt.Sprintf("| Truncated | %d |\n", r.Truncated))
	sb.WriteString(fmt.Sprintf("| Ledger Entries Swept | %d |\n", r.SweptExpired))
	sb.WriteString("\n")

	if len(r.DetectorErrors) > 0 {
		sb.WriteString("## Detector Errors\n\n")
		for _, e := range r.DetectorErrors {
			sb.WriteString(fmt.Sprintf("- %s\n", e))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Alerts\n\n")
	if len(r.Alerts) == 0 {
		sb.WriteString("No alerts this run.\n")
		return sb.String()
	}

	sb.WriteString("| Pattern | Ticker | Actors | Aggregate | Score | Status |\n")
	sb.WriteString("|---------|--------|--------|-----------|-------|--------|\n")
	for _, a := range r.Alerts {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | $%.0f | %.2f | %s |\n",
			a.Pattern, a.Ticker, strings.Join(a.Actors, "; "),
			a.AggregateValue, a.Score, a.Status))
	}
	sb.WriteString("\n")

	sb.WriteString("## Score Breakdowns\n\n")
	for _, a := range r.Alerts {
		sb.WriteString(fmt.Sprintf("### %s - %s (%.2f)\n\n", a.Ticker, a.Pattern, a.Score))
		if a.Err != "" {
			sb.WriteString(fmt.Sprintf("Delivery error: %s\n\n", a.Err))
		}
		sb.WriteString("| Factor | Delta | Detail |\n")
		sb.WriteString("|--------|-------|--------|\n")
		for _, fc := range a.Breakdown {
			sb.WriteString(fmt.Sprintf("| %s | %+.2f | %s |\n", fc.Factor, fc.Delta, fc.Detail))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
