package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the alert rows as a CSV string.
func RenderCSV(alerts []AlertRow) string {
	var sb strings.Builder

	sb.WriteString("pattern,ticker,actors,aggregate_value,score,status,error\n")

	for _, a := range alerts {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%.2f,%.4f,%s,%s\n",
			csvField(string(a.Pattern)),
			csvField(a.Ticker),
			csvField(strings.Join(a.Actors, "; ")),
			a.AggregateValue,
			a.Score,
			a.Status,
			csvField(a.Err),
		))
	}

	return sb.String()
}

// csvField quotes a value when it contains a delimiter.
func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
