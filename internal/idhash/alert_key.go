package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"insider-radar/internal/domain"
)

// dateLayout is the granularity at which event dates enter fingerprints.
// Disclosures are day-resolution facts; finer timestamps would make keys
// unstable across feeds.
const dateLayout = "2006-01-02"

// ComputeAlertKey computes a deterministic alert_key using SHA256.
// Formula: SHA256(pattern|ticker|sorted distinct actors|sorted distinct event dates)
// Returns hex-encoded hash (64 characters).
//
// The key depends only on the identity set of the cluster, not on the query
// window that found it: re-detecting the same underlying events from a wider
// window reproduces the same key, so a delivered alert stays suppressed.
func ComputeAlertKey(pattern domain.PatternKind, ticker string, actors []string, eventDates []time.Time) string {
	actorSet := distinctSorted(actors)

	dateSet := make([]string, 0, len(eventDates))
	for _, d := range eventDates {
		dateSet = append(dateSet, d.UTC().Format(dateLayout))
	}
	dateSet = distinctSorted(dateSet)

	data := fmt.Sprintf("%s|%s|%s|%s",
		string(pattern),
		strings.ToUpper(ticker),
		strings.Join(actorSet, ","),
		strings.Join(dateSet, ","),
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// SignalKey computes the alert_key for a detected signal from its supporting
// events.
func SignalKey(sig *domain.Signal) string {
	dates := make([]time.Time, 0, len(sig.Events))
	for _, e := range sig.Events {
		dates = append(dates, e.TransactionDate)
	}
	return ComputeAlertKey(sig.Pattern, sig.Ticker, sig.Actors, dates)
}

// ComputeEventID computes a deterministic event_id using SHA256 over the
// trade event uniqueness key.
// Formula: SHA256(source|ticker|actor_name|transaction_date|value)
func ComputeEventID(source, ticker, actorName string, transactionDate time.Time, value float64) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%.2f",
		source,
		strings.ToUpper(ticker),
		actorName,
		transactionDate.UTC().Format(dateLayout),
		value,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

func distinctSorted(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
