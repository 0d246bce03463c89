package domain

import "time"

// LedgerEntry records one delivered alert for deduplication. Created on
// successful delivery only; logically expired once ExpiresAt passes,
// physically removed by the background sweep. Corresponds to the
// alert_ledger table keyed by alert_key.
type LedgerEntry struct {
	AlertKey  string // deterministic fingerprint, see idhash.ComputeAlertKey
	Ticker    string
	Pattern   PatternKind
	SentAt    time.Time
	ExpiresAt time.Time
}

// Expired reports whether the entry no longer suppresses re-delivery at now.
func (e *LedgerEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}
