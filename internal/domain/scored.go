package domain

// FactorContribution is one labeled delta in a composite score breakdown.
// Detail carries the human-readable evidence ("$600,000 aggregate", "×1.2").
type FactorContribution struct {
	Factor string
	Delta  float64
	Detail string
}

// ScoredSignal is a Signal annotated with its composite rank. Ephemeral,
// run-scoped. The breakdown is a first-class output consumed by the per-run
// summary report; it is not incidental logging.
type ScoredSignal struct {
	Signal
	AlertKey  string
	Score     float64
	Breakdown []FactorContribution
}

// DeliveryStatus records the per-item outcome of a delivery attempt.
type DeliveryStatus string

const (
	DeliveryDelivered  DeliveryStatus = "DELIVERED"
	DeliveryFailed     DeliveryStatus = "FAILED"
	DeliverySuppressed DeliveryStatus = "SUPPRESSED"
)

// DeliveredSignal is the run_once output item: a scored signal plus what
// happened when it was handed to the delivery channel.
type DeliveredSignal struct {
	ScoredSignal
	Status DeliveryStatus
	Err    string // delivery error text, empty unless Status == DeliveryFailed
}
