package enrichment

import "context"

// Noop is the provider used when no enrichment endpoint is configured.
// Every lookup returns an empty context, so scores stay neutral.
type Noop struct{}

// Context returns an empty context.
func (Noop) Context(context.Context, string) (*TickerContext, error) {
	return &TickerContext{}, nil
}

// Compile-time interface check.
var _ Provider = Noop{}
