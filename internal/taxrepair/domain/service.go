package domain

import "context"

// Result is the outcome of one repair attempt. When Strategy is resolved,
// Rates holds one rate per batch line, in batch order.
type Result struct {
	Strategy Strategy
	Rates    []float64
}

// Engine searches for a rate assignment that reconciles a batch. It returns
// an error only when the rate lookup itself fails; an exhausted search is a
// Result with an unresolved Strategy, not an error.
type Engine interface {
	Repair(ctx context.Context, batch Batch) (Result, error)
}
