// Package domain defines the completion-task contract: an ordered set of
// idempotent completors that fill in or correct fields on an invoice built
// by a shop-specific collector.
package domain

import (
	"context"

	invoicedomain "github.com/sielsystems/acumulus/internal/invoice/domain"
	taxrepairdomain "github.com/sielsystems/acumulus/internal/taxrepair/domain"
)

// Completor is one completion task. Complete mutates the invoice in place.
// A completor never removes non-null properties it did not set itself, and
// missing input data is a silent no-op, not an error.
type Completor interface {
	Name() string
	Complete(ctx context.Context, inv *invoicedomain.Invoice) error
}

// Result is the outcome of a full pipeline run.
type Result struct {
	Invoice  *invoicedomain.Invoice
	Warnings []string

	// RepairStrategy reports how the tax-rate repair engine concluded, when
	// it ran. Zero value means it was not needed.
	RepairStrategy taxrepairdomain.Strategy
	RepairRan      bool
}

// Service runs the full ordered completion pipeline for invoices.
type Service interface {
	Complete(ctx context.Context, inv *invoicedomain.Invoice) (*Result, error)
}
