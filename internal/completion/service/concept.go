package service

import (
	"context"

	invoicedomain "github.com/sielsystems/acumulus/internal/invoice/domain"
)

// conceptCompletor escalates an invoice that accumulated warnings to a
// concept. A concept is stored but not booked, so a human can review what
// the completors could not decide.
type conceptCompletor struct{}

func newConceptCompletor() *conceptCompletor { return &conceptCompletor{} }

func (c *conceptCompletor) Name() string { return "EscalateToConcept" }

func (c *conceptCompletor) Complete(_ context.Context, inv *invoicedomain.Invoice) error {
	if len(inv.Warnings()) == 0 {
		return nil
	}
	inv.MustSet(invoicedomain.PropConcept, true)
	return nil
}
