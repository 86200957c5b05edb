package service

import (
	"context"

	invoicedomain "github.com/sielsystems/acumulus/internal/invoice/domain"
)

// totalsCompletor computes the invoice totals from its lines when the
// collector did not supply them. Per-line VAT prefers the stored vat amount
// over a recomputation from the rate, so rounding done by the shop survives.
type totalsCompletor struct{}

func newTotalsCompletor() *totalsCompletor { return &totalsCompletor{} }

func (c *totalsCompletor) Name() string { return "CompleteTotals" }

func (c *totalsCompletor) Complete(_ context.Context, inv *invoicedomain.Invoice) error {
	if _, ok := inv.Totals(); ok {
		return nil
	}

	var t invoicedomain.Totals
	for _, line := range inv.Lines() {
		price, ok := line.UnitPrice()
		if !ok {
			continue
		}
		qty := line.Quantity()
		t.AmountEx += price * qty

		if vat, ok := line.Metadata().FirstFloat(invoicedomain.MetaVatAmount); ok {
			t.AmountVat += vat * qty
		} else if rate, ok := line.VatRate(); ok {
			t.AmountVat += price * qty * rate / 100
		}
	}
	t.AmountInc = t.AmountEx + t.AmountVat
	inv.SetTotals(t)
	return nil
}
