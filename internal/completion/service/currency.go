package service

import (
	"context"

	invoicedomain "github.com/sielsystems/acumulus/internal/invoice/domain"
)

// euroCompletor converts the invoice totals to euros when the shop billed in
// another currency. Acumulus only books euros; line amounts stay in the shop
// currency, the converted totals are what gets reported.
type euroCompletor struct{}

func newEuroCompletor() *euroCompletor { return &euroCompletor{} }

func (c *euroCompletor) Name() string { return "ConvertToEuro" }

func (c *euroCompletor) Complete(_ context.Context, inv *invoicedomain.Invoice) error {
	cur, ok := inv.Currency()
	if !ok || !cur.ShouldConvert() {
		return nil
	}

	if t, ok := inv.Totals(); ok {
		inv.SetTotals(invoicedomain.Totals{
			AmountEx:  cur.ConvertAmount(t.AmountEx),
			AmountVat: cur.ConvertAmount(t.AmountVat),
			AmountInc: cur.ConvertAmount(t.AmountInc),
		})
	}
	inv.SetCurrency(invoicedomain.Currency{Code: "EUR", Rate: 1, DoConvert: false})
	return nil
}
