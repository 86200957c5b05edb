// Package domain defines the working set and result types of the tax-rate
// repair engine.
package domain

import (
	"time"

	invoicedomain "github.com/sielsystems/acumulus/internal/invoice/domain"
)

// Batch is the working set for one repair attempt: the lines whose VAT rate
// is still unknown, plus the financial evidence that constrains them. The
// engine never mutates a batch; it returns rate assignments for the caller
// to apply.
type Batch struct {
	// Lines are the unresolved lines, in billing order.
	Lines []*invoicedomain.Line

	// ProductTaxes maps an already-resolved rate to the tax amount already
	// attributed to that rate elsewhere in the same order.
	ProductTaxes map[float64]float64

	// TaxLineTotals are the order-level tax bucket totals still to be
	// explained.
	TaxLineTotals []float64

	// CountryCode and Date select the set of legally valid rates.
	CountryCode string
	Date        time.Time
}

// Target is the tax amount that must be accounted for purely by the
// unresolved lines.
func (b Batch) Target() float64 {
	target := 0.0
	for _, t := range b.TaxLineTotals {
		target += t
	}
	for _, t := range b.ProductTaxes {
		target -= t
	}
	return target
}
