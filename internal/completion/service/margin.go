package service

import (
	"context"

	"github.com/sielsystems/acumulus/internal/config"
	invoicedomain "github.com/sielsystems/acumulus/internal/invoice/domain"
)

// Margin-line treatments recorded under MetaMarginLine.
const (
	marginTreatmentMargin  = "margin"
	marginTreatmentNo      = "no"
	marginTreatmentUnknown = "unknown"
)

// marginCompletor rewrites margin-scheme lines. Under the margin scheme the
// selling price field must carry the price including VAT, with the purchase
// price alongside it; VAT is then due over the difference, which Acumulus
// computes. A line qualifies when it has a cost price and the shop is
// configured to sell margin goods.
type marginCompletor struct {
	settings *config.SettingsHolder
}

func newMarginCompletor(settings *config.SettingsHolder) *marginCompletor {
	return &marginCompletor{settings: settings}
}

func (c *marginCompletor) Name() string { return "CompleteMarginScheme" }

func (c *marginCompletor) Complete(_ context.Context, inv *invoicedomain.Invoice) error {
	mode := c.settings.Get().MarginProducts
	for _, line := range inv.Lines() {
		if _, ok := line.CostPrice(); !ok {
			continue
		}
		meta := line.Metadata()
		switch mode {
		case config.MarginProductsOnly, config.MarginProductsBoth:
			if inc, ok := meta.FirstFloat(invoicedomain.MetaUnitPriceInc); ok {
				line.SetUnitPrice(inc)
			}
			meta.Set(invoicedomain.MetaMarginLine, marginTreatmentMargin)
		case config.MarginProductsNo:
			meta.Set(invoicedomain.MetaMarginLine, marginTreatmentNo)
		default:
			meta.Set(invoicedomain.MetaMarginLine, marginTreatmentUnknown)
			inv.AddWarning("line has a cost price but margin handling is not configured")
		}
	}
	return nil
}
