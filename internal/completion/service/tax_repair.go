package service

import (
	"context"

	invoicedomain "github.com/sielsystems/acumulus/internal/invoice/domain"
	taxrepairdomain "github.com/sielsystems/acumulus/internal/taxrepair/domain"
	"go.uber.org/zap"
)

// taxRepairCompletor is the last resort for lines the range completor could
// not resolve: it hands them to the repair engine together with the order's
// tax bucket totals and applies the rate assignment the engine found.
type taxRepairCompletor struct {
	engine taxrepairdomain.Engine
	log    *zap.Logger
}

func newTaxRepairCompletor(engine taxrepairdomain.Engine, log *zap.Logger) *taxRepairCompletor {
	return &taxRepairCompletor{
		engine: engine,
		log:    log.Named("completion.taxrepair"),
	}
}

func (c *taxRepairCompletor) Name() string { return "CompleteTaxRateByRepair" }

func (c *taxRepairCompletor) Complete(ctx context.Context, inv *invoicedomain.Invoice) error {
	var unresolved []*invoicedomain.Line
	productTaxes := make(map[float64]float64)
	for _, line := range inv.Lines() {
		rate, ok := line.VatRate()
		if !ok {
			unresolved = append(unresolved, line)
			continue
		}
		if price, ok := line.UnitPrice(); ok {
			productTaxes[rate] += price * line.Quantity() * rate / 100
		}
	}
	if len(unresolved) == 0 {
		return nil
	}

	taxLineTotals := inv.Metadata().Floats(invoicedomain.MetaShopTaxLineTotals)
	if len(taxLineTotals) == 0 {
		inv.AddWarning("lines with unknown vat rate and no shop tax totals to repair against")
		return nil
	}

	batch := taxrepairdomain.Batch{
		Lines:         unresolved,
		ProductTaxes:  productTaxes,
		TaxLineTotals: taxLineTotals,
		CountryCode:   inv.CountryCode(),
		Date:          inv.IssueDate(),
	}
	result, err := c.engine.Repair(ctx, batch)
	if err != nil {
		return err
	}
	inv.Metadata().Set(invoicedomain.MetaRepairStrategy, result.Strategy)

	if !result.Strategy.Resolved() {
		inv.AddWarning("vat rates could not be repaired from the shop tax totals")
		return nil
	}
	for i, line := range unresolved {
		line.SetVatRate(result.Rates[i], invoicedomain.VatRateSourceStrategy)
	}
	c.log.Info("tax repair applied",
		zap.String("strategy", result.Strategy.String()),
		zap.Int("lines", len(unresolved)),
	)
	return nil
}
