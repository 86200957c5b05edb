package service

import (
	"context"

	invoicedomain "github.com/sielsystems/acumulus/internal/invoice/domain"
	"github.com/sielsystems/acumulus/internal/num"
	vatratedomain "github.com/sielsystems/acumulus/internal/vatrate/domain"
	"github.com/sielsystems/acumulus/pkg/entity"
	"go.uber.org/zap"
)

// defaultPrecision is the half-width of the rounding interval assumed for a
// monetary field whose collector did not record one: rounded to cents.
const defaultPrecision = 0.005

// vatRangeCompletor derives a line's VAT rate, or at least its plausible
// range, from the rounded monetary fields the shop stored. It needs two of
// unitPrice, unitPriceInc and vatAmount; the third is derived. The range is
// then matched against the legally valid rates for the invoice's country
// and date; only a unique match resolves the line.
type vatRangeCompletor struct {
	rates vatratedomain.Provider
	log   *zap.Logger
}

func newVatRangeCompletor(rates vatratedomain.Provider, log *zap.Logger) *vatRangeCompletor {
	return &vatRangeCompletor{
		rates: rates,
		log:   log.Named("completion.vatrange"),
	}
}

func (c *vatRangeCompletor) Name() string { return "CompleteVatRange" }

func (c *vatRangeCompletor) Complete(ctx context.Context, inv *invoicedomain.Invoice) error {
	var legal []float64
	for _, line := range inv.Lines() {
		if _, resolved := line.VatRate(); resolved {
			continue
		}
		if !c.completeLine(line) {
			continue
		}
		// The line now carries a rate range; match it against the legal
		// rates, fetched once per invoice.
		if legal == nil {
			rates, err := c.rates.VatRates(ctx, inv.CountryCode(), inv.IssueDate())
			if err != nil {
				return err
			}
			legal = rates
		}
		c.matchRange(line, legal)
	}
	return nil
}

// completeLine derives missing monetary fields and either resolves the rate
// outright (zero cases) or attaches a rate range. It reports whether a range
// was attached.
func (c *vatRangeCompletor) completeLine(line *invoicedomain.Line) bool {
	meta := line.Metadata()

	unitPrice, haveUnitPrice := line.UnitPrice()
	unitPriceInc, haveInc := meta.FirstFloat(invoicedomain.MetaUnitPriceInc)
	vatAmount, haveVat := meta.FirstFloat(invoicedomain.MetaVatAmount)

	precisionPrice := precision(meta, invoicedomain.MetaPrecisionUnitPrice)
	precisionInc := precision(meta, invoicedomain.MetaPrecisionUnitPriceInc)
	precisionVat := precision(meta, invoicedomain.MetaPrecisionVatAmount)

	known := 0
	for _, have := range []bool{haveUnitPrice, haveInc, haveVat} {
		if have {
			known++
		}
	}
	if known < 2 {
		// Not enough evidence; leave the line for the repair engine or
		// manual review.
		return false
	}

	// Derive the missing field; its rounding uncertainty is the sum of the
	// uncertainties it was derived from.
	switch {
	case !haveVat:
		vatAmount = unitPriceInc - unitPrice
		precisionVat = precisionPrice + precisionInc
		meta.Set(invoicedomain.MetaVatAmount, vatAmount)
		meta.Set(invoicedomain.MetaPrecisionVatAmount, precisionVat)
		meta.Add(invoicedomain.MetaFieldsCalculated, invoicedomain.MetaVatAmount)
	case !haveInc:
		unitPriceInc = unitPrice + vatAmount
		precisionInc = precisionPrice + precisionVat
		meta.Set(invoicedomain.MetaUnitPriceInc, unitPriceInc)
		meta.Set(invoicedomain.MetaPrecisionUnitPriceInc, precisionInc)
		meta.Add(invoicedomain.MetaFieldsCalculated, invoicedomain.MetaUnitPriceInc)
	case !haveUnitPrice:
		unitPrice = unitPriceInc - vatAmount
		precisionPrice = precisionInc + precisionVat
		line.SetUnitPrice(unitPrice)
		meta.Set(invoicedomain.MetaPrecisionUnitPrice, precisionPrice)
		meta.Add(invoicedomain.MetaFieldsCalculated, invoicedomain.PropUnitPrice)
	}

	if num.IsZero(unitPrice, precisionPrice) {
		// A free line divides to anything; the rate is indeterminate here.
		meta.Set(invoicedomain.MetaVatRateSource, string(invoicedomain.VatRateSourceCompletor))
		return false
	}
	if num.IsZero(vatAmount, precisionVat) {
		line.SetVatRate(0, invoicedomain.VatRateSourceExact0)
		return false
	}

	r, err := num.DivisionRange(vatAmount, unitPrice, precisionVat, precisionPrice)
	if err != nil {
		// unitPrice passed the zero check but is exactly zero.
		meta.Set(invoicedomain.MetaVatRateSource, string(invoicedomain.VatRateSourceCompletor))
		return false
	}
	meta.Set(invoicedomain.MetaVatRateMin, 100*r.Min)
	meta.Set(invoicedomain.MetaVatRateMax, 100*r.Max)
	meta.Set(invoicedomain.MetaVatRateSource, string(invoicedomain.VatRateSourceCalculated))
	return true
}

// matchRange resolves the line when exactly one legal rate falls inside its
// range; zero or several matches leave it unresolved.
func (c *vatRangeCompletor) matchRange(line *invoicedomain.Line, legal []float64) {
	meta := line.Metadata()
	min, okMin := meta.FirstFloat(invoicedomain.MetaVatRateMin)
	max, okMax := meta.FirstFloat(invoicedomain.MetaVatRateMax)
	if !okMin || !okMax {
		return
	}

	var matches []float64
	for _, rate := range legal {
		if rate >= min && rate <= max {
			matches = append(matches, rate)
		}
	}
	if len(matches) == 1 {
		line.SetVatRate(matches[0], invoicedomain.VatRateSourceCalculated)
		return
	}
	c.log.Debug("vat range did not single out a rate",
		zap.Float64("min", min),
		zap.Float64("max", max),
		zap.Int("matches", len(matches)),
	)
}

func precision(meta *entity.Metadata, key string) float64 {
	if p, ok := meta.FirstFloat(key); ok && p >= 0 {
		return p
	}
	return defaultPrecision
}
