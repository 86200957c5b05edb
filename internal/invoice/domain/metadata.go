package domain

// Metadata keys used by collectors and completors. Line-level monetary
// metadata carries a precision companion: the half-width of the rounding
// interval of that field as stored by the shop.
const (
	MetaTotals   = "totals"
	MetaCurrency = "currency"

	MetaUnitPriceInc = "unitPriceInc"
	MetaVatAmount    = "vatAmount"

	MetaPrecisionUnitPrice    = "precisionUnitPrice"
	MetaPrecisionUnitPriceInc = "precisionUnitPriceInc"
	MetaPrecisionVatAmount    = "precisionVatAmount"

	MetaVatRateMin    = "vatRateMin"
	MetaVatRateMax    = "vatRateMax"
	MetaVatRateSource = "vatRateSource"

	// MetaFieldsCalculated lists, one value per field, the monetary fields a
	// completor derived rather than read from shop data.
	MetaFieldsCalculated = "fieldsCalculated"

	// MetaMarginLine records the margin-scheme treatment of a line.
	MetaMarginLine = "marginLine"

	MetaShopInvoiceReference = "shopInvoiceReference"
	MetaShopOrderReference   = "shopOrderReference"

	// MetaShopTaxLineTotals holds, multi-valued, the order-level tax bucket
	// totals the shop reported.
	MetaShopTaxLineTotals = "shopTaxLineTotals"

	// MetaRepairStrategy holds the tax-repair outcome for diagnostics.
	MetaRepairStrategy = "taxRepairStrategy"

	// MetaWarning collects, multi-valued, completion warnings for the caller.
	MetaWarning = "warning"
)

// VatRateSource tags how a line's VAT rate was resolved.
type VatRateSource string

const (
	// VatRateSourceNone means no completor has looked at the line yet.
	VatRateSourceNone VatRateSource = ""
	// VatRateSourceExact means the shop supplied the rate itself.
	VatRateSourceExact VatRateSource = "exact"
	// VatRateSourceExact0 means a zero VAT amount over a non-zero price
	// fixed the rate at exactly 0.
	VatRateSourceExact0 VatRateSource = "exact0"
	// VatRateSourceCalculated means the rate was matched against the range
	// derived from rounded monetary fields.
	VatRateSourceCalculated VatRateSource = "calculated"
	// VatRateSourceCompletor means the completor looked but could not
	// decide; the line goes to the repair engine or manual review.
	VatRateSourceCompletor VatRateSource = "completor"
	// VatRateSourceStrategy means the tax-rate repair engine assigned the
	// rate.
	VatRateSourceStrategy VatRateSource = "strategy"
)

// Totals is the invoice-level amounts record kept in metadata.
type Totals struct {
	AmountEx  float64
	AmountVat float64
	AmountInc float64
}

// Currency describes the invoice currency and how to get back to euros.
// Rate is the amount of invoice currency one euro buys.
type Currency struct {
	Code      string
	Rate      float64
	DoConvert bool
}

// ShouldConvert reports whether amounts still need conversion to euros.
func (c Currency) ShouldConvert() bool {
	return c.DoConvert && c.Rate > 0 && c.Code != "" && c.Code != "EUR"
}

// ConvertAmount converts an amount in the invoice currency to euros.
func (c Currency) ConvertAmount(amount float64) float64 {
	return amount / c.Rate
}

// SetTotals stores the totals record in invoice metadata.
func (i *Invoice) SetTotals(t Totals) {
	i.Metadata().Set(MetaTotals, t)
}

// Totals returns the totals record, false when no collector or completor has
// computed one yet.
func (i *Invoice) Totals() (Totals, bool) {
	v, ok := i.Metadata().First(MetaTotals)
	if !ok {
		return Totals{}, false
	}
	t, ok := v.(Totals)
	return t, ok
}

// SetCurrency stores the currency record in invoice metadata.
func (i *Invoice) SetCurrency(c Currency) {
	i.Metadata().Set(MetaCurrency, c)
}

// Currency returns the currency record, false when absent (absent means
// euros, no conversion).
func (i *Invoice) Currency() (Currency, bool) {
	v, ok := i.Metadata().First(MetaCurrency)
	if !ok {
		return Currency{}, false
	}
	c, ok := v.(Currency)
	return c, ok
}

// AddWarning records a completion warning on the invoice.
func (i *Invoice) AddWarning(msg string) {
	i.Metadata().Add(MetaWarning, msg)
}

// Warnings returns the accumulated completion warnings.
func (i *Invoice) Warnings() []string {
	vs := i.Metadata().Get(MetaWarning)
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
