package service

import (
	"context"
	"testing"
	"time"

	invoicedomain "github.com/sielsystems/acumulus/internal/invoice/domain"
	vatrateservice "github.com/sielsystems/acumulus/internal/vatrate/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newVatRangeInvoice(lines ...*invoicedomain.Line) *invoicedomain.Invoice {
	inv := invoicedomain.NewInvoice()
	inv.MustSet(invoicedomain.PropIssueDate, time.Date(2017, 6, 1, 0, 0, 0, 0, time.UTC))
	inv.AddLine(lines...)
	return inv
}

func newRangeCompletor() *vatRangeCompletor {
	rates := vatrateservice.NewStaticProvider(map[string][]float64{
		"nl": {21, 6, 0},
	})
	return newVatRangeCompletor(rates, zap.NewNop())
}

func TestVatRange_ResolvesUniqueRate(t *testing.T) {
	// 2.10 of VAT on 10.00 ex can only be the 21% rate.
	line := invoicedomain.NewLine()
	line.MustSet(invoicedomain.PropProduct, "standard rated")
	line.SetUnitPrice(10.00)
	line.Metadata().Set(invoicedomain.MetaVatAmount, 2.10)

	inv := newVatRangeInvoice(line)
	err := newRangeCompletor().Complete(context.Background(), inv)
	assert.NoError(t, err)

	rate, ok := line.VatRate()
	assert.True(t, ok)
	assert.Equal(t, 21.0, rate)
	assert.Equal(t, invoicedomain.VatRateSourceCalculated, line.VatRateSource())

	min, _ := line.Metadata().FirstFloat(invoicedomain.MetaVatRateMin)
	max, _ := line.Metadata().FirstFloat(invoicedomain.MetaVatRateMax)
	assert.LessOrEqual(t, min, 21.0)
	assert.GreaterOrEqual(t, max, 21.0)
}

func TestVatRange_DerivesMissingField(t *testing.T) {
	// unitPrice and unitPriceInc given, vatAmount derived.
	line := invoicedomain.NewLine()
	line.MustSet(invoicedomain.PropProduct, "derived vat")
	line.SetUnitPrice(5.00)
	line.Metadata().Set(invoicedomain.MetaUnitPriceInc, 6.05)

	inv := newVatRangeInvoice(line)
	err := newRangeCompletor().Complete(context.Background(), inv)
	assert.NoError(t, err)

	vat, ok := line.Metadata().FirstFloat(invoicedomain.MetaVatAmount)
	assert.True(t, ok)
	assert.InDelta(t, 1.05, vat, 1e-9)
	calculated := line.Metadata().Get(invoicedomain.MetaFieldsCalculated)
	assert.Contains(t, calculated, invoicedomain.MetaVatAmount)

	rate, ok := line.VatRate()
	assert.True(t, ok)
	assert.Equal(t, 21.0, rate)
}

func TestVatRange_DerivesUnitPrice(t *testing.T) {
	line := invoicedomain.NewLine()
	line.MustSet(invoicedomain.PropProduct, "derived ex price")
	line.Metadata().Set(invoicedomain.MetaUnitPriceInc, 12.10)
	line.Metadata().Set(invoicedomain.MetaVatAmount, 2.10)

	inv := newVatRangeInvoice(line)
	err := newRangeCompletor().Complete(context.Background(), inv)
	assert.NoError(t, err)

	price, ok := line.UnitPrice()
	assert.True(t, ok)
	assert.InDelta(t, 10.00, price, 1e-9)
	assert.Contains(t,
		line.Metadata().Get(invoicedomain.MetaFieldsCalculated),
		invoicedomain.PropUnitPrice)
}

func TestVatRange_ZeroPriceIsIndeterminate(t *testing.T) {
	// A free line: 0/0 says nothing about the rate, it stays null.
	line := invoicedomain.NewLine()
	line.MustSet(invoicedomain.PropProduct, "free gift")
	line.SetUnitPrice(0)
	line.Metadata().Set(invoicedomain.MetaVatAmount, 0.0)

	inv := newVatRangeInvoice(line)
	err := newRangeCompletor().Complete(context.Background(), inv)
	assert.NoError(t, err)

	_, ok := line.VatRate()
	assert.False(t, ok)
	assert.Equal(t, invoicedomain.VatRateSourceCompletor, line.VatRateSource())
}

func TestVatRange_ZeroVatOnPricedLineIsExactZero(t *testing.T) {
	line := invoicedomain.NewLine()
	line.MustSet(invoicedomain.PropProduct, "zero rated")
	line.SetUnitPrice(25.00)
	line.Metadata().Set(invoicedomain.MetaVatAmount, 0.0)

	inv := newVatRangeInvoice(line)
	err := newRangeCompletor().Complete(context.Background(), inv)
	assert.NoError(t, err)

	rate, ok := line.VatRate()
	assert.True(t, ok)
	assert.Equal(t, 0.0, rate)
	assert.Equal(t, invoicedomain.VatRateSourceExact0, line.VatRateSource())
}

func TestVatRange_AmbiguousRangeStaysUnresolved(t *testing.T) {
	// A coarsely rounded vat amount makes the range so wide that both 6
	// and 21 fit: 0.15 +/- 0.10 over 1.00 spans 5% to 25%.
	line := invoicedomain.NewLine()
	line.MustSet(invoicedomain.PropProduct, "coarse vat")
	line.SetUnitPrice(1.00)
	line.Metadata().Set(invoicedomain.MetaVatAmount, 0.15)
	line.Metadata().Set(invoicedomain.MetaPrecisionVatAmount, 0.10)

	inv := newVatRangeInvoice(line)
	err := newRangeCompletor().Complete(context.Background(), inv)
	assert.NoError(t, err)

	_, ok := line.VatRate()
	assert.False(t, ok)
	src, _ := line.Metadata().FirstString(invoicedomain.MetaVatRateSource)
	assert.Equal(t, string(invoicedomain.VatRateSourceCalculated), src)
}

func TestVatRange_SkipsResolvedAndInsufficientLines(t *testing.T) {
	resolved := invoicedomain.NewLine()
	resolved.MustSet(invoicedomain.PropProduct, "already known")
	resolved.SetUnitPrice(10.00)
	resolved.SetVatRate(6, invoicedomain.VatRateSourceExact)

	bare := invoicedomain.NewLine()
	bare.MustSet(invoicedomain.PropProduct, "price only")
	bare.SetUnitPrice(10.00)

	inv := newVatRangeInvoice(resolved, bare)
	err := newRangeCompletor().Complete(context.Background(), inv)
	assert.NoError(t, err)

	rate, _ := resolved.VatRate()
	assert.Equal(t, 6.0, rate)
	_, ok := bare.VatRate()
	assert.False(t, ok)
	assert.False(t, bare.Metadata().Has(invoicedomain.MetaVatRateMin))
}
