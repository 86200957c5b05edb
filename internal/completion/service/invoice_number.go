package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sielsystems/acumulus/internal/config"
	invoicedomain "github.com/sielsystems/acumulus/internal/invoice/domain"
)

// invoiceNumberCompletor derives the invoice number from the configured
// source and strips everything that is not a digit, because Acumulus only
// accepts numeric invoice numbers.
type invoiceNumberCompletor struct {
	settings *config.SettingsHolder
}

func newInvoiceNumberCompletor(settings *config.SettingsHolder) *invoiceNumberCompletor {
	return &invoiceNumberCompletor{settings: settings}
}

func (c *invoiceNumberCompletor) Name() string { return "CompleteInvoiceNumber" }

func (c *invoiceNumberCompletor) Complete(_ context.Context, inv *invoicedomain.Invoice) error {
	var reference string
	switch source := c.settings.Get().InvoiceNrSource; source {
	case config.InvoiceNrSourceShopInvoice:
		reference, _ = inv.Metadata().FirstString(invoicedomain.MetaShopInvoiceReference)
		if reference == "" {
			// No invoice reference yet (the shop numbers invoices later):
			// fall back to the order reference.
			reference, _ = inv.Metadata().FirstString(invoicedomain.MetaShopOrderReference)
		}
	case config.InvoiceNrSourceShopOrder:
		reference, _ = inv.Metadata().FirstString(invoicedomain.MetaShopOrderReference)
	case config.InvoiceNrSourceAcumulus:
		// Acumulus assigns the number itself.
		return nil
	default:
		// The settings holder validates on load; reaching this means a
		// corrupt caller, not corrupt data.
		panic(fmt.Sprintf("invoiceNumberCompletor: unknown invoiceNrSource %q", source))
	}

	number := digitsOnly(reference)
	if number == "" {
		return nil
	}
	return inv.Set(invoicedomain.PropNumber, number)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
