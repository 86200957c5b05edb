package service

import (
	"context"

	"github.com/sielsystems/acumulus/internal/config"
	invoicedomain "github.com/sielsystems/acumulus/internal/invoice/domain"
)

// customerCompletor sets the customer fields that come purely from
// configuration: type, contact status and the overwrite flag. Configuration
// is authoritative for these three, so they are always written.
type customerCompletor struct {
	settings *config.SettingsHolder
}

func newCustomerCompletor(settings *config.SettingsHolder) *customerCompletor {
	return &customerCompletor{settings: settings}
}

func (c *customerCompletor) Name() string { return "CompleteCustomerByConfig" }

func (c *customerCompletor) Complete(_ context.Context, inv *invoicedomain.Invoice) error {
	if inv.Customer == nil {
		return nil
	}
	settings := c.settings.Get()
	if err := inv.Customer.Set(invoicedomain.PropCustomerType, settings.DefaultCustomerType); err != nil {
		return err
	}
	if err := inv.Customer.Set(invoicedomain.PropContactStatus, settings.ContactStatus); err != nil {
		return err
	}
	return inv.Customer.Set(invoicedomain.PropOverwriteIfExists, settings.OverwriteIfExists)
}
