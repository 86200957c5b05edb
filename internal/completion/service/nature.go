package service

import (
	"context"

	"github.com/sielsystems/acumulus/internal/config"
	invoicedomain "github.com/sielsystems/acumulus/internal/invoice/domain"
)

// natureCompletor fills the nature of lines the collector left open. It only
// acts when the shop sells one kind of thing; a shop selling both cannot be
// decided from configuration.
type natureCompletor struct {
	settings *config.SettingsHolder
}

func newNatureCompletor(settings *config.SettingsHolder) *natureCompletor {
	return &natureCompletor{settings: settings}
}

func (c *natureCompletor) Name() string { return "CompleteLineNature" }

func (c *natureCompletor) Complete(_ context.Context, inv *invoicedomain.Invoice) error {
	var nature string
	switch c.settings.Get().NatureShop {
	case config.NatureShopProduct:
		nature = invoicedomain.NatureProduct
	case config.NatureShopService:
		nature = invoicedomain.NatureService
	default:
		return nil
	}

	for _, line := range inv.Lines() {
		if line.IsSet(invoicedomain.PropNature) {
			continue
		}
		if err := line.Set(invoicedomain.PropNature, nature); err != nil {
			return err
		}
	}
	return nil
}
