package config

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Invoice-number sources.
const (
	InvoiceNrSourceShopInvoice = "shop_invoice"
	InvoiceNrSourceShopOrder   = "shop_order"
	InvoiceNrSourceAcumulus    = "acumulus"
)

// Margin-scheme modes.
const (
	MarginProductsUnknown = "unknown"
	MarginProductsNo      = "no"
	MarginProductsOnly    = "only"
	MarginProductsBoth    = "both"
)

// Shop nature: what kind of things the shop sells.
const (
	NatureShopUnknown = "unknown"
	NatureShopProduct = "product"
	NatureShopService = "service"
	NatureShopBoth    = "both"
)

// Settings is the completion configuration the completors consult.
type Settings struct {
	InvoiceNrSource       string  `mapstructure:"invoiceNrSource"`
	MarginProducts        string  `mapstructure:"marginProducts"`
	NatureShop            string  `mapstructure:"natureShop"`
	DefaultCustomerType   int     `mapstructure:"defaultCustomerType"`
	ContactStatus         int     `mapstructure:"contactStatus"`
	OverwriteIfExists     bool    `mapstructure:"overwriteIfExists"`
	VatTolerance          float64 `mapstructure:"vatTolerance"`
	MaxRepairCombinations int     `mapstructure:"maxRepairCombinations"`
}

// DefaultSettings are the values used when no completion.yml is present.
func DefaultSettings() Settings {
	return Settings{
		InvoiceNrSource:       InvoiceNrSourceShopInvoice,
		MarginProducts:        MarginProductsUnknown,
		NatureShop:            NatureShopUnknown,
		DefaultCustomerType:   3,
		ContactStatus:         1,
		OverwriteIfExists:     true,
		VatTolerance:          0.011,
		MaxRepairCombinations: 1_000_000,
	}
}

// SettingsHolder hands out the current completion settings and swaps them
// atomically on config-file reload.
type SettingsHolder struct {
	current atomic.Value // holds Settings
}

// NewSettingsHolder loads completion.yml (with defaults when absent),
// validates it, and watches the file for changes. Invalid reloads are
// ignored; invalid first loads fail.
func NewSettingsHolder() (*SettingsHolder, error) {
	v := viper.New()

	v.SetConfigName("completion")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/acumulus")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ACUMULUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultSettings()
	v.SetDefault("completion.invoiceNrSource", defaults.InvoiceNrSource)
	v.SetDefault("completion.marginProducts", defaults.MarginProducts)
	v.SetDefault("completion.natureShop", defaults.NatureShop)
	v.SetDefault("completion.defaultCustomerType", defaults.DefaultCustomerType)
	v.SetDefault("completion.contactStatus", defaults.ContactStatus)
	v.SetDefault("completion.overwriteIfExists", defaults.OverwriteIfExists)
	v.SetDefault("completion.vatTolerance", defaults.VatTolerance)
	v.SetDefault("completion.maxRepairCombinations", defaults.MaxRepairCombinations)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Settings
	if err := v.UnmarshalKey("completion", &cfg); err != nil {
		return nil, err
	}
	if err := ValidateSettings(cfg); err != nil {
		return nil, err
	}

	holder := &SettingsHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated Settings
		if err := v.UnmarshalKey("completion", &updated); err != nil {
			log.Printf("[completion-config] reload failed: %v", err)
			return
		}
		if err := ValidateSettings(updated); err != nil {
			log.Printf("[completion-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[completion-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticSettingsHolder wraps fixed settings; tests and library callers
// use it instead of a config file.
func NewStaticSettingsHolder(s Settings) *SettingsHolder {
	holder := &SettingsHolder{}
	holder.current.Store(s)
	return holder
}

// Get returns the current settings.
func (h *SettingsHolder) Get() Settings {
	return h.current.Load().(Settings)
}

// ValidateSettings rejects settings a completor could not act on.
func ValidateSettings(s Settings) error {
	switch s.InvoiceNrSource {
	case InvoiceNrSourceShopInvoice, InvoiceNrSourceShopOrder, InvoiceNrSourceAcumulus:
	default:
		return fmt.Errorf("completion.invoiceNrSource: unknown value %q", s.InvoiceNrSource)
	}
	switch s.MarginProducts {
	case MarginProductsUnknown, MarginProductsNo, MarginProductsOnly, MarginProductsBoth:
	default:
		return fmt.Errorf("completion.marginProducts: unknown value %q", s.MarginProducts)
	}
	switch s.NatureShop {
	case NatureShopUnknown, NatureShopProduct, NatureShopService, NatureShopBoth:
	default:
		return fmt.Errorf("completion.natureShop: unknown value %q", s.NatureShop)
	}
	if s.DefaultCustomerType < 1 || s.DefaultCustomerType > 3 {
		return fmt.Errorf("completion.defaultCustomerType: out of range %d", s.DefaultCustomerType)
	}
	if s.ContactStatus != 0 && s.ContactStatus != 1 {
		return fmt.Errorf("completion.contactStatus: out of range %d", s.ContactStatus)
	}
	if s.VatTolerance <= 0 {
		return fmt.Errorf("completion.vatTolerance: must be positive, got %g", s.VatTolerance)
	}
	if s.MaxRepairCombinations < 1 {
		return fmt.Errorf("completion.maxRepairCombinations: must be positive, got %d", s.MaxRepairCombinations)
	}
	return nil
}
