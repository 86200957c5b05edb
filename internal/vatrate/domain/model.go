// Package domain contains the legally valid VAT rates per country with
// temporal validity.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Rate kinds as published by the tax authorities.
const (
	KindStandard = "standard"
	KindReduced  = "reduced"
	KindZero     = "zero"
)

// VatRate is one legally valid VAT percentage for a country during a period.
// EffectiveTo is nil while the rate is still in force.
type VatRate struct {
	ID snowflake.ID `gorm:"primaryKey"`

	CountryCode string  `gorm:"type:text;not null;index:idx_vat_rates_country"`
	Kind        string  `gorm:"type:text;not null"`
	Percentage  float64 `gorm:"not null"`

	EffectiveFrom time.Time  `gorm:"type:date;not null;index"`
	EffectiveTo   *time.Time `gorm:"type:date;index"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (VatRate) TableName() string { return "vat_rates" }

func (r *VatRate) Validate() error {
	if r.CountryCode == "" {
		return ErrInvalidCountry
	}
	switch r.Kind {
	case KindStandard, KindReduced, KindZero:
	default:
		return ErrInvalidKind
	}
	if r.Percentage < 0 || r.Percentage > 100 {
		return ErrInvalidPercentage
	}
	if r.EffectiveTo != nil && r.EffectiveTo.Before(r.EffectiveFrom) {
		return ErrInvalidPeriod
	}
	return nil
}
