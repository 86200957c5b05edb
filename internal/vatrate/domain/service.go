package domain

import (
	"context"
	"time"
)

// Provider lists the legally valid VAT percentages for a country at a date,
// highest first. This is the lookup the range matcher and the repair engine
// build their candidate sets from.
type Provider interface {
	VatRates(ctx context.Context, countryCode string, at time.Time) ([]float64, error)
}

// Repository stores VAT rates.
type Repository interface {
	FindEffective(ctx context.Context, countryCode string, at time.Time) ([]VatRate, error)
	Create(ctx context.Context, rate *VatRate) error
}
