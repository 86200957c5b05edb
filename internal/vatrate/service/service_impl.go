package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sielsystems/acumulus/internal/vatrate/domain"
	"go.uber.org/fx"
)

type provider struct {
	repo domain.Repository
}

type ProviderParam struct {
	fx.In

	Repository domain.Repository
}

// NewProvider backs the rate lookup with the vat_rates table.
func NewProvider(p ProviderParam) domain.Provider {
	return &provider{repo: p.Repository}
}

func (p *provider) VatRates(ctx context.Context, countryCode string, at time.Time) ([]float64, error) {
	rates, err := p.repo.FindEffective(ctx, countryCode, at)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(rates))
	for _, r := range rates {
		if containsRate(out, r.Percentage) {
			continue
		}
		out = append(out, r.Percentage)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return out, nil
}

// StaticProvider serves a fixed per-country rate table; library callers and
// tests inject rates directly instead of running a database.
type StaticProvider struct {
	rates map[string][]float64
}

// NewStaticProvider copies the given country to percentages table.
func NewStaticProvider(rates map[string][]float64) *StaticProvider {
	copied := make(map[string][]float64, len(rates))
	for cc, rs := range rates {
		list := make([]float64, len(rs))
		copy(list, rs)
		sort.Sort(sort.Reverse(sort.Float64Slice(list)))
		copied[strings.ToLower(cc)] = list
	}
	return &StaticProvider{rates: copied}
}

func (p *StaticProvider) VatRates(_ context.Context, countryCode string, _ time.Time) ([]float64, error) {
	rs := p.rates[strings.ToLower(countryCode)]
	out := make([]float64, len(rs))
	copy(out, rs)
	return out, nil
}

func containsRate(rates []float64, rate float64) bool {
	for _, r := range rates {
		if r == rate {
			return true
		}
	}
	return false
}
