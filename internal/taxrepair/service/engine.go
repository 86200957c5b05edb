package service

import (
	"context"
	"sort"

	"github.com/sielsystems/acumulus/internal/config"
	invoicedomain "github.com/sielsystems/acumulus/internal/invoice/domain"
	"github.com/sielsystems/acumulus/internal/num"
	"github.com/sielsystems/acumulus/internal/taxrepair/domain"
	vatratedomain "github.com/sielsystems/acumulus/internal/vatrate/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Engine reconciles unresolved lines against the order's tax totals. It
// first tries a single uniform rate over all lines, then falls back to an
// exhaustive search over all rate combinations. It never guesses: when the
// search is exhausted the result is unresolved and the lines keep their
// null rate.
type Engine struct {
	log      *zap.Logger
	rates    vatratedomain.Provider
	settings *config.SettingsHolder
}

type EngineParam struct {
	fx.In

	Log      *zap.Logger
	Rates    vatratedomain.Provider
	Settings *config.SettingsHolder
}

func NewEngine(p EngineParam) domain.Engine {
	return &Engine{
		log:      p.Log.Named("taxrepair.engine"),
		rates:    p.Rates,
		settings: p.Settings,
	}
}

func (e *Engine) Repair(ctx context.Context, batch domain.Batch) (domain.Result, error) {
	if len(batch.Lines) == 0 {
		e.log.Warn("repair called with empty batch")
		return domain.Result{Strategy: domain.Unresolved()}, nil
	}

	settings := e.settings.Get()
	tolerance := settings.VatTolerance

	legal, err := e.rates.VatRates(ctx, batch.CountryCode, batch.Date)
	if err != nil {
		return domain.Result{}, err
	}
	candidates := candidateRates(legal, batch.ProductTaxes)
	if len(candidates) == 0 {
		e.log.Warn("no candidate rates",
			zap.String("country", batch.CountryCode),
			zap.Time("date", batch.Date),
		)
		return domain.Result{Strategy: domain.Unresolved()}, nil
	}

	target := batch.Target()

	if result, ok := applySameTaxRate(batch.Lines, candidates, target, tolerance); ok {
		e.log.Info("repair resolved",
			zap.Stringer("strategy", result.Strategy),
			zap.Float64("target", target),
		)
		return result, nil
	}

	if result, ok := tryAllTaxRatePermutations(batch.Lines, candidates, target, tolerance, settings.MaxRepairCombinations); ok {
		e.log.Info("repair resolved",
			zap.Stringer("strategy", result.Strategy),
			zap.Float64("target", target),
		)
		return result, nil
	}

	e.log.Warn("repair exhausted without a consistent assignment",
		zap.Int("lines", len(batch.Lines)),
		zap.Int("candidateRates", len(candidates)),
		zap.Float64("target", target),
	)
	return domain.Result{Strategy: domain.Unresolved()}, nil
}

// candidateRates orders the search space: legally valid rates highest first,
// then rates already observed on resolved lines of the same order.
func candidateRates(legal []float64, productTaxes map[float64]float64) []float64 {
	candidates := make([]float64, 0, len(legal)+len(productTaxes))
	for _, r := range legal {
		if !containsRate(candidates, r) {
			candidates = append(candidates, r)
		}
	}

	observed := make([]float64, 0, len(productTaxes))
	for r := range productTaxes {
		observed = append(observed, r)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(observed)))
	for _, r := range observed {
		if !containsRate(candidates, r) {
			candidates = append(candidates, r)
		}
	}
	return candidates
}

// applySameTaxRate assumes every line carries the same rate.
func applySameTaxRate(lines []*invoicedomain.Line, candidates []float64, target, tolerance float64) (domain.Result, bool) {
	for _, rate := range candidates {
		total := 0.0
		for _, line := range lines {
			total += lineTax(line, rate)
		}
		if num.FloatsAreEqual(total, target, tolerance) {
			rates := make([]float64, len(lines))
			for i := range rates {
				rates[i] = rate
			}
			return domain.Result{Strategy: domain.SameRate(rate), Rates: rates}, true
		}
	}
	return domain.Result{}, false
}

// tryAllTaxRatePermutations enumerates the full Cartesian product of
// candidate rates over the lines, first line varying slowest. The space is
// rates^lines; above maxCombinations it fails fast instead of hanging.
func tryAllTaxRatePermutations(lines []*invoicedomain.Line, candidates []float64, target, tolerance float64, maxCombinations int) (domain.Result, bool) {
	combinations := 1
	for range lines {
		combinations *= len(candidates)
		if combinations > maxCombinations {
			return domain.Result{}, false
		}
	}

	indices := make([]int, len(lines))
	for {
		total := 0.0
		for i, line := range lines {
			total += lineTax(line, candidates[indices[i]])
		}
		if num.FloatsAreEqual(total, target, tolerance) {
			rates := make([]float64, len(lines))
			for i := range lines {
				rates[i] = candidates[indices[i]]
			}
			return domain.Result{Strategy: domain.Permutations(distinctRates(rates)...), Rates: rates}, true
		}

		// Odometer increment: last line varies fastest.
		i := len(indices) - 1
		for ; i >= 0; i-- {
			indices[i]++
			if indices[i] < len(candidates) {
				break
			}
			indices[i] = 0
		}
		if i < 0 {
			return domain.Result{}, false
		}
	}
}

func lineTax(line *invoicedomain.Line, rate float64) float64 {
	price, ok := line.UnitPrice()
	if !ok {
		return 0
	}
	return price * line.Quantity() * rate / 100
}

// distinctRates keeps the order of first assignment.
func distinctRates(rates []float64) []float64 {
	out := make([]float64, 0, len(rates))
	for _, r := range rates {
		if !containsRate(out, r) {
			out = append(out, r)
		}
	}
	return out
}

func containsRate(rates []float64, rate float64) bool {
	for _, r := range rates {
		if r == rate {
			return true
		}
	}
	return false
}
