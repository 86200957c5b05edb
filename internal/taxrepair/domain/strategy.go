package domain

import (
	"strconv"
	"strings"
)

type strategyKind int

const (
	strategyUnresolved strategyKind = iota
	strategySameRate
	strategyPermutations
)

// Strategy identifies how a repair attempt concluded. It is a tagged value;
// the diagnostic string exists only at the reporting boundary (String).
type Strategy struct {
	kind  strategyKind
	rates []float64
}

// Unresolved is the failed outcome: no consistent assignment was found.
func Unresolved() Strategy {
	return Strategy{kind: strategyUnresolved}
}

// SameRate is the outcome of the uniform-rate strategy.
func SameRate(rate float64) Strategy {
	return Strategy{kind: strategySameRate, rates: []float64{rate}}
}

// Permutations is the outcome of the combinatorial search; rates are the
// distinct rates actually used, in order of first assignment.
func Permutations(rates ...float64) Strategy {
	return Strategy{kind: strategyPermutations, rates: rates}
}

// Resolved reports whether the attempt found an assignment.
func (s Strategy) Resolved() bool {
	return s.kind != strategyUnresolved
}

// Rates returns the rate(s) the strategy used.
func (s Strategy) Rates() []float64 {
	out := make([]float64, len(s.rates))
	copy(out, s.rates)
	return out
}

// String renders the diagnostic form, e.g. "ApplySameTaxRate(21)" or
// "TryAllTaxRatePermutations(21, 6)".
func (s Strategy) String() string {
	switch s.kind {
	case strategySameRate:
		return "ApplySameTaxRate(" + formatRates(s.rates) + ")"
	case strategyPermutations:
		return "TryAllTaxRatePermutations(" + formatRates(s.rates) + ")"
	default:
		return "Unresolved"
	}
}

func formatRates(rates []float64) string {
	parts := make([]string, len(rates))
	for i, r := range rates {
		parts[i] = strconv.FormatFloat(r, 'f', -1, 64)
	}
	return strings.Join(parts, ", ")
}
