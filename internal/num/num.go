// Package num holds the float helpers the completion engine uses to reason
// about rounded monetary values from web shops.
package num

import (
	"errors"
	"math"
)

var ErrDivisionByZero = errors.New("division_by_zero")

// IsZero reports whether value is zero within the given absolute tolerance.
// Shop data is rounded, so "equal to zero" always means "within rounding
// noise of zero" here.
func IsZero(value, tolerance float64) bool {
	return math.Abs(value) <= tolerance
}

// FloatsAreEqual reports whether two rounded values agree within tolerance.
func FloatsAreEqual(a, b, tolerance float64) bool {
	return IsZero(a-b, tolerance)
}

// Range is the set of true ratios consistent with two rounded observations.
// Calculated is the naive point estimate; the truth lies in [Min, Max].
type Range struct {
	Min        float64
	Max        float64
	Calculated float64
}

// DivisionRange divides two rounded numbers while propagating their rounding
// uncertainty. The precisions are the half-width of each value's rounding
// interval (a value rounded to cents has precision 0.005). The result is the
// extremes over the four boundary combinations plus the naive quotient.
func DivisionRange(numerator, denominator, numeratorPrecision, denominatorPrecision float64) (Range, error) {
	if denominator == 0 {
		return Range{}, ErrDivisionByZero
	}

	numerators := [2]float64{numerator - numeratorPrecision, numerator + numeratorPrecision}
	denominators := [2]float64{denominator - denominatorPrecision, denominator + denominatorPrecision}

	r := Range{
		Min:        math.Inf(1),
		Max:        math.Inf(-1),
		Calculated: numerator / denominator,
	}
	for _, n := range numerators {
		for _, d := range denominators {
			if d == 0 {
				// The rounding interval touches zero; this boundary
				// contributes no finite ratio.
				continue
			}
			q := n / d
			r.Min = math.Min(r.Min, q)
			r.Max = math.Max(r.Max, q)
		}
	}
	// The boundary extremes always bracket the naive quotient unless the
	// denominator interval crosses zero; keep the invariant regardless.
	r.Min = math.Min(r.Min, r.Calculated)
	r.Max = math.Max(r.Max, r.Calculated)
	return r, nil
}
