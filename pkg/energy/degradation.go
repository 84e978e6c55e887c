package energy

import (
	"math"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/validation"
)

// DefaultLifetimeYears is the analysis horizon used when none is given.
const DefaultLifetimeYears = 25

// Project returns yearly production over the lifetime, starting from the
// first-year value and compounding the degradation rate (percent per year).
// Index 0 is the first operating year.
func Project(baseKWh, degradationPct float64, lifetimeYears int) ([]float64, error) {
	if lifetimeYears < 0 {
		return nil, validation.Invalid("lifetime_years", lifetimeYears, "must not be negative")
	}
	if lifetimeYears == 0 {
		lifetimeYears = DefaultLifetimeYears
	}
	if degradationPct < 0 || degradationPct > 100 {
		return nil, validation.Invalid("degradation_pct", degradationPct, "must be within [0, 100]")
	}
	if baseKWh < 0 {
		return nil, validation.Invalid("base_production", baseKWh, "must not be negative")
	}

	keep := 1 - degradationPct/100
	out := make([]float64, lifetimeYears)
	for y := range out {
		out[y] = baseKWh * math.Pow(keep, float64(y))
	}
	return out, nil
}
