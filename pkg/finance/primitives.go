package finance

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/validation"
)

// LCOE returns the levelized cost of energy per kWh:
// (systemCost + opCost*lifetime) / (annualEnergy*lifetime).
func LCOE(systemCost, annualEnergyKWh, annualOpCost float64, lifetimeYears int) (float64, error) {
	if lifetimeYears <= 0 {
		return 0, validation.Invalid("lifetime_years", lifetimeYears, "must be greater than 0")
	}
	if annualEnergyKWh <= 0 {
		return 0, &validation.DomainError{Op: "lcoe", Reason: "annual energy must be greater than 0"}
	}
	n := float64(lifetimeYears)
	return (systemCost + annualOpCost*n) / (annualEnergyKWh * n), nil
}

// CashFlows builds the yearly cash-flow series. Index 0 is the initial outlay
// net of incentives; index i+1 is revenue[i] - opCost[i].
func CashFlows(initialInvestment float64, revenue, opCost []float64, incentives float64) ([]float64, error) {
	if len(revenue) != len(opCost) {
		return nil, validation.Invalid("cash_flows", fmt.Sprintf("%d revenue / %d cost", len(revenue), len(opCost)),
			"revenue and operating cost series must have equal length")
	}
	flows := make([]float64, len(revenue)+1)
	flows[0] = incentives - initialInvestment
	for i := range revenue {
		flows[i+1] = revenue[i] - opCost[i]
	}
	return flows, nil
}

// Cumulative returns the running sum of flows.
func Cumulative(flows []float64) []float64 {
	if len(flows) == 0 {
		return []float64{}
	}
	return floats.CumSum(make([]float64, len(flows)), flows)
}

// NPV discounts yearly[0..years-1] as years 1..years and subtracts the
// initial investment. discountRatePct is a percentage.
func NPV(initialInvestment float64, yearly []float64, discountRatePct float64, years int) (float64, error) {
	if years < 0 || years > len(yearly) {
		return 0, validation.Invalid("years", years, fmt.Sprintf("must be within [0, %d]", len(yearly)))
	}
	if discountRatePct <= -100 {
		return 0, validation.Invalid("discount_rate_pct", discountRatePct, "must be greater than -100")
	}
	return npvAt(initialInvestment, yearly[:years], discountRatePct/100), nil
}

func npvAt(initial float64, yearly []float64, rate float64) float64 {
	sum := -initial
	factor := 1.0
	for _, cf := range yearly {
		factor *= 1 + rate
		sum += cf / factor
	}
	return sum
}

// IRR returns the internal rate of return in percent: the rate at which the
// NPV of yearly (years 1..n) equals initialInvestment. Newton-Raphson runs
// first; bisection over [IRRLowerBound, IRRUpperBound] is the fallback.
func IRR(initialInvestment float64, yearly []float64) (float64, error) {
	if len(yearly) == 0 {
		return 0, validation.Invalid("cash_flows", 0, "need at least one yearly cash flow")
	}
	f := func(r float64) float64 { return npvAt(initialInvestment, yearly, r) }

	if r, ok := newton(f); ok {
		return r * 100, nil
	}
	if r, ok := bisect(f, IRRLowerBound, IRRUpperBound); ok {
		return r * 100, nil
	}
	return 0, &validation.ConvergenceError{Method: "irr", Iterations: 2 * IRRMaxIterations}
}

func newton(f func(float64) float64) (float64, bool) {
	r := IRRSeed
	for i := 0; i < IRRMaxIterations; i++ {
		v := f(r)
		if math.Abs(v) < IRRTolerance {
			return r, true
		}
		h := irrDerivativeStep
		d := (f(r+h) - f(r-h)) / (2 * h)
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return 0, false
		}
		r -= v / d
		if r <= IRRLowerBound || r > IRRUpperBound || math.IsNaN(r) {
			return 0, false
		}
	}
	return 0, false
}

func bisect(f func(float64) float64, lo, hi float64) (float64, bool) {
	flo, fhi := f(lo), f(hi)
	if math.Abs(flo) < IRRTolerance {
		return lo, true
	}
	if math.Abs(fhi) < IRRTolerance {
		return hi, true
	}
	if flo*fhi > 0 {
		return 0, false
	}
	for i := 0; i < 2*IRRMaxIterations; i++ {
		mid := (lo + hi) / 2
		fm := f(mid)
		if math.Abs(fm) < IRRTolerance || hi-lo < irrBracketWidth {
			return mid, true
		}
		if (fm < 0) == (flo < 0) {
			lo, flo = mid, fm
		} else {
			hi = mid
		}
	}
	return 0, false
}

// Payback is the time until cumulative cash flow turns non-negative.
type Payback struct {
	Reached bool    `json:"reached"`
	Years   int     `json:"years"`
	Months  int     `json:"months"`
	Exact   float64 `json:"exact_years"`
}

func (p Payback) String() string {
	if !p.Reached {
		return "not reached"
	}
	return fmt.Sprintf("%d years %d months", p.Years, p.Months)
}

// PaybackPeriod finds the first index k with cumulative[k] >= 0 and
// interpolates the months within year k from yearly[k]. A series that never
// turns non-negative returns Reached=false rather than an error.
func PaybackPeriod(cumulative, yearly []float64) Payback {
	for k, c := range cumulative {
		if c < 0 {
			continue
		}
		if k == 0 {
			return Payback{Reached: true}
		}
		if k >= len(yearly) || yearly[k] <= 0 {
			return Payback{Reached: true, Years: k, Exact: float64(k)}
		}
		frac := math.Abs(cumulative[k-1]) / yearly[k]
		years, months := k-1, int(math.Round(12*frac))
		if months >= 12 {
			years++
			months -= 12
		}
		return Payback{Reached: true, Years: years, Months: months, Exact: float64(k-1) + frac}
	}
	return Payback{}
}
