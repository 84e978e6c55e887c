package finance

import "math"

// AnnualDebtService uses the standard annuity formula
// P * r(1+r)^n / ((1+r)^n - 1) with ratePct as a percentage.
// At 0% interest it returns principal / term.
func AnnualDebtService(principal, ratePct float64, termYears int) float64 {
	if termYears <= 0 || principal <= 0 {
		return 0
	}
	rate := ratePct / 100
	if rate <= 0 {
		return principal / float64(termYears)
	}
	n := float64(termYears)
	factor := math.Pow(1+rate, n)
	return principal * rate * factor / (factor - 1)
}
