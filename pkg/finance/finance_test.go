package finance

import (
	"errors"
	"math"
	"testing"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/spec"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/validation"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func constant(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestLCOE(t *testing.T) {
	got, err := LCOE(25000, 15000, 200, 25)
	if err != nil {
		t.Fatalf("LCOE failed: %v", err)
	}
	if !approxEqual(got, 0.08, 1e-12) {
		t.Errorf("lcoe = %f, want 0.08", got)
	}
}

func TestLCOEZeroEnergy(t *testing.T) {
	_, err := LCOE(25000, 0, 200, 25)
	if !errors.Is(err, validation.ErrDomain) {
		t.Errorf("expected DomainError, got %v", err)
	}
	_, err = LCOE(25000, 1000, 200, 0)
	if !errors.Is(err, validation.ErrValidation) {
		t.Errorf("expected ValidationError for zero lifetime, got %v", err)
	}
}

func TestCashFlows(t *testing.T) {
	flows, err := CashFlows(10000, []float64{3000, 3500}, []float64{500, 600}, 2000)
	if err != nil {
		t.Fatalf("CashFlows failed: %v", err)
	}
	want := []float64{-8000, 2500, 2900}
	for i := range want {
		if !approxEqual(flows[i], want[i], 1e-9) {
			t.Errorf("flows[%d] = %f, want %f", i, flows[i], want[i])
		}
	}
}

func TestCashFlowsLengthMismatch(t *testing.T) {
	_, err := CashFlows(10000, []float64{1, 2, 3}, []float64{1, 2}, 0)
	if !errors.Is(err, validation.ErrValidation) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestCumulativeMatchesPrefixSums(t *testing.T) {
	flows := []float64{-12000, 1500.5, 1710.25, -300, 2200, 0, 1999.99}
	cum := Cumulative(flows)
	sum := 0.0
	for i, f := range flows {
		sum += f
		if !approxEqual(cum[i], sum, 1e-9) {
			t.Errorf("cumulative[%d] = %f, want %f", i, cum[i], sum)
		}
	}
	if len(Cumulative(nil)) != 0 {
		t.Error("cumulative of empty series should be empty")
	}
}

func TestPaybackWholeYears(t *testing.T) {
	flows, _ := CashFlows(20000, constant(4000, 25), constant(0, 25), 0)
	p := PaybackPeriod(Cumulative(flows), flows)
	if !p.Reached || p.Years != 5 || p.Months != 0 {
		t.Errorf("payback = %+v, want 5 years 0 months", p)
	}
}

func TestPaybackPartialYear(t *testing.T) {
	flows, _ := CashFlows(10000, constant(4000, 10), constant(0, 10), 0)
	p := PaybackPeriod(Cumulative(flows), flows)
	if !p.Reached || p.Years != 2 || p.Months != 6 {
		t.Errorf("payback = %+v, want 2 years 6 months", p)
	}
	if !approxEqual(p.Exact, 2.5, 1e-9) {
		t.Errorf("exact payback = %f, want 2.5", p.Exact)
	}
}

func TestPaybackNotReached(t *testing.T) {
	flows, _ := CashFlows(1_000_000, constant(100, 25), constant(0, 25), 0)
	p := PaybackPeriod(Cumulative(flows), flows)
	if p.Reached {
		t.Errorf("payback should not be reached, got %+v", p)
	}
	if p.String() != "not reached" {
		t.Errorf("unexpected string: %s", p.String())
	}
}

func TestPaybackImmediate(t *testing.T) {
	flows := []float64{500, 100}
	p := PaybackPeriod(Cumulative(flows), flows)
	if !p.Reached || p.Years != 0 || p.Months != 0 {
		t.Errorf("payback = %+v, want immediate", p)
	}
}

func TestNPV(t *testing.T) {
	got, err := NPV(1000, []float64{1100}, 10, 1)
	if err != nil {
		t.Fatalf("NPV failed: %v", err)
	}
	if !approxEqual(got, 0, 1e-9) {
		t.Errorf("npv = %f, want 0", got)
	}

	// A per-year series is discounted year by year.
	got, _ = NPV(0, []float64{110, 121}, 10, 2)
	if !approxEqual(got, 200, 1e-9) {
		t.Errorf("npv = %f, want 200", got)
	}
}

func TestNPVUsesEachYearsFlow(t *testing.T) {
	varying := []float64{1000, 2000, 3000}
	flat := constant(2000, 3)
	a, _ := NPV(0, varying, 8, 3)
	b, _ := NPV(0, flat, 8, 3)
	if approxEqual(a, b, 1e-6) {
		t.Error("varying and constant series with equal totals should discount differently")
	}
}

func TestNPVValidation(t *testing.T) {
	if _, err := NPV(0, []float64{1, 2}, 5, 3); !errors.Is(err, validation.ErrValidation) {
		t.Errorf("expected ValidationError for years > len, got %v", err)
	}
	if _, err := NPV(0, []float64{1, 2}, -100, 2); !errors.Is(err, validation.ErrValidation) {
		t.Errorf("expected ValidationError for -100%% rate, got %v", err)
	}
}

func TestIRRSingleYear(t *testing.T) {
	got, err := IRR(1000, []float64{1100})
	if err != nil {
		t.Fatalf("IRR failed: %v", err)
	}
	if !approxEqual(got, 10, 1e-4) {
		t.Errorf("irr = %f%%, want 10%%", got)
	}
}

func TestIRRZeroesNPV(t *testing.T) {
	yearly := constant(4000, 25)
	irr, err := IRR(20000, yearly)
	if err != nil {
		t.Fatalf("IRR failed: %v", err)
	}
	npv, _ := NPV(20000, yearly, irr, 25)
	if !approxEqual(npv, 0, 1e-3) {
		t.Errorf("npv at irr %f%% = %f, want 0", irr, npv)
	}
	if irr < 19 || irr > 20 {
		t.Errorf("irr = %f%%, want ~19.8%%", irr)
	}
}

func TestIRRNegativeRate(t *testing.T) {
	// Paying 1000 to get 900 back is a -10% return.
	got, err := IRR(1000, []float64{900})
	if err != nil {
		t.Fatalf("IRR failed: %v", err)
	}
	if !approxEqual(got, -10, 1e-4) {
		t.Errorf("irr = %f%%, want -10%%", got)
	}
}

func TestIRRNoRoot(t *testing.T) {
	_, err := IRR(0, constant(100, 10))
	if !errors.Is(err, validation.ErrConvergence) {
		t.Errorf("expected ConvergenceError, got %v", err)
	}
}

func TestBisectFallback(t *testing.T) {
	r, ok := bisect(func(r float64) float64 { return 0.05 - r }, IRRLowerBound, IRRUpperBound)
	if !ok || !approxEqual(r, 0.05, 1e-6) {
		t.Errorf("bisect = %f (%v), want 0.05", r, ok)
	}
	if _, ok := bisect(func(float64) float64 { return 1 }, IRRLowerBound, IRRUpperBound); ok {
		t.Error("bisect without a sign change should fail")
	}
}

func TestAnnuity(t *testing.T) {
	annual := AnnualDebtService(1_000_000, 5, 30)
	// Standard amortization: ~$65,051
	if math.Abs(annual-65051) > 100 {
		t.Errorf("annuity = $%.0f, want ~$65,051", annual)
	}
}

func TestAnnuityZeroRate(t *testing.T) {
	annual := AnnualDebtService(1_000_000, 0, 30)
	expected := 1_000_000.0 / 30.0
	if math.Abs(annual-expected) > 1 {
		t.Errorf("annuity at 0%% = $%.0f, want $%.0f", annual, expected)
	}
}

func TestAnnuityZeroTerm(t *testing.T) {
	if annual := AnnualDebtService(1_000_000, 5, 0); annual != 0 {
		t.Errorf("annuity at 0 term = $%.0f, want $0", annual)
	}
}

func cashParams() spec.FinancialParams {
	return spec.FinancialParams{
		SystemCost:      20000,
		ElectricityRate: 0.10,
		LifetimeYears:   25,
		Financing:       spec.FinancingDef{Financing: spec.Cash{}},
	}
}

func TestAnalyzeCash(t *testing.T) {
	a, err := Analyze(cashParams(), constant(15000, 25))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if a.Financing != "cash" || a.InitialInvestment != 20000 {
		t.Errorf("financing = %s, initial = %f", a.Financing, a.InitialInvestment)
	}
	if len(a.Projection.CashFlow) != 26 || len(a.Projection.Cumulative) != 26 {
		t.Fatalf("expected 26-entry series, got %d/%d", len(a.Projection.CashFlow), len(a.Projection.Cumulative))
	}
	// 15000 kWh * 0.10 = 1500 per year; 20000 / 1500 = 13.33 years.
	if a.Payback.Years != 13 || a.Payback.Months != 4 {
		t.Errorf("payback = %s, want 13 years 4 months", a.Payback)
	}
	// Undiscounted NPV equals net profit.
	if !approxEqual(a.NPV, 17500, 1e-6) || !approxEqual(a.Summary.NetProfit, 17500, 1e-6) {
		t.Errorf("npv = %f, net profit = %f, want 17500", a.NPV, a.Summary.NetProfit)
	}
	if !a.IRRConverged || a.IRRPct <= 0 {
		t.Errorf("irr = %f (converged %v)", a.IRRPct, a.IRRConverged)
	}
	// (20000 + 0) / 15000 / 25
	if !approxEqual(a.LCOE, 20000.0/(15000*25), 1e-12) {
		t.Errorf("lcoe = %f", a.LCOE)
	}
}

func TestAnalyzeCumulativeInvariant(t *testing.T) {
	fp := cashParams()
	fp.EscalationPct = 2.5
	fp.OMCost = 300
	fp.OMEscalationPct = 2
	fp.Incentives = 3000
	fp.DiscountRatePct = 7
	prod := make([]float64, 25)
	for i := range prod {
		prod[i] = 15000 * math.Pow(0.995, float64(i))
	}

	a, err := Analyze(fp, prod)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	sum := 0.0
	for i, cf := range a.Projection.CashFlow {
		sum += cf
		if !approxEqual(a.Projection.Cumulative[i], sum, 1e-6) {
			t.Fatalf("cumulative[%d] = %f, want %f", i, a.Projection.Cumulative[i], sum)
		}
	}
	if !approxEqual(a.Projection.CashFlow[0], -17000, 1e-9) {
		t.Errorf("year 0 flow = %f, want -17000", a.Projection.CashFlow[0])
	}
	if !approxEqual(a.Years[1].Tariff, 0.1025, 1e-12) {
		t.Errorf("year 2 tariff = %f, want 0.1025", a.Years[1].Tariff)
	}
	if !approxEqual(a.Years[1].OMCost, 306, 1e-9) {
		t.Errorf("year 2 O&M = %f, want 306", a.Years[1].OMCost)
	}
	if a.DiscountedPayback.Reached && a.DiscountedPayback.Exact < a.Payback.Exact {
		t.Error("discounted payback cannot come before simple payback")
	}
}

func TestAnalyzeLoan(t *testing.T) {
	fp := cashParams()
	fp.SystemCost = 100000
	fp.Financing = spec.FinancingDef{Financing: spec.Loan{TermYears: 10, RatePct: 0, DownPaymentPct: 20}}

	a, err := Analyze(fp, constant(100000, 25))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if a.Financing != "loan" {
		t.Errorf("financing = %s, want loan", a.Financing)
	}
	if a.InitialInvestment != 20000 || a.LoanPrincipal != 80000 {
		t.Errorf("initial = %f, principal = %f", a.InitialInvestment, a.LoanPrincipal)
	}
	if !approxEqual(a.Years[0].DebtService, 8000, 1e-9) || a.Years[10].DebtService != 0 {
		t.Errorf("debt service year 1 = %f, year 11 = %f", a.Years[0].DebtService, a.Years[10].DebtService)
	}
	// Revenue 10000, debt 8000.
	if !approxEqual(a.Years[0].CashFlow, 2000, 1e-9) || !approxEqual(a.Years[10].CashFlow, 10000, 1e-9) {
		t.Errorf("cash flow year 1 = %f, year 11 = %f", a.Years[0].CashFlow, a.Years[10].CashFlow)
	}
	if !approxEqual(a.Summary.TotalDebtService, 80000, 1e-6) {
		t.Errorf("total debt = %f, want 80000", a.Summary.TotalDebtService)
	}
}

func TestAnalyzeReportsIRRFailure(t *testing.T) {
	fp := cashParams()
	fp.SystemCost = 0
	a, err := Analyze(fp, constant(1000, 25))
	if err != nil {
		t.Fatalf("Analyze should not fail on IRR: %v", err)
	}
	if a.IRRConverged || a.IRRError == "" {
		t.Errorf("expected IRR failure to be reported, got %+v", a.IRRPct)
	}
}

func TestAnalyzeValidation(t *testing.T) {
	if _, err := Analyze(cashParams(), constant(1000, 20)); !errors.Is(err, validation.ErrValidation) {
		t.Errorf("expected ValidationError for lifetime mismatch, got %v", err)
	}
	if _, err := Analyze(cashParams(), nil); !errors.Is(err, validation.ErrValidation) {
		t.Errorf("expected ValidationError for empty production, got %v", err)
	}
	fp := cashParams()
	fp.Financing = spec.FinancingDef{Financing: spec.Loan{TermYears: 0}}
	if _, err := Analyze(fp, constant(1000, 25)); !errors.Is(err, validation.ErrValidation) {
		t.Errorf("expected ValidationError for zero loan term, got %v", err)
	}
}
