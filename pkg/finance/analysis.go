package finance

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/spec"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/validation"
)

// Year is one row of the lifetime cash-flow table. Year 1 is the first
// operating year.
type Year struct {
	Year          int     `json:"year"`
	ProductionKWh float64 `json:"production_kwh"`
	Tariff        float64 `json:"tariff"`
	Revenue       float64 `json:"revenue"`
	OMCost        float64 `json:"om_cost"`
	DebtService   float64 `json:"debt_service"`
	CashFlow      float64 `json:"cash_flow"`
	Cumulative    float64 `json:"cumulative"`
}

// Projection is the cash-flow series over the lifetime. Index 0 of CashFlow
// and Cumulative is the initial outlay; Cumulative[i] is the sum of
// CashFlow[0..i].
type Projection struct {
	Production []float64 `json:"yearly_production"`
	CashFlow   []float64 `json:"yearly_cash_flow"`
	Cumulative []float64 `json:"cumulative_cash_flow"`
}

// Analysis is the complete financial output of a design.
type Analysis struct {
	Financing         string     `json:"financing"`
	InitialInvestment float64    `json:"initial_investment"`
	LoanPrincipal     float64    `json:"loan_principal,omitempty"`
	AnnualDebtService float64    `json:"annual_debt_service,omitempty"`
	Projection        Projection `json:"projection"`
	Years             []Year     `json:"years"`

	NPV               float64 `json:"npv"`
	IRRPct            float64 `json:"irr_pct"`
	IRRConverged      bool    `json:"irr_converged"`
	IRRError          string  `json:"irr_error,omitempty"`
	LCOE              float64 `json:"lcoe"`
	Payback           Payback `json:"payback"`
	DiscountedPayback Payback `json:"discounted_payback"`

	Summary struct {
		TotalProductionKWh float64 `json:"total_production_kwh"`
		TotalRevenue       float64 `json:"total_revenue"`
		TotalOMCost        float64 `json:"total_om_cost"`
		TotalDebtService   float64 `json:"total_debt_service"`
		NetProfit          float64 `json:"net_profit"`
		ROIPct             float64 `json:"roi_pct"`
		AnnualROIPct       float64 `json:"annual_roi_pct"`
		BenefitCostRatio   float64 `json:"benefit_cost_ratio"`
	} `json:"summary"`
}

// Analyze runs the lifetime cash-flow analysis for the yearly production
// series (index 0 = first operating year). Tariff and O&M escalate yearly;
// loan payments are an outflow for the loan term. A non-converging IRR is
// reported on the Analysis, not returned as an error.
func Analyze(fp spec.FinancialParams, yearlyProduction []float64) (*Analysis, error) {
	n := len(yearlyProduction)
	if n == 0 {
		return nil, validation.Invalid("yearly_production", 0, "need at least one year of production")
	}
	if fp.LifetimeYears < 0 {
		return nil, validation.Invalid("lifetime_years", fp.LifetimeYears, "must not be negative")
	}
	if fp.LifetimeYears > 0 && fp.LifetimeYears != n {
		return nil, validation.Invalid("yearly_production", n, "length must equal lifetime_years")
	}
	if fp.SystemCost < 0 || fp.ElectricityRate < 0 || fp.OMCost < 0 || fp.Incentives < 0 {
		return nil, validation.Invalid("financial", nil, "costs, tariff and incentives must not be negative")
	}
	if fp.DiscountRatePct <= -100 {
		return nil, validation.Invalid("discount_rate_pct", fp.DiscountRatePct, "must be greater than -100")
	}

	a := &Analysis{}
	initial := fp.SystemCost
	debt := make([]float64, n)

	switch f := fp.Financing.Variant().(type) {
	case spec.Loan:
		if f.TermYears <= 0 {
			return nil, validation.Invalid("financing.term_years", f.TermYears, "must be at least 1")
		}
		if f.RatePct < 0 || f.DownPaymentPct < 0 || f.DownPaymentPct > 100 {
			return nil, validation.Invalid("financing", f, "rate must be >= 0 and down payment within [0, 100]")
		}
		initial = fp.SystemCost * f.DownPaymentPct / 100
		a.LoanPrincipal = fp.SystemCost - initial
		a.AnnualDebtService = AnnualDebtService(a.LoanPrincipal, f.RatePct, f.TermYears)
		for y := 0; y < n && y < f.TermYears; y++ {
			debt[y] = a.AnnualDebtService
		}
	default:
		// Cash: the full cost is paid up front.
	}
	a.Financing = fp.Financing.Variant().Kind()
	a.InitialInvestment = initial

	revenue := make([]float64, n)
	om := make([]float64, n)
	opCost := make([]float64, n)
	tariffs := make([]float64, n)
	for y := 0; y < n; y++ {
		tariffs[y] = fp.ElectricityRate * math.Pow(1+fp.EscalationPct/100, float64(y))
		revenue[y] = yearlyProduction[y] * tariffs[y]
		om[y] = fp.OMCost * math.Pow(1+fp.OMEscalationPct/100, float64(y))
		opCost[y] = om[y] + debt[y]
	}

	flows, err := CashFlows(initial, revenue, opCost, fp.Incentives)
	if err != nil {
		return nil, err
	}
	cumulative := Cumulative(flows)
	a.Projection = Projection{
		Production: append([]float64(nil), yearlyProduction...),
		CashFlow:   flows,
		Cumulative: cumulative,
	}

	a.Years = make([]Year, n)
	for y := 0; y < n; y++ {
		a.Years[y] = Year{
			Year:          y + 1,
			ProductionKWh: yearlyProduction[y],
			Tariff:        tariffs[y],
			Revenue:       revenue[y],
			OMCost:        om[y],
			DebtService:   debt[y],
			CashFlow:      flows[y+1],
			Cumulative:    cumulative[y+1],
		}
	}

	netInitial := -flows[0]
	a.NPV, err = NPV(netInitial, flows[1:], fp.DiscountRatePct, n)
	if err != nil {
		return nil, err
	}
	if irr, err := IRR(netInitial, flows[1:]); err != nil {
		a.IRRError = err.Error()
	} else {
		a.IRRPct = irr
		a.IRRConverged = true
	}

	a.Payback = PaybackPeriod(cumulative, flows)
	discounted := make([]float64, len(flows))
	for i, cf := range flows {
		discounted[i] = cf / math.Pow(1+fp.DiscountRatePct/100, float64(i))
	}
	a.DiscountedPayback = PaybackPeriod(Cumulative(discounted), discounted)

	total := floats.Sum(yearlyProduction)
	if lcoe, err := LCOE(fp.SystemCost, total/float64(n), fp.OMCost, n); err == nil {
		a.LCOE = lcoe
	}

	s := &a.Summary
	s.TotalProductionKWh = total
	s.TotalRevenue = floats.Sum(revenue)
	s.TotalOMCost = floats.Sum(om)
	s.TotalDebtService = floats.Sum(debt)
	s.NetProfit = cumulative[n]
	if cost := fp.SystemCost - fp.Incentives + s.TotalOMCost + s.TotalDebtService - a.LoanPrincipal; cost > 0 {
		s.ROIPct = (s.TotalRevenue - cost) / cost * 100
		s.AnnualROIPct = s.ROIPct / float64(n)
	}
	pvCosts, pvBenefits := netInitial, 0.0
	for y := 0; y < n; y++ {
		d := math.Pow(1+fp.DiscountRatePct/100, float64(y+1))
		pvBenefits += revenue[y] / d
		pvCosts += opCost[y] / d
	}
	if pvCosts > 0 {
		s.BenefitCostRatio = pvBenefits / pvCosts
	}
	return a, nil
}
