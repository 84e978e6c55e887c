package main

import (
	"fmt"
	"time"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/bess"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/cable"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/design"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/finance"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/geo"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/layout"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	printResults := func(title string, results []validation.Result) {
		if len(results) == 0 {
			return
		}
		fmt.Printf("%s (%d):\n", title, len(results))
		for _, e := range results {
			fmt.Printf("  [%s] %s\n", e.Level, e.Message)
			if e.SpecPath != "" {
				fmt.Printf("    -> %s = %v\n", e.SpecPath, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Printf("    expected: %s\n", e.Expected)
			}
			for _, s := range e.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	printResults("ERRORS", r.Errors)
	printResults("WARNINGS", r.Warnings)
	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printDesignReport(res *design.Result, currency string) {
	fmt.Printf("Design %s (%s)\n", res.Name, res.ID)
	fmt.Println("===================================")
	fmt.Println()

	p := res.Production
	fmt.Printf("Energy Production (irradiance: %s)\n", res.IrradianceSource)
	fmt.Println("-------")
	fmt.Printf("%-6s %12s %12s\n", "Month", "kWh/m2/day", "kWh")
	for m := 0; m < 12; m++ {
		fmt.Printf("%-6s %12.2f %12s\n", time.Month(m + 1).String()[:3], res.Irradiance[m], formatNumber(p.Monthly[m]))
	}
	fmt.Printf("  Annual production:      %s kWh\n", formatNumber(p.AnnualKWh))
	fmt.Printf("  Specific yield:         %.0f kWh/kWp\n", p.SpecificYield)
	fmt.Printf("  Daily range:            %.1f - %.1f kWh\n", p.MinDailyKWh, p.MaxDailyKWh)
	if len(p.ClippedMonths) > 0 {
		fmt.Printf("  Clipped months:         %v (inverter %.1f kW AC)\n", p.ClippedMonths, p.InverterACKW)
	}
	fmt.Println()

	if res.Finance != nil {
		printFinance(res.Finance, currency)
		fmt.Println()
	}
	if len(res.Cables) > 0 {
		fmt.Println("Cables")
		fmt.Println("-------")
		for _, c := range res.Cables {
			printCableResult(c)
		}
		fmt.Println()
	}
	if res.Storage != nil {
		printBESSSizing(*res.Storage)
		fmt.Println()
	}
	if res.Site != nil {
		printGeometry(res.Site.Polygon, res.Site.Installation)
	}
}

func printFinance(a *finance.Analysis, currency string) {
	fmt.Printf("Financial Analysis (%s)\n", a.Financing)
	fmt.Println("-------")
	fmt.Printf("  Initial investment:     %s %s\n", currency, formatMoney(a.InitialInvestment))
	if a.LoanPrincipal > 0 {
		fmt.Printf("  Loan principal:         %s %s\n", currency, formatMoney(a.LoanPrincipal))
		fmt.Printf("  Annual debt service:    %s %s\n", currency, formatMoney(a.AnnualDebtService))
	}
	fmt.Printf("  NPV:                    %s %s\n", currency, formatMoney(a.NPV))
	if a.IRRConverged {
		fmt.Printf("  IRR:                    %.2f%%\n", a.IRRPct)
	} else {
		fmt.Printf("  IRR:                    n/a (%s)\n", a.IRRError)
	}
	fmt.Printf("  LCOE:                   %.4f %s/kWh\n", a.LCOE, currency)
	fmt.Printf("  Payback:                %s\n", a.Payback)
	fmt.Printf("  Discounted payback:     %s\n", a.DiscountedPayback)
	fmt.Printf("  Net profit:             %s %s\n", currency, formatMoney(a.Summary.NetProfit))
	fmt.Printf("  ROI:                    %.1f%%\n", a.Summary.ROIPct)
}

func printCableResult(r cable.Result) {
	status := "OK"
	if !r.IsAdequate {
		status = "NO SUITABLE CABLE"
	}
	name := r.Name
	if name == "" {
		name = "cable"
	}
	fmt.Printf("  %-12s %6.1f mm2 %-9s  drop %.2f V (%.2f%%)  loss %.3f kW  derate %.3f  [%s]\n",
		name, r.SelectedCable.CrossSectionMM2, r.SelectedCable.Material,
		r.VoltageDropV, r.VoltageDropPercent, r.PowerLossKW, r.Derating.Total, status)
	for _, w := range r.Warnings {
		fmt.Printf("    * %s\n", w)
	}
}

func printBESSSizing(s bess.Sizing) {
	fmt.Printf("Battery Storage (%s-coupled)\n", s.Coupling)
	fmt.Println("-------")
	fmt.Printf("  Daytime / night load:   %.1f / %.1f kWh\n", s.DaytimeLoadKWh, s.NighttimeLoadKWh)
	fmt.Printf("  Battery capacity:       %.1f kWh (usable %.1f kWh)\n", s.BatteryCapacityKWh, s.UsableCapacityKWh)
	fmt.Printf("  PV capacity:            %.1f kW\n", s.PVCapacityKW)
	fmt.Printf("  Inverter:               %.1f kW\n", s.InverterKW)
	if s.PVInverterKW > 0 {
		fmt.Printf("  PV inverter:            %.1f kW\n", s.PVInverterKW)
	}
	fmt.Printf("  Discharge power:        %.1f kW\n", s.DischargePowerKW)
}

func printGeometry(p geo.PolygonArea, inst layout.Installation) {
	fmt.Println("Site")
	fmt.Println("-------")
	fmt.Printf("  Area:                   %.1f m2\n", p.AreaM2)
	fmt.Printf("  Perimeter:              %.1f m\n", p.PerimeterM)
	fmt.Printf("  Dominant edge azimuth:  %.1f deg\n", p.DominantEdgeAzimuth)
	fmt.Printf("  Usable area:            %.1f m2\n", inst.UsableAreaM2)
	fmt.Printf("  Modules:                %d\n", inst.Modules)
	fmt.Printf("  Capacity:               %.1f kWp\n", inst.CapacityKWp)
}

func formatNumber(v float64) string {
	if v >= 1_000_000 {
		return fmt.Sprintf("%.2fM", v/1_000_000)
	}
	if v >= 10_000 {
		return fmt.Sprintf("%.1fK", v/1_000)
	}
	return fmt.Sprintf("%.0f", v)
}

func formatMoney(v float64) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	if v >= 1_000_000_000 {
		return fmt.Sprintf("%s%.2fB", sign, v/1_000_000_000)
	}
	if v >= 1_000_000 {
		return fmt.Sprintf("%s%.2fM", sign, v/1_000_000)
	}
	if v >= 1_000 {
		return fmt.Sprintf("%s%.1fK", sign, v/1_000)
	}
	return fmt.Sprintf("%s%.0f", sign, v)
}
