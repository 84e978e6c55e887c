// Package design runs the full calculation pipeline for a design spec:
// irradiance, production, degradation and finance, plus the optional cable,
// storage and site studies.
package design

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/bess"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/cable"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/energy"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/finance"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/geo"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/irradiance"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/layout"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/spec"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/validation"
)

// Plausible specific yield band in kWh/kWp.
const (
	MinSpecificYield = 600.0
	MaxSpecificYield = 2400.0
)

// Run outcomes reported to a Recorder.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Recorder receives one observation per Run.
type Recorder interface {
	ObserveDesignRun(outcome string, inadequateCables int)
}

// Sink persists finished results. The engine never reads them back.
type Sink interface {
	SaveResult(ctx context.Context, id uuid.UUID, name string, result any) (uuid.UUID, error)
}

// Engine holds the injected collaborators. The zero value runs designs
// with static irradiance and the built-in cable catalog.
type Engine struct {
	// Provider serves designs whose irradiance source is pvwatts.
	Provider irradiance.Provider
	Catalog  *cable.Catalog
	Recorder Recorder
	Sink     Sink
}

// SiteResult is the measured site and what it can hold.
type SiteResult struct {
	Polygon      geo.PolygonArea     `json:"polygon"`
	Installation layout.Installation `json:"installation"`
}

// Result is everything computed for one design.
type Result struct {
	ID               uuid.UUID               `json:"id"`
	Name             string                  `json:"name"`
	CreatedAt        time.Time               `json:"created_at"`
	IrradianceSource string                  `json:"irradiance_source"`
	Irradiance       irradiance.Monthly      `json:"irradiance_kwh_m2_day"`
	Production       energy.ProductionSeries `json:"production"`
	Lifetime         []float64               `json:"lifetime_production_kwh"`
	Finance          *finance.Analysis       `json:"finance"`
	Cables           []cable.Result          `json:"cables,omitempty"`
	Storage          *bess.Sizing            `json:"storage,omitempty"`
	Site             *SiteResult             `json:"site,omitempty"`
}

// InadequateCables counts cable runs without a suitable catalog entry.
func (r *Result) InadequateCables() int {
	n := 0
	for _, c := range r.Cables {
		if !c.IsAdequate {
			n++
		}
	}
	return n
}

func (e *Engine) catalog() *cable.Catalog {
	if e.Catalog != nil {
		return e.Catalog
	}
	return cable.DefaultCatalog()
}

func (e *Engine) provider(s *spec.DesignSpec) (irradiance.Provider, string, error) {
	if s.Irradiance.Source == spec.IrradianceStatic {
		p, err := irradiance.NewStatic(s.Irradiance.Monthly)
		if err != nil {
			return nil, "", err
		}
		return p, spec.IrradianceStatic, nil
	}
	if e.Provider == nil {
		return nil, "", validation.Invalid("irradiance.source", s.Irradiance.Source, "no irradiance provider configured")
	}
	return e.Provider, s.Irradiance.Source, nil
}

// Run validates s, then computes the full result. Schema errors come back
// as a report with Valid=false together with its ValidationError. The
// report also carries warnings about the computed design.
func (e *Engine) Run(ctx context.Context, s *spec.DesignSpec) (*Result, *validation.Report, error) {
	spec.ApplyDefaults(s)
	report := validation.ValidateSchema(s)
	if !report.Valid {
		e.observe(OutcomeInvalid, 0)
		return nil, report, report.Err()
	}

	res, err := e.compute(ctx, s, report)
	if err != nil {
		e.observe(OutcomeError, 0)
		klog.V(2).InfoS("Design run failed", "project", s.Project.Name, "err", err)
		return nil, report, err
	}
	e.observe(OutcomeSuccess, res.InadequateCables())

	if e.Sink != nil {
		if _, err := e.Sink.SaveResult(ctx, res.ID, res.Name, res); err != nil {
			klog.ErrorS(err, "Failed to persist design result", "id", res.ID)
			report.AddWarning(validation.Result{
				Level:   validation.LevelSchema,
				Message: fmt.Sprintf("result %s was not persisted: %v", res.ID, err),
			})
		}
	}
	return res, report, nil
}

func (e *Engine) observe(outcome string, inadequate int) {
	if e.Recorder != nil {
		e.Recorder.ObserveDesignRun(outcome, inadequate)
	}
}

func (e *Engine) compute(ctx context.Context, s *spec.DesignSpec, report *validation.Report) (*Result, error) {
	p, source, err := e.provider(s)
	if err != nil {
		return nil, err
	}
	irr, err := p.Monthly(ctx, irradiance.RequestFor(s.Location, s.System))
	if err != nil {
		return nil, fmt.Errorf("fetching irradiance: %w", err)
	}

	res := &Result{
		ID:               uuid.New(),
		Name:             s.Project.Name,
		CreatedAt:        time.Now().UTC(),
		IrradianceSource: source,
		Irradiance:       irr,
	}

	res.Production, err = energy.Simulate(s.Location, s.System, irr)
	if err != nil {
		return nil, fmt.Errorf("simulating production: %w", err)
	}
	checkProduction(res.Production, report)

	res.Lifetime, err = energy.Project(res.Production.AnnualKWh, s.Financial.DegradationPct, s.Financial.LifetimeYears)
	if err != nil {
		return nil, fmt.Errorf("projecting degradation: %w", err)
	}

	res.Finance, err = finance.Analyze(s.Financial, res.Lifetime)
	if err != nil {
		return nil, fmt.Errorf("financial analysis: %w", err)
	}
	checkFinance(res.Finance, report)

	if err := e.sizeCables(s, res, report); err != nil {
		return nil, err
	}

	if s.Storage != nil {
		in, coupling, err := bess.FromStorage(*s.Storage, irr.Mean())
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		sizing, err := bess.Size(coupling, in)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		res.Storage = &sizing
		report.AddInfo(validation.Result{
			Level:   validation.LevelStorage,
			Message: fmt.Sprintf("%s-coupled storage: %.1f kWh battery, %.1f kW PV, %.1f kW inverter", coupling, sizing.BatteryCapacityKWh, sizing.PVCapacityKW, sizing.InverterKW),
		})
	}

	if s.Site != nil {
		site, err := measureSite(s.Site)
		if err != nil {
			return nil, fmt.Errorf("site: %w", err)
		}
		res.Site = site
		report.Merge(layout.CheckCapacity(site.Installation, s.System))
	}
	return res, nil
}

func (e *Engine) sizeCables(s *spec.DesignSpec, res *Result, report *validation.Report) error {
	if len(s.Cables) == 0 {
		return nil
	}
	cat := e.catalog()
	for i, run := range s.Cables {
		r, err := cable.Size(cat, cable.FromRun(run))
		if err != nil {
			return fmt.Errorf("cables[%d]: %w", i, err)
		}
		res.Cables = append(res.Cables, r)
		if !r.IsAdequate {
			report.AddWarning(validation.Result{
				Level:       validation.LevelElectrical,
				Message:     fmt.Sprintf("cable run %q has no suitable catalog cable", run.Name),
				SpecPath:    fmt.Sprintf("cables[%d]", i),
				ActualValue: r.SelectedCable.CrossSectionMM2,
				Suggestions: r.Warnings,
			})
		}
	}
	return nil
}

func measureSite(site *spec.SiteDef) (*SiteResult, error) {
	vertices := make([]geo.LatLng, len(site.Vertices))
	for i, v := range site.Vertices {
		vertices[i] = geo.LatLng{Lat: v.Lat, Lng: v.Lng}
	}
	poly, err := geo.Measure(vertices)
	if err != nil {
		return nil, err
	}
	inst, err := layout.Potential(poly, layout.ParamsFromSite(site))
	if err != nil {
		return nil, err
	}
	return &SiteResult{Polygon: poly, Installation: inst}, nil
}

func checkProduction(ps energy.ProductionSeries, report *validation.Report) {
	if len(ps.ClippedMonths) > 0 {
		report.AddWarning(validation.Result{
			Level:       validation.LevelEnergy,
			Message:     fmt.Sprintf("inverter clipping in %d month(s)", len(ps.ClippedMonths)),
			SpecPath:    "system.inverter",
			ActualValue: ps.ClippedMonths,
			Suggestions: []string{"Increase inverter rating or quantity"},
		})
	}
	if ps.SpecificYield < MinSpecificYield || ps.SpecificYield > MaxSpecificYield {
		report.AddWarning(validation.Result{
			Level:       validation.LevelEnergy,
			Message:     fmt.Sprintf("specific yield %.0f kWh/kWp is outside the plausible range", ps.SpecificYield),
			SpecPath:    "irradiance",
			ActualValue: ps.SpecificYield,
			Expected:    fmt.Sprintf("%.0f-%.0f", MinSpecificYield, MaxSpecificYield),
		})
	}
}

func checkFinance(a *finance.Analysis, report *validation.Report) {
	if !a.Payback.Reached {
		report.AddWarning(validation.Result{
			Level:    validation.LevelFinancial,
			Message:  "payback is not reached within the system lifetime",
			SpecPath: "financial",
		})
	} else {
		report.AddInfo(validation.Result{
			Level:   validation.LevelFinancial,
			Message: fmt.Sprintf("payback in %s", a.Payback),
		})
	}
	if !a.IRRConverged {
		report.AddWarning(validation.Result{
			Level:   validation.LevelFinancial,
			Message: "IRR did not converge: " + a.IRRError,
		})
	}
}
