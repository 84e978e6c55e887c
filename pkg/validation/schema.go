package validation

import (
	"fmt"
	"slices"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/spec"
)

var (
	cableMaterials = []string{"copper", "aluminium"}
	installMethods = []string{"free_air", "direct_buried", "conduit", "clipped_direct"}
	circuitKinds   = []string{"dc", "ac_single_phase", "ac_three_phase"}
	couplings      = []string{"dc", "ac", "hybrid"}
)

// ValidateSchema checks a parsed DesignSpec for structural correctness
// before any computation. Run spec.ApplyDefaults first so that omitted
// optional fields are not reported.
func ValidateSchema(s *spec.DesignSpec) *Report {
	r := NewReport()

	validateLocation(s, r)
	validateSystem(s, r)
	validateIrradiance(s, r)
	validateFinancial(s, r)
	validateCables(s, r)
	validateStorage(s, r)
	validateSite(s, r)

	return r
}

func validateLocation(s *spec.DesignSpec, r *Report) {
	loc := s.Location
	if loc.Latitude < -90 || loc.Latitude > 90 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "latitude must be within [-90, 90]",
			SpecPath:    "location.latitude",
			ActualValue: loc.Latitude,
			Expected:    "[-90, 90]",
		})
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "longitude must be within [-180, 180]",
			SpecPath:    "location.longitude",
			ActualValue: loc.Longitude,
			Expected:    "[-180, 180]",
		})
	}
	if loc.Timezone == "" {
		r.AddInfo(Result{
			Level:    LevelSchema,
			Message:  "no timezone given; monthly values are calendar months in UTC",
			SpecPath: "location.timezone",
		})
	}
}

func validateSystem(s *spec.DesignSpec, r *Report) {
	sys := s.System
	if sys.CapacityKW <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "system capacity must be greater than 0",
			SpecPath:    "system.capacity_kw",
			ActualValue: sys.CapacityKW,
			Expected:    "> 0",
		})
	}
	if sys.TiltDeg < 0 || sys.TiltDeg > 90 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "tilt must be within [0, 90] degrees",
			SpecPath:    "system.tilt_deg",
			ActualValue: sys.TiltDeg,
			Expected:    "[0, 90]",
		})
	}
	if sys.AzimuthDeg < -180 || sys.AzimuthDeg >= 360 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "azimuth must be within [-180, 360) degrees (0 = south)",
			SpecPath:    "system.azimuth_deg",
			ActualValue: sys.AzimuthDeg,
			Expected:    "[-180, 360)",
		})
	}
	if sys.PerformanceRatio <= 0 || sys.PerformanceRatio > 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "performance ratio must be in (0, 1]",
			SpecPath:    "system.performance_ratio",
			ActualValue: sys.PerformanceRatio,
			Expected:    "(0, 1]",
		})
	}
	if sys.LossPct < 0 || sys.LossPct >= 100 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "loss percentage must be in [0, 100)",
			SpecPath:    "system.loss_pct",
			ActualValue: sys.LossPct,
			Expected:    "[0, 100)",
		})
	}
	if sys.ModuleEfficiency < 0 || sys.ModuleEfficiency > 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "module efficiency must be a fraction in [0, 1]",
			SpecPath:    "system.module_efficiency",
			ActualValue: sys.ModuleEfficiency,
			Expected:    "[0, 1]",
		})
	}
	if !slices.Contains(spec.ArrayTypes, sys.ArrayType) {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("unknown array type %q", sys.ArrayType),
			SpecPath:    "system.array_type",
			ActualValue: sys.ArrayType,
			Suggestions: []string{"Use one of fixed_open_rack, fixed_roof, one_axis, one_axis_backtracking, two_axis"},
		})
	}

	inv := sys.Inverter
	if inv.Quantity <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "inverter quantity must be at least 1",
			SpecPath:    "system.inverter.quantity",
			ActualValue: inv.Quantity,
			Expected:    ">= 1",
		})
	}
	if inv.RatedKW < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "inverter rating must not be negative",
			SpecPath:    "system.inverter.rated_kw",
			ActualValue: inv.RatedKW,
			Expected:    ">= 0",
		})
	}
	if inv.DCACRatio <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "DC/AC ratio must be greater than 0",
			SpecPath:    "system.inverter.dc_ac_ratio",
			ActualValue: inv.DCACRatio,
			Expected:    "> 0",
		})
	} else if inv.DCACRatio > 1.5 {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     "DC/AC ratio above 1.5 usually causes heavy clipping",
			SpecPath:    "system.inverter.dc_ac_ratio",
			ActualValue: inv.DCACRatio,
			Expected:    "1.1 - 1.3",
		})
	}
}

func validateIrradiance(s *spec.DesignSpec, r *Report) {
	irr := s.Irradiance
	switch irr.Source {
	case spec.IrradiancePVWatts:
	case spec.IrradianceStatic:
		if len(irr.Monthly) != 12 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     "static irradiance needs exactly 12 monthly values",
				SpecPath:    "irradiance.monthly",
				ActualValue: len(irr.Monthly),
				Expected:    "12",
			})
			return
		}
		for i, v := range irr.Monthly {
			if v < 0 {
				r.AddError(Result{
					Level:       LevelSchema,
					Message:     "irradiance must not be negative",
					SpecPath:    fmt.Sprintf("irradiance.monthly[%d]", i),
					ActualValue: v,
					Expected:    ">= 0",
				})
			}
		}
	default:
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("unknown irradiance source %q", irr.Source),
			SpecPath:    "irradiance.source",
			ActualValue: irr.Source,
			Suggestions: []string{"Use pvwatts or static"},
		})
	}
}

func validateFinancial(s *spec.DesignSpec, r *Report) {
	f := s.Financial
	nonNegative := map[string]float64{
		"system_cost":      f.SystemCost,
		"electricity_rate": f.ElectricityRate,
		"incentives":       f.Incentives,
		"om_cost":          f.OMCost,
	}
	for name, v := range nonNegative {
		if v < 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("financial.%s must be non-negative", name),
				SpecPath:    "financial." + name,
				ActualValue: v,
				Expected:    ">= 0",
			})
		}
	}
	if f.DegradationPct < 0 || f.DegradationPct > 100 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "degradation rate must be within [0, 100] percent per year",
			SpecPath:    "financial.degradation_pct",
			ActualValue: f.DegradationPct,
			Expected:    "[0, 100]",
		})
	}
	if f.DiscountRatePct <= -100 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "discount rate must be greater than -100 percent",
			SpecPath:    "financial.discount_rate_pct",
			ActualValue: f.DiscountRatePct,
			Expected:    "> -100",
		})
	}
	if f.LifetimeYears < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "lifetime years must not be negative",
			SpecPath:    "financial.lifetime_years",
			ActualValue: f.LifetimeYears,
			Expected:    ">= 0",
		})
	}
	if f.Incentives > f.SystemCost && f.SystemCost > 0 {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     "incentives exceed the system cost",
			SpecPath:    "financial.incentives",
			ActualValue: f.Incentives,
			Expected:    fmt.Sprintf("<= %.2f", f.SystemCost),
		})
	}

	if loan, ok := f.Financing.Variant().(spec.Loan); ok {
		if loan.TermYears <= 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     "loan term must be at least 1 year",
				SpecPath:    "financial.financing.term_years",
				ActualValue: loan.TermYears,
				Expected:    ">= 1",
			})
		}
		if loan.RatePct < 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     "loan rate must not be negative",
				SpecPath:    "financial.financing.rate_pct",
				ActualValue: loan.RatePct,
				Expected:    ">= 0",
			})
		}
		if loan.DownPaymentPct < 0 || loan.DownPaymentPct > 100 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     "down payment must be within [0, 100] percent",
				SpecPath:    "financial.financing.down_payment_pct",
				ActualValue: loan.DownPaymentPct,
				Expected:    "[0, 100]",
			})
		}
		if lt := f.LifetimeYears; lt > 0 && loan.TermYears > lt {
			r.AddWarning(Result{
				Level:       LevelSchema,
				Message:     "loan term is longer than the analysis lifetime; later payments are ignored",
				SpecPath:    "financial.financing.term_years",
				ActualValue: loan.TermYears,
				Expected:    fmt.Sprintf("<= %d", lt),
			})
		}
	}
}

func validateCables(s *spec.DesignSpec, r *Report) {
	for i, c := range s.Cables {
		path := fmt.Sprintf("cables[%d]", i)
		if c.DesignCurrentA <= 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     "design current must be greater than 0",
				SpecPath:    path + ".design_current_a",
				ActualValue: c.DesignCurrentA,
				Expected:    "> 0",
			})
		}
		if c.LengthM <= 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     "cable length must be greater than 0",
				SpecPath:    path + ".length_m",
				ActualValue: c.LengthM,
				Expected:    "> 0",
			})
		}
		if c.RatedVoltageV <= 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     "rated voltage must be greater than 0",
				SpecPath:    path + ".rated_voltage_v",
				ActualValue: c.RatedVoltageV,
				Expected:    "> 0",
			})
		}
		if c.Circuits < 1 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     "circuit count must be at least 1",
				SpecPath:    path + ".circuits",
				ActualValue: c.Circuits,
				Expected:    ">= 1",
			})
		}
		checkOneOf(r, path+".material", c.Material, cableMaterials)
		checkOneOf(r, path+".install_method", c.InstallMethod, installMethods)
		checkOneOf(r, path+".circuit", c.Circuit, circuitKinds)
	}
}

func validateStorage(s *spec.DesignSpec, r *Report) {
	st := s.Storage
	if st == nil {
		return
	}
	checkOneOf(r, "storage.coupling", st.Coupling, couplings)

	fractions := map[string]float64{
		"round_trip_efficiency": st.RoundTripEfficiency,
		"depth_of_discharge":    st.DepthOfDischarge,
		"system_derate":         st.SystemDerate,
		"inverter_efficiency":   st.InverterEfficiency,
	}
	for name, v := range fractions {
		if v <= 0 || v > 1 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("storage.%s must be in (0, 1]", name),
				SpecPath:    "storage." + name,
				ActualValue: v,
				Expected:    "(0, 1]",
			})
		}
	}
	if st.AutonomyDays < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "autonomy days must not be negative",
			SpecPath:    "storage.autonomy_days",
			ActualValue: st.AutonomyDays,
			Expected:    ">= 0",
		})
	}
	if st.CRate <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "C-rate must be greater than 0",
			SpecPath:    "storage.c_rate",
			ActualValue: st.CRate,
			Expected:    "> 0",
		})
	}
	if st.PeakLoadKW < 0 || st.NighttimePeakKW < 0 {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "peak loads must not be negative",
			SpecPath: "storage.peak_load_kw",
			Expected: ">= 0",
		})
	}
	if st.DaytimeLoadKWh < 0 || st.NighttimeLoadKWh < 0 {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "daily loads must not be negative",
			SpecPath: "storage",
			Expected: ">= 0",
		})
	}
	if n := len(st.HourlyLoadKWh); n != 0 && n != 24 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "hourly load profile needs exactly 24 values",
			SpecPath:    "storage.hourly_load_kwh",
			ActualValue: n,
			Expected:    "24",
		})
	}
	if st.PeakSunHours < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "peak sun hours must not be negative",
			SpecPath:    "storage.peak_sun_hours",
			ActualValue: st.PeakSunHours,
			Expected:    ">= 0",
		})
	}
}

func validateSite(s *spec.DesignSpec, r *Report) {
	site := s.Site
	if site == nil {
		return
	}
	if len(site.Vertices) < 3 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "site polygon needs at least 3 vertices",
			SpecPath:    "site.vertices",
			ActualValue: len(site.Vertices),
			Expected:    ">= 3",
		})
	}
	for i, v := range site.Vertices {
		if v.Lat < -90 || v.Lat > 90 || v.Lng < -180 || v.Lng > 180 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     "vertex coordinates out of range",
				SpecPath:    fmt.Sprintf("site.vertices[%d]", i),
				ActualValue: fmt.Sprintf("%.6f,%.6f", v.Lat, v.Lng),
			})
		}
	}
	if site.GCR <= 0 || site.GCR > 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "ground coverage ratio must be in (0, 1]",
			SpecPath:    "site.gcr",
			ActualValue: site.GCR,
			Expected:    "(0, 1]",
		})
	}
	if site.UsableFraction <= 0 || site.UsableFraction > 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "usable fraction must be in (0, 1]",
			SpecPath:    "site.usable_fraction",
			ActualValue: site.UsableFraction,
			Expected:    "(0, 1]",
		})
	}
	if site.ModuleAreaM2 <= 0 || site.ModuleWp <= 0 {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "module area and module Wp must be greater than 0",
			SpecPath: "site",
			Expected: "> 0",
		})
	}
}

func checkOneOf(r *Report, path, value string, allowed []string) {
	if slices.Contains(allowed, value) {
		return
	}
	r.AddError(Result{
		Level:       LevelSchema,
		Message:     fmt.Sprintf("unknown value %q", value),
		SpecPath:    path,
		ActualValue: value,
		Expected:    fmt.Sprintf("one of %v", allowed),
	})
}
