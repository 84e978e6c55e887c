package energy

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/irradiance"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/spec"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/validation"
)

// DaysInMonth uses a non-leap calendar.
var DaysInMonth = [12]float64{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// arrayTypeFactor scales yield for the mounting. Tracking arrays see more of
// the sky than the fixed plane the irradiance was reported for.
var arrayTypeFactor = map[spec.ArrayType]float64{
	spec.ArrayFixedOpenRack:    1.0,
	spec.ArrayFixedRoof:        0.95,
	spec.ArrayOneAxis:          1.2,
	spec.ArrayOneAxisBacktrack: 1.2,
	spec.ArrayTwoAxis:          1.3,
}

// ProductionSeries is the first-year output of an array.
type ProductionSeries struct {
	Monthly       [12]float64 `json:"monthly_kwh"`
	AnnualKWh     float64     `json:"annual_kwh"`
	MinDailyKWh   float64     `json:"min_daily_kwh"`
	MaxDailyKWh   float64     `json:"max_daily_kwh"`
	SpecificYield float64     `json:"specific_yield_kwh_per_kwp"`
	InverterACKW  float64     `json:"inverter_ac_kw"`
	ClippedMonths []int       `json:"clipped_months,omitempty"` // 1 = January
}

// Simulate converts monthly irradiance into monthly AC energy for the array.
// Output is clipped to the inverter's AC rating when the array is oversized
// beyond its DC/AC ratio.
func Simulate(loc spec.Location, sys spec.SystemSpec, irr irradiance.Monthly) (ProductionSeries, error) {
	if err := validateInputs(loc, sys, irr); err != nil {
		return ProductionSeries{}, err
	}

	acKW := InverterACRating(sys)
	factor, ok := arrayTypeFactor[sys.ArrayType]
	if !ok {
		factor = 1.0
	}
	lossFraction := sys.LossPct / 100
	clip := sys.CapacityKW/acKW > sys.Inverter.DCACRatio

	var ps ProductionSeries
	daily := make([]float64, 12)
	for m := 0; m < 12; m++ {
		days := DaysInMonth[m]
		e := sys.CapacityKW * irr[m] * days * sys.PerformanceRatio * (1 - lossFraction) * factor
		if limit := acKW * days * 24; clip && e > limit {
			e = limit
			ps.ClippedMonths = append(ps.ClippedMonths, m+1)
		}
		ps.Monthly[m] = e
		daily[m] = e / days
	}

	ps.AnnualKWh = floats.Sum(ps.Monthly[:])
	ps.MinDailyKWh = floats.Min(daily)
	ps.MaxDailyKWh = floats.Max(daily)
	ps.SpecificYield = ps.AnnualKWh / sys.CapacityKW
	ps.InverterACKW = acKW
	return ps, nil
}

// InverterACRating returns the total AC rating of the inverter bank. When no
// unit rating is given it is derived from the array size and DC/AC ratio.
func InverterACRating(sys spec.SystemSpec) float64 {
	inv := sys.Inverter
	if inv.RatedKW > 0 {
		return inv.RatedKW * float64(inv.Quantity)
	}
	return sys.CapacityKW / inv.DCACRatio
}

func validateInputs(loc spec.Location, sys spec.SystemSpec, irr irradiance.Monthly) error {
	if loc.Latitude < -90 || loc.Latitude > 90 {
		return validation.Invalid("latitude", loc.Latitude, "must be within [-90, 90]")
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		return validation.Invalid("longitude", loc.Longitude, "must be within [-180, 180]")
	}
	if sys.CapacityKW <= 0 {
		return validation.Invalid("capacity_kw", sys.CapacityKW, "must be greater than 0")
	}
	if sys.Inverter.Quantity <= 0 {
		return validation.Invalid("inverter.quantity", sys.Inverter.Quantity, "must be at least 1")
	}
	if sys.Inverter.DCACRatio <= 0 {
		return validation.Invalid("inverter.dc_ac_ratio", sys.Inverter.DCACRatio, "must be greater than 0")
	}
	if sys.Inverter.RatedKW < 0 {
		return validation.Invalid("inverter.rated_kw", sys.Inverter.RatedKW, "must not be negative")
	}
	if sys.PerformanceRatio <= 0 || sys.PerformanceRatio > 1 {
		return validation.Invalid("performance_ratio", sys.PerformanceRatio, "must be in (0, 1]")
	}
	if sys.LossPct < 0 || sys.LossPct >= 100 {
		return validation.Invalid("loss_pct", sys.LossPct, "must be in [0, 100)")
	}
	total := 0.0
	for i, v := range irr {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return validation.Invalid(fmt.Sprintf("irradiance[%d]", i), v, "must be a finite non-negative value")
		}
		total += v
	}
	if total == 0 {
		return validation.Invalid("irradiance", nil, "missing irradiance data")
	}
	return nil
}
