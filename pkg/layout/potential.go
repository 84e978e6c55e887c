package layout

import (
	"fmt"
	"math"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/geo"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/spec"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/validation"
)

// Params controls how much of a measured area can carry modules.
type Params struct {
	UsableFraction float64 // share of the area left after setbacks and walkways
	GCR            float64 // ground coverage ratio of module area to usable area
	ModuleAreaM2   float64
	ModuleWp       float64
}

// ParamsFromSite converts a site definition, with defaults applied.
func ParamsFromSite(site *spec.SiteDef) Params {
	return Params{
		UsableFraction: site.UsableFraction,
		GCR:            site.GCR,
		ModuleAreaM2:   site.ModuleAreaM2,
		ModuleWp:       site.ModuleWp,
	}
}

// Installation is the PV capacity a polygon can hold.
type Installation struct {
	AreaM2       float64 `json:"area_m2"`
	UsableAreaM2 float64 `json:"usable_area_m2"`
	PanelAreaM2  float64 `json:"panel_area_m2"`
	Modules      int     `json:"modules"`
	CapacityKWp  float64 `json:"capacity_kwp"`
	AzimuthDeg   float64 `json:"azimuth_deg"`
	RowLengthM   float64 `json:"row_length_m"`
	DepthM       float64 `json:"depth_m"`
}

// Potential estimates the module count and peak capacity that fit on a
// measured polygon. Rows are assumed to run along the polygon's longest edge.
func Potential(area geo.PolygonArea, p Params) (Installation, error) {
	if p.UsableFraction <= 0 || p.UsableFraction > 1 {
		return Installation{}, validation.Invalid("usable_fraction", p.UsableFraction, "must be in (0, 1]")
	}
	if p.GCR <= 0 || p.GCR > 1 {
		return Installation{}, validation.Invalid("gcr", p.GCR, "must be in (0, 1]")
	}
	if p.ModuleAreaM2 <= 0 {
		return Installation{}, validation.Invalid("module_area_m2", p.ModuleAreaM2, "must be greater than 0")
	}
	if p.ModuleWp <= 0 {
		return Installation{}, validation.Invalid("module_wp", p.ModuleWp, "must be greater than 0")
	}

	usable := area.AreaM2 * p.UsableFraction
	panel := usable * p.GCR
	modules := int(math.Floor(panel / p.ModuleAreaM2))

	inst := Installation{
		AreaM2:       area.AreaM2,
		UsableAreaM2: usable,
		PanelAreaM2:  panel,
		Modules:      modules,
		CapacityKWp:  float64(modules) * p.ModuleWp / 1000,
		AzimuthDeg:   area.DominantEdgeAzimuth,
	}
	if len(area.Vertices) >= 3 {
		inst.RowLengthM, inst.DepthM = geo.LocalPolygon(area.Vertices).AlignedExtent(area.DominantEdgeAzimuth)
	}
	return inst, nil
}

// CheckCapacity compares a designed array against what the site can hold.
func CheckCapacity(inst Installation, sys spec.SystemSpec) *validation.Report {
	r := validation.NewReport()
	if inst.CapacityKWp <= 0 {
		r.AddWarning(validation.Result{
			Level:       validation.LevelSite,
			Message:     "site polygon is too small for a single module",
			SpecPath:    "site.vertices",
			ActualValue: inst.AreaM2,
		})
		return r
	}
	if sys.CapacityKW > inst.CapacityKWp {
		r.AddWarning(validation.Result{
			Level:       validation.LevelSite,
			Message:     fmt.Sprintf("designed capacity %.1f kW exceeds site potential %.1f kWp", sys.CapacityKW, inst.CapacityKWp),
			SpecPath:    "system.capacity_kw",
			ActualValue: sys.CapacityKW,
			Expected:    fmt.Sprintf("<= %.1f", inst.CapacityKWp),
			Suggestions: []string{"Reduce capacity_kw", "Increase gcr or use higher wattage modules"},
		})
		return r
	}
	r.AddInfo(validation.Result{
		Level:       validation.LevelSite,
		Message:     fmt.Sprintf("site holds %d modules (%.1f kWp); design uses %.0f%%", inst.Modules, inst.CapacityKWp, 100*sys.CapacityKW/inst.CapacityKWp),
		SpecPath:    "site",
		ActualValue: inst.CapacityKWp,
	})
	return r
}
