package cable

import (
	"fmt"
	"math"

	"k8s.io/klog/v2"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/spec"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/validation"
)

// Circuit selects the voltage-drop multiplier.
type Circuit string

const (
	CircuitDC            Circuit = "dc"
	CircuitACSinglePhase Circuit = "ac_single_phase"
	CircuitACThreePhase  Circuit = "ac_three_phase"
)

// DefaultMaxVoltageDropPct is the drop above which a larger cable is chosen.
const DefaultMaxVoltageDropPct = 3.0

// dropFactor is 2 for a go-and-return conductor pair and √3 for three phase.
func (c Circuit) dropFactor() (float64, bool) {
	switch c {
	case CircuitDC, CircuitACSinglePhase:
		return 2, true
	case CircuitACThreePhase:
		return math.Sqrt(3), true
	}
	return 0, false
}

// Input describes one cable run.
type Input struct {
	Name              string        `json:"name,omitempty"`
	DesignCurrentA    float64       `json:"design_current_a"`
	LengthM           float64       `json:"length_m"`
	AmbientTempC      float64       `json:"ambient_temp_c"`
	InstallMethod     InstallMethod `json:"install_method"`
	Circuits          int           `json:"circuits"`
	Material          Material      `json:"material"`
	Circuit           Circuit       `json:"circuit"`
	RatedVoltageV     float64       `json:"rated_voltage_v"`
	MaxVoltageDropPct float64       `json:"max_voltage_drop_pct"`
}

// FromRun converts a design.yaml cable run.
func FromRun(r spec.CableRun) Input {
	return Input{
		Name:              r.Name,
		DesignCurrentA:    r.DesignCurrentA,
		LengthM:           r.LengthM,
		AmbientTempC:      r.AmbientTempC,
		InstallMethod:     InstallMethod(r.InstallMethod),
		Circuits:          r.Circuits,
		Material:          Material(r.Material),
		Circuit:           Circuit(r.Circuit),
		RatedVoltageV:     r.RatedVoltageV,
		MaxVoltageDropPct: r.MaxVoltageDropPct,
	}
}

// Derating is the breakdown of the applied multipliers.
type Derating struct {
	Temperature float64 `json:"temperature"`
	Grouping    float64 `json:"grouping"`
	Total       float64 `json:"total"`
}

// Result is the outcome of sizing one run. When IsAdequate is false the
// selection is the best effort (largest or last-tried cable) and
// NoSuitableCable says why.
type Result struct {
	Name                    string    `json:"name,omitempty"`
	Derating                Derating  `json:"derating"`
	RequiredAmpacityA       float64   `json:"required_ampacity_a"`
	DeratedAmpacityA        float64   `json:"derated_ampacity_a"`
	SelectedCable           CableSpec `json:"selected_cable"`
	VoltageDropV            float64   `json:"voltage_drop_v"`
	VoltageDropPercent      float64   `json:"voltage_drop_percent"`
	PowerLossKW             float64   `json:"power_loss_kw"`
	IsAdequate              bool      `json:"is_adequate"`
	EscalatedForVoltageDrop bool      `json:"escalated_for_voltage_drop"`
	NoSuitableCable         bool      `json:"no_suitable_cable"`
	Warnings                []string  `json:"warnings,omitempty"`
}

func (in *Input) validate() error {
	if in.DesignCurrentA <= 0 {
		return validation.Invalid("design_current_a", in.DesignCurrentA, "must be greater than 0")
	}
	if in.LengthM <= 0 {
		return validation.Invalid("length_m", in.LengthM, "must be greater than 0")
	}
	if in.Circuits < 1 {
		return validation.Invalid("circuits", in.Circuits, "must be at least 1")
	}
	if in.RatedVoltageV <= 0 {
		return validation.Invalid("rated_voltage_v", in.RatedVoltageV, "must be greater than 0")
	}
	if in.MaxVoltageDropPct < 0 {
		return validation.Invalid("max_voltage_drop_pct", in.MaxVoltageDropPct, "must not be negative")
	}
	switch in.Material {
	case Copper, Aluminium:
	default:
		return validation.Invalid("material", in.Material, "must be copper or aluminium")
	}
	switch in.InstallMethod {
	case FreeAir, DirectBuried, Conduit, ClippedDirect:
	default:
		return validation.Invalid("install_method", in.InstallMethod, "unknown installation method")
	}
	if _, ok := in.Circuit.dropFactor(); !ok {
		return validation.Invalid("circuit", in.Circuit, "must be dc, ac_single_phase or ac_three_phase")
	}
	return nil
}

// voltageDrop returns the drop in volts and as a percentage of the rated
// voltage for cable c.
func voltageDrop(in Input, c CableSpec) (float64, float64) {
	k, _ := in.Circuit.dropFactor()
	v := k * in.DesignCurrentA * (in.LengthM / 1000) * c.ResistanceOhmPerKm
	return v, v / in.RatedVoltageV * 100
}

// Size picks the smallest catalog cable whose derated ampacity carries the
// design current, then steps up while the voltage drop exceeds the limit.
// An exhausted catalog is reported through NoSuitableCable, not an error.
func Size(cat *Catalog, in Input) (Result, error) {
	if cat == nil || len(cat.Cables) == 0 {
		return Result{}, validation.Invalid("catalog", 0, "cable catalog is empty")
	}
	if in.Circuit == "" {
		in.Circuit = CircuitDC
	}
	if in.Circuits == 0 {
		in.Circuits = 1
	}
	if in.MaxVoltageDropPct == 0 {
		in.MaxVoltageDropPct = DefaultMaxVoltageDropPct
	}
	if err := in.validate(); err != nil {
		return Result{}, err
	}

	res := Result{Name: in.Name}
	factor := func(typ FactorType, key float64) float64 {
		f, ok := cat.Derating.Factor(in.Material, typ, key)
		if !ok {
			klog.InfoS("Derating factor missing, defaulting to 1.0", "material", in.Material, "factor", typ, "key", key)
			res.Warnings = append(res.Warnings, fmt.Sprintf("no %s derating table for %s, using 1.0", typ, in.Material))
		}
		return f
	}
	res.Derating.Temperature = factor(FactorTemperature, in.AmbientTempC)
	res.Derating.Grouping = factor(FactorGrouping, float64(in.Circuits))
	res.Derating.Total = res.Derating.Temperature * res.Derating.Grouping
	if res.Derating.Total <= 0 {
		return Result{}, &validation.DomainError{Op: "cable sizing", Reason: "total derating factor must be greater than 0"}
	}
	res.RequiredAmpacityA = in.DesignCurrentA / res.Derating.Total

	var rated []CableSpec
	for _, c := range cat.ByMaterial(in.Material) {
		if _, ok := c.RatedAmpacity(in.InstallMethod); ok {
			rated = append(rated, c)
		}
	}
	if len(rated) == 0 {
		return Result{}, validation.Invalid("install_method", in.InstallMethod,
			fmt.Sprintf("catalog has no %s cables rated for this method", in.Material))
	}

	idx := -1
	for i, c := range rated {
		a, _ := c.RatedAmpacity(in.InstallMethod)
		if a >= res.RequiredAmpacityA {
			idx = i
			break
		}
	}

	ampacityOK := idx >= 0
	if !ampacityOK {
		idx = len(rated) - 1
		res.Warnings = append(res.Warnings, fmt.Sprintf("no catalog cable carries %.1f A, largest selected", res.RequiredAmpacityA))
	}

	dropOK := false
	for {
		res.VoltageDropV, res.VoltageDropPercent = voltageDrop(in, rated[idx])
		if res.VoltageDropPercent <= in.MaxVoltageDropPct {
			dropOK = true
			break
		}
		if idx == len(rated)-1 {
			break
		}
		idx++
		res.EscalatedForVoltageDrop = true
	}
	if !dropOK {
		res.Warnings = append(res.Warnings, fmt.Sprintf("voltage drop %.2f%% exceeds %.2f%% on the largest cable",
			res.VoltageDropPercent, in.MaxVoltageDropPct))
	}

	sel := rated[idx]
	a, _ := sel.RatedAmpacity(in.InstallMethod)
	res.SelectedCable = sel
	res.DeratedAmpacityA = a * res.Derating.Total
	res.PowerLossKW = in.DesignCurrentA * in.DesignCurrentA * sel.ResistanceOhmPerKm * (in.LengthM / 1000) / 1000
	res.IsAdequate = ampacityOK && dropOK
	res.NoSuitableCable = !res.IsAdequate
	return res, nil
}
