// Package bess sizes battery storage, PV and inverters from a daily load
// split. Each coupling variant is its own Sizer because conversion losses
// fall at different points.
package bess

import (
	"fmt"
	"math"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/validation"
)

// Coupling is the closed set of battery couplings.
type Coupling string

const (
	CouplingDC     Coupling = "dc"
	CouplingAC     Coupling = "ac"
	CouplingHybrid Coupling = "hybrid"
)

const (
	DefaultSystemDerate = 0.85
	DefaultDCACRatio    = 1.25

	// acBatteryInverterMargin oversizes an AC-coupled battery inverter over
	// the peak load.
	acBatteryInverterMargin = 1.2
	// hybridPVRatio is the PV-to-inverter oversizing a hybrid inverter accepts.
	hybridPVRatio = 1.2
	// hybridDischargeShare is the share of battery discharge power assumed
	// to coincide with the peak load.
	hybridDischargeShare = 0.6
)

// Inputs are the daily energy figures and battery parameters. A zero
// InverterEfficiency means lossless conversion.
type Inputs struct {
	DaytimeLoadKWh      float64 `json:"daytime_load_kwh"`
	NighttimeLoadKWh    float64 `json:"nighttime_load_kwh"`
	AutonomyDays        float64 `json:"autonomy_days"`
	RoundTripEfficiency float64 `json:"round_trip_efficiency"`
	DepthOfDischarge    float64 `json:"depth_of_discharge"`
	CRate               float64 `json:"c_rate"`
	PeakLoadKW          float64 `json:"peak_load_kw"`
	NighttimePeakKW     float64 `json:"nighttime_peak_kw"` // AC battery inverter basis; 0 falls back to PeakLoadKW
	PeakSunHours        float64 `json:"peak_sun_hours"`
	SystemDerate        float64 `json:"system_derate"`
	InverterEfficiency  float64 `json:"inverter_efficiency"`
	DCACRatio           float64 `json:"dc_ac_ratio"`
}

// Sizing is the result of one sizing call.
type Sizing struct {
	Coupling           Coupling `json:"coupling"`
	DaytimeLoadKWh     float64  `json:"daytime_load_kwh"`
	NighttimeLoadKWh   float64  `json:"nighttime_load_kwh"`
	BatteryCapacityKWh float64  `json:"battery_capacity_kwh"`
	UsableCapacityKWh  float64  `json:"usable_capacity_kwh"`
	PVCapacityKW       float64  `json:"pv_capacity_kw"`
	InverterKW         float64  `json:"inverter_kw"`
	PVInverterKW       float64  `json:"pv_inverter_kw,omitempty"`
	DischargePowerKW   float64  `json:"discharge_power_kw"`
}

// Sizer sizes a system for one coupling variant.
type Sizer interface {
	Variant() Coupling
	Size(Inputs) (Sizing, error)
}

// For returns the Sizer for c.
func For(c Coupling) (Sizer, error) {
	switch c {
	case CouplingDC:
		return DCCoupled{}, nil
	case CouplingAC:
		return ACCoupled{}, nil
	case CouplingHybrid:
		return Hybrid{}, nil
	}
	return nil, validation.Invalid("coupling", c, "must be dc, ac or hybrid")
}

func unitInterval(field string, v float64) error {
	if v <= 0 || v > 1 {
		return validation.Invalid(field, v, "must be in (0, 1]")
	}
	return nil
}

// normalize fills defaults and validates.
func (in Inputs) normalize() (Inputs, error) {
	if in.SystemDerate == 0 {
		in.SystemDerate = DefaultSystemDerate
	}
	if in.InverterEfficiency == 0 {
		in.InverterEfficiency = 1
	}
	if in.DCACRatio == 0 {
		in.DCACRatio = DefaultDCACRatio
	}

	for _, c := range []struct {
		field string
		v     float64
	}{
		{"round_trip_efficiency", in.RoundTripEfficiency},
		{"depth_of_discharge", in.DepthOfDischarge},
		{"system_derate", in.SystemDerate},
		{"inverter_efficiency", in.InverterEfficiency},
	} {
		if err := unitInterval(c.field, c.v); err != nil {
			return in, err
		}
	}
	switch {
	case in.DaytimeLoadKWh < 0:
		return in, validation.Invalid("daytime_load_kwh", in.DaytimeLoadKWh, "must not be negative")
	case in.NighttimeLoadKWh < 0:
		return in, validation.Invalid("nighttime_load_kwh", in.NighttimeLoadKWh, "must not be negative")
	case in.AutonomyDays < 0:
		return in, validation.Invalid("autonomy_days", in.AutonomyDays, "must not be negative")
	case in.CRate <= 0:
		return in, validation.Invalid("c_rate", in.CRate, "must be greater than 0")
	case in.PeakSunHours <= 0:
		return in, validation.Invalid("peak_sun_hours", in.PeakSunHours, "must be greater than 0")
	case in.PeakLoadKW < 0:
		return in, validation.Invalid("peak_load_kw", in.PeakLoadKW, "must not be negative")
	case in.NighttimePeakKW < 0:
		return in, validation.Invalid("nighttime_peak_kw", in.NighttimePeakKW, "must not be negative")
	case in.DCACRatio <= 0:
		return in, validation.Invalid("dc_ac_ratio", in.DCACRatio, "must be greater than 0")
	}
	return in, nil
}

// sizeWithLoss is the shared sizing with stageLoss applied to the energy
// that passes through the battery. stageLoss of 1 is the lossless core.
func sizeWithLoss(in Inputs, c Coupling, stageLoss float64) Sizing {
	battery := in.NighttimeLoadKWh * in.AutonomyDays /
		(in.DepthOfDischarge * math.Sqrt(in.RoundTripEfficiency) * stageLoss)
	pv := (in.DaytimeLoadKWh + in.NighttimeLoadKWh/(in.RoundTripEfficiency*stageLoss)) /
		(in.PeakSunHours * in.SystemDerate)
	discharge := battery * in.CRate
	return Sizing{
		Coupling:           c,
		DaytimeLoadKWh:     in.DaytimeLoadKWh,
		NighttimeLoadKWh:   in.NighttimeLoadKWh,
		BatteryCapacityKWh: battery,
		UsableCapacityKWh:  battery * in.DepthOfDischarge,
		PVCapacityKW:       pv,
		InverterKW:         math.Max(in.PeakLoadKW, discharge),
		DischargePowerKW:   discharge,
	}
}

// Core sizes without conversion losses:
//
//	battery  = night * autonomy / (DOD * sqrt(RTE))
//	pv       = (day + night/RTE) / (PSH * derate)
//	inverter = max(peak, battery * cRate)
func Core(in Inputs) (Sizing, error) {
	in.InverterEfficiency = 1
	in, err := in.normalize()
	if err != nil {
		return Sizing{}, err
	}
	return sizeWithLoss(in, "", 1), nil
}

// DCCoupled shares one inverter between PV and battery. Stored energy
// crosses a single DC to AC stage on its way to the load.
type DCCoupled struct{}

func (DCCoupled) Variant() Coupling { return CouplingDC }

func (DCCoupled) Size(in Inputs) (Sizing, error) {
	in, err := in.normalize()
	if err != nil {
		return Sizing{}, err
	}
	return sizeWithLoss(in, CouplingDC, in.InverterEfficiency), nil
}

// ACCoupled puts the battery behind its own inverter on the AC bus. Stored
// energy is converted AC to DC on charge and DC to AC on discharge. The
// battery inverter carries the night peak with margin, or the battery's
// C-rate power when that is larger.
type ACCoupled struct{}

func (ACCoupled) Variant() Coupling { return CouplingAC }

func (ACCoupled) Size(in Inputs) (Sizing, error) {
	in, err := in.normalize()
	if err != nil {
		return Sizing{}, err
	}
	eta := in.InverterEfficiency
	s := sizeWithLoss(in, CouplingAC, eta*eta)
	s.PVInverterKW = s.PVCapacityKW / in.DCACRatio
	nightPeak := in.NighttimePeakKW
	if nightPeak == 0 {
		nightPeak = in.PeakLoadKW
	}
	s.InverterKW = math.Max(nightPeak*acBatteryInverterMargin, s.DischargePowerKW)
	return s, nil
}

// Hybrid uses one hybrid inverter rated for the PV array and the combined
// battery and load power.
type Hybrid struct{}

func (Hybrid) Variant() Coupling { return CouplingHybrid }

func (Hybrid) Size(in Inputs) (Sizing, error) {
	in, err := in.normalize()
	if err != nil {
		return Sizing{}, err
	}
	s := sizeWithLoss(in, CouplingHybrid, in.InverterEfficiency)
	s.InverterKW = max(
		in.PeakLoadKW,
		s.PVCapacityKW/hybridPVRatio,
		in.PeakLoadKW+s.DischargePowerKW*hybridDischargeShare,
		s.DischargePowerKW,
	)
	return s, nil
}

// Size dispatches to the Sizer for c.
func Size(c Coupling, in Inputs) (Sizing, error) {
	s, err := For(c)
	if err != nil {
		return Sizing{}, err
	}
	out, err := s.Size(in)
	if err != nil {
		return Sizing{}, fmt.Errorf("%s-coupled sizing: %w", c, err)
	}
	return out, nil
}
