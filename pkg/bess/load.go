package bess

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/spec"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/validation"
)

// Solar window used to split an hourly profile, [start, end).
const (
	SolarStartHour = 6
	SolarEndHour   = 18
)

// LoadSplit is a daily profile divided into solar and non-solar hours.
type LoadSplit struct {
	DaytimeKWh      float64 `json:"daytime_kwh"`
	NighttimeKWh    float64 `json:"nighttime_kwh"`
	DaytimePeakKW   float64 `json:"daytime_peak_kw"`
	NighttimePeakKW float64 `json:"nighttime_peak_kw"`
}

// PeakKW is the larger of the two peaks.
func (l LoadSplit) PeakKW() float64 {
	return max(l.DaytimePeakKW, l.NighttimePeakKW)
}

// SplitLoad divides a 24-hour profile (kWh per hour) into the hours in
// [solarStart, solarEnd) and the rest.
func SplitLoad(hourly []float64, solarStart, solarEnd int) (LoadSplit, error) {
	if len(hourly) != 24 {
		return LoadSplit{}, validation.Invalid("hourly_load_kwh", len(hourly), "must have 24 values")
	}
	if solarStart < 0 || solarEnd > 24 || solarStart >= solarEnd {
		return LoadSplit{}, validation.Invalid("solar_window", fmt.Sprintf("%d-%d", solarStart, solarEnd), "must satisfy 0 <= start < end <= 24")
	}
	for h, v := range hourly {
		if v < 0 {
			return LoadSplit{}, validation.Invalid(fmt.Sprintf("hourly_load_kwh[%d]", h), v, "must not be negative")
		}
	}

	day := hourly[solarStart:solarEnd]
	night := append(append([]float64{}, hourly[:solarStart]...), hourly[solarEnd:]...)

	split := LoadSplit{
		DaytimeKWh:    floats.Sum(day),
		DaytimePeakKW: floats.Max(day),
	}
	if len(night) > 0 {
		split.NighttimeKWh = floats.Sum(night)
		split.NighttimePeakKW = floats.Max(night)
	}
	return split, nil
}

// FromStorage builds sizing inputs from a design.yaml storage block. An
// hourly profile replaces the daily totals and supplies the peak load when
// none is given. fallbackPSH is used when the block has no peak sun hours.
func FromStorage(st spec.StorageDef, fallbackPSH float64) (Inputs, Coupling, error) {
	in := Inputs{
		DaytimeLoadKWh:      st.DaytimeLoadKWh,
		NighttimeLoadKWh:    st.NighttimeLoadKWh,
		AutonomyDays:        st.AutonomyDays,
		RoundTripEfficiency: st.RoundTripEfficiency,
		DepthOfDischarge:    st.DepthOfDischarge,
		CRate:               st.CRate,
		PeakLoadKW:          st.PeakLoadKW,
		NighttimePeakKW:     st.NighttimePeakKW,
		PeakSunHours:        st.PeakSunHours,
		SystemDerate:        st.SystemDerate,
		InverterEfficiency:  st.InverterEfficiency,
		DCACRatio:           st.DCACRatio,
	}
	if len(st.HourlyLoadKWh) > 0 {
		split, err := SplitLoad(st.HourlyLoadKWh, SolarStartHour, SolarEndHour)
		if err != nil {
			return Inputs{}, "", err
		}
		in.DaytimeLoadKWh = split.DaytimeKWh
		in.NighttimeLoadKWh = split.NighttimeKWh
		if in.PeakLoadKW == 0 {
			in.PeakLoadKW = split.PeakKW()
		}
		if in.NighttimePeakKW == 0 {
			in.NighttimePeakKW = split.NighttimePeakKW
		}
	}
	if in.PeakSunHours == 0 {
		in.PeakSunHours = fallbackPSH
	}
	return in, Coupling(st.Coupling), nil
}
