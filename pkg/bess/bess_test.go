package bess

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/spec"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/validation"
)

func baseInputs() Inputs {
	return Inputs{
		DaytimeLoadKWh:      220,
		NighttimeLoadKWh:    80,
		AutonomyDays:        1,
		RoundTripEfficiency: 0.9,
		DepthOfDischarge:    0.9,
		CRate:               0.5,
		PeakLoadKW:          45,
		PeakSunHours:        5.5,
		SystemDerate:        0.85,
		InverterEfficiency:  0.96,
	}
}

func TestCore(t *testing.T) {
	s, err := Core(baseInputs())
	require.NoError(t, err)

	battery := 80 * 1 / (0.9 * math.Sqrt(0.9))
	assert.InDelta(t, battery, s.BatteryCapacityKWh, 1e-9)
	assert.InDelta(t, (220+80/0.9)/(5.5*0.85), s.PVCapacityKW, 1e-9)
	assert.InDelta(t, math.Max(45, battery*0.5), s.InverterKW, 1e-9)
	assert.InDelta(t, battery*0.9, s.UsableCapacityKWh, 1e-9)
}

func TestVariantsMatchCoreWhenLossless(t *testing.T) {
	in := baseInputs()
	in.InverterEfficiency = 1
	core, err := Core(in)
	require.NoError(t, err)

	for _, c := range []Coupling{CouplingDC, CouplingAC, CouplingHybrid} {
		s, err := Size(c, in)
		require.NoError(t, err)
		assert.Equal(t, c, s.Coupling)
		assert.InDelta(t, core.BatteryCapacityKWh, s.BatteryCapacityKWh, 1e-9, "%s battery", c)
		assert.InDelta(t, core.PVCapacityKW, s.PVCapacityKW, 1e-9, "%s pv", c)
	}
}

func TestConversionStagesPerVariant(t *testing.T) {
	in := baseInputs()
	core, err := Core(in)
	require.NoError(t, err)

	dc, err := DCCoupled{}.Size(in)
	require.NoError(t, err)
	ac, err := ACCoupled{}.Size(in)
	require.NoError(t, err)
	hy, err := Hybrid{}.Size(in)
	require.NoError(t, err)

	assert.InDelta(t, core.BatteryCapacityKWh/0.96, dc.BatteryCapacityKWh, 1e-9)
	assert.InDelta(t, core.BatteryCapacityKWh/(0.96*0.96), ac.BatteryCapacityKWh, 1e-9)
	assert.InDelta(t, dc.BatteryCapacityKWh, hy.BatteryCapacityKWh, 1e-9)

	// AC coupling crosses two stages so it needs the most storage and PV.
	assert.Greater(t, ac.BatteryCapacityKWh, dc.BatteryCapacityKWh)
	assert.Greater(t, ac.PVCapacityKW, dc.PVCapacityKW)
	assert.Greater(t, dc.PVCapacityKW, core.PVCapacityKW)
}

func TestInverterRules(t *testing.T) {
	in := baseInputs()

	dc, err := DCCoupled{}.Size(in)
	require.NoError(t, err)
	assert.InDelta(t, math.Max(45, dc.BatteryCapacityKWh*0.5), dc.InverterKW, 1e-9)
	assert.Zero(t, dc.PVInverterKW)

	ac, err := ACCoupled{}.Size(in)
	require.NoError(t, err)
	assert.InDelta(t, math.Max(45*1.2, ac.BatteryCapacityKWh*0.5), ac.InverterKW, 1e-9)
	assert.InDelta(t, ac.PVCapacityKW/DefaultDCACRatio, ac.PVInverterKW, 1e-9)

	hy, err := Hybrid{}.Size(in)
	require.NoError(t, err)
	discharge := hy.BatteryCapacityKWh * 0.5
	want := max(45, hy.PVCapacityKW/1.2, 45+discharge*0.6, discharge)
	assert.InDelta(t, want, hy.InverterKW, 1e-9)
	assert.GreaterOrEqual(t, hy.InverterKW, in.PeakLoadKW)
}

func TestACInverterUsesNightPeak(t *testing.T) {
	in := baseInputs()
	in.NighttimePeakKW = 60

	ac, err := ACCoupled{}.Size(in)
	require.NoError(t, err)
	assert.InDelta(t, math.Max(60*1.2, ac.DischargePowerKW), ac.InverterKW, 1e-9)
	assert.InDelta(t, 72, ac.InverterKW, 1e-9)

	// A small night peak leaves the C-rate power in charge.
	in.NighttimePeakKW = 5
	ac, err = ACCoupled{}.Size(in)
	require.NoError(t, err)
	assert.InDelta(t, ac.DischargePowerKW, ac.InverterKW, 1e-9)

	// The other couplings size on the overall peak only.
	dc, err := DCCoupled{}.Size(in)
	require.NoError(t, err)
	assert.InDelta(t, math.Max(45, dc.DischargePowerKW), dc.InverterKW, 1e-9)
}

func TestPVIncreasesWithNightLoad(t *testing.T) {
	for _, c := range []Coupling{CouplingDC, CouplingAC, CouplingHybrid} {
		prev := -1.0
		for night := 0.0; night <= 200; night += 10 {
			in := baseInputs()
			in.NighttimeLoadKWh = night
			s, err := Size(c, in)
			require.NoError(t, err)
			assert.Greater(t, s.PVCapacityKW, prev, "%s at night load %.0f", c, night)
			prev = s.PVCapacityKW
		}
	}
}

func TestSizeValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Inputs)
	}{
		{"rte zero", func(in *Inputs) { in.RoundTripEfficiency = 0 }},
		{"rte above one", func(in *Inputs) { in.RoundTripEfficiency = 1.1 }},
		{"dod zero", func(in *Inputs) { in.DepthOfDischarge = 0 }},
		{"dod above one", func(in *Inputs) { in.DepthOfDischarge = 1.5 }},
		{"inverter efficiency", func(in *Inputs) { in.InverterEfficiency = 1.2 }},
		{"autonomy", func(in *Inputs) { in.AutonomyDays = -1 }},
		{"c-rate", func(in *Inputs) { in.CRate = 0 }},
		{"peak sun hours", func(in *Inputs) { in.PeakSunHours = 0 }},
		{"negative load", func(in *Inputs) { in.NighttimeLoadKWh = -5 }},
		{"negative night peak", func(in *Inputs) { in.NighttimePeakKW = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInputs()
			tt.mutate(&in)
			for _, c := range []Coupling{CouplingDC, CouplingAC, CouplingHybrid} {
				_, err := Size(c, in)
				assert.True(t, errors.Is(err, validation.ErrValidation), "%s: got %v", c, err)
			}
		})
	}
}

func TestZeroAutonomyNeedsNoBattery(t *testing.T) {
	in := baseInputs()
	in.AutonomyDays = 0
	s, err := Size(CouplingDC, in)
	require.NoError(t, err)
	assert.Zero(t, s.BatteryCapacityKWh)
	assert.Equal(t, 45.0, s.InverterKW)
}

func TestForUnknownCoupling(t *testing.T) {
	_, err := For("wireless")
	assert.True(t, errors.Is(err, validation.ErrValidation))

	s, err := For(CouplingHybrid)
	require.NoError(t, err)
	assert.Equal(t, CouplingHybrid, s.Variant())
}

func TestSplitLoad(t *testing.T) {
	hourly := make([]float64, 24)
	for h := range hourly {
		hourly[h] = 2
	}
	hourly[19] = 9
	hourly[12] = 7

	split, err := SplitLoad(hourly, SolarStartHour, SolarEndHour)
	require.NoError(t, err)
	assert.InDelta(t, 11*2+7, split.DaytimeKWh, 1e-9)
	assert.InDelta(t, 11*2+9, split.NighttimeKWh, 1e-9)
	assert.Equal(t, 7.0, split.DaytimePeakKW)
	assert.Equal(t, 9.0, split.NighttimePeakKW)
	assert.Equal(t, 9.0, split.PeakKW())

	_, err = SplitLoad(hourly[:23], SolarStartHour, SolarEndHour)
	assert.True(t, errors.Is(err, validation.ErrValidation))
	_, err = SplitLoad(hourly, 18, 6)
	assert.True(t, errors.Is(err, validation.ErrValidation))
	hourly[3] = -1
	_, err = SplitLoad(hourly, SolarStartHour, SolarEndHour)
	assert.True(t, errors.Is(err, validation.ErrValidation))
}

func TestFromStorage(t *testing.T) {
	hourly := make([]float64, 24)
	for h := range hourly {
		hourly[h] = 1
	}
	hourly[20] = 5
	st := spec.StorageDef{
		Coupling:            "ac",
		HourlyLoadKWh:       hourly,
		AutonomyDays:        1,
		RoundTripEfficiency: 0.9,
		DepthOfDischarge:    0.9,
		CRate:               0.5,
	}

	in, c, err := FromStorage(st, 5.2)
	require.NoError(t, err)
	assert.Equal(t, CouplingAC, c)
	assert.InDelta(t, 12, in.DaytimeLoadKWh, 1e-9)
	assert.InDelta(t, 16, in.NighttimeLoadKWh, 1e-9)
	assert.Equal(t, 5.0, in.PeakLoadKW)
	assert.Equal(t, 5.0, in.NighttimePeakKW)
	assert.Equal(t, 5.2, in.PeakSunHours)

	sz, err := Size(c, in)
	require.NoError(t, err)
	assert.InDelta(t, math.Max(5*1.2, sz.DischargePowerKW), sz.InverterKW, 1e-9)

	st.PeakSunHours = 6
	st.PeakLoadKW = 8
	in, _, err = FromStorage(st, 5.2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, in.PeakSunHours)
	assert.Equal(t, 8.0, in.PeakLoadKW)
}
