package energy

import (
	"errors"
	"math"
	"testing"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/irradiance"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/spec"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/validation"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func flat(v float64) irradiance.Monthly {
	var m irradiance.Monthly
	for i := range m {
		m[i] = v
	}
	return m
}

func testSystem() spec.SystemSpec {
	return spec.SystemSpec{
		CapacityKW:       10,
		PerformanceRatio: 0.8,
		LossPct:          14,
		ArrayType:        spec.ArrayFixedOpenRack,
		Inverter:         spec.InverterConfig{Quantity: 1, RatedKW: 10, DCACRatio: 1.2},
	}
}

var testLocation = spec.Location{Latitude: 40, Longitude: -105}

func TestSimulateFlatIrradiance(t *testing.T) {
	ps, err := Simulate(testLocation, testSystem(), flat(5))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	// 10 kW * 5 kWh/m²/day * 31 days * 0.8 * 0.86
	if !approxEqual(ps.Monthly[0], 1066.4, 1e-6) {
		t.Errorf("january: expected 1066.4, got %f", ps.Monthly[0])
	}
	if !approxEqual(ps.AnnualKWh, 12556, 1e-6) {
		t.Errorf("annual: expected 12556, got %f", ps.AnnualKWh)
	}
	if !approxEqual(ps.MinDailyKWh, 34.4, 1e-9) || !approxEqual(ps.MaxDailyKWh, 34.4, 1e-9) {
		t.Errorf("daily range: expected 34.4..34.4, got %f..%f", ps.MinDailyKWh, ps.MaxDailyKWh)
	}
	if !approxEqual(ps.SpecificYield, 1255.6, 1e-6) {
		t.Errorf("specific yield: expected 1255.6, got %f", ps.SpecificYield)
	}
	if len(ps.ClippedMonths) != 0 {
		t.Errorf("expected no clipping, got %v", ps.ClippedMonths)
	}
}

func TestSimulateAnnualIsSumOfMonths(t *testing.T) {
	irr := irradiance.Monthly{3.1, 3.9, 5.0, 6.0, 6.6, 6.9, 6.5, 6.2, 5.6, 4.6, 3.4, 2.9}
	ps, err := Simulate(testLocation, testSystem(), irr)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	sum := 0.0
	for _, v := range ps.Monthly {
		sum += v
	}
	if !approxEqual(sum, ps.AnnualKWh, 1e-6) {
		t.Errorf("annual %f != sum of months %f", ps.AnnualKWh, sum)
	}
	// December is the darkest day, June the brightest.
	if !approxEqual(ps.MinDailyKWh, ps.Monthly[11]/31, 1e-9) {
		t.Errorf("min daily should come from december, got %f", ps.MinDailyKWh)
	}
	if !approxEqual(ps.MaxDailyKWh, ps.Monthly[5]/30, 1e-9) {
		t.Errorf("max daily should come from june, got %f", ps.MaxDailyKWh)
	}
}

func TestSimulateArrayTypeFactor(t *testing.T) {
	open, _ := Simulate(testLocation, testSystem(), flat(5))

	sys := testSystem()
	sys.ArrayType = spec.ArrayFixedRoof
	roof, _ := Simulate(testLocation, sys, flat(5))
	if !approxEqual(roof.AnnualKWh, open.AnnualKWh*0.95, 1e-6) {
		t.Errorf("fixed roof: expected %f, got %f", open.AnnualKWh*0.95, roof.AnnualKWh)
	}

	sys.ArrayType = spec.ArrayTwoAxis
	sys.Inverter.RatedKW = 20
	twoAxis, _ := Simulate(testLocation, sys, flat(5))
	if !approxEqual(twoAxis.AnnualKWh, open.AnnualKWh*1.3, 1e-6) {
		t.Errorf("two axis: expected %f, got %f", open.AnnualKWh*1.3, twoAxis.AnnualKWh)
	}
}

func TestSimulateClipsOversizedArray(t *testing.T) {
	sys := testSystem()
	sys.CapacityKW = 100
	sys.Inverter.RatedKW = 50 // DC/AC 2.0 > 1.2
	irr := flat(5)
	irr[5] = 20

	ps, err := Simulate(testLocation, sys, irr)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	// June is limited to 50 kW * 30 days * 24 h.
	if !approxEqual(ps.Monthly[5], 36000, 1e-6) {
		t.Errorf("june: expected 36000, got %f", ps.Monthly[5])
	}
	if len(ps.ClippedMonths) != 1 || ps.ClippedMonths[0] != 6 {
		t.Errorf("expected june clipped, got %v", ps.ClippedMonths)
	}
	if !approxEqual(ps.Monthly[0], 100*5*31*0.8*0.86, 1e-6) {
		t.Errorf("january should not be clipped, got %f", ps.Monthly[0])
	}
}

func TestSimulateNoClippingWithinRatio(t *testing.T) {
	sys := testSystem()
	irr := flat(5)
	irr[5] = 40
	ps, err := Simulate(testLocation, sys, irr)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if len(ps.ClippedMonths) != 0 {
		t.Errorf("array within DC/AC ratio should not clip, got %v", ps.ClippedMonths)
	}
}

func TestInverterACRatingDerived(t *testing.T) {
	sys := testSystem()
	sys.CapacityKW = 12
	sys.Inverter.RatedKW = 0
	if got := InverterACRating(sys); !approxEqual(got, 10, 1e-9) {
		t.Errorf("expected derived rating 10, got %f", got)
	}
	sys.Inverter.RatedKW = 5
	sys.Inverter.Quantity = 3
	if got := InverterACRating(sys); !approxEqual(got, 15, 1e-9) {
		t.Errorf("expected 3 x 5 = 15, got %f", got)
	}
}

func TestSimulateValidation(t *testing.T) {
	tests := []struct {
		name   string
		loc    spec.Location
		mutate func(*spec.SystemSpec)
		irr    irradiance.Monthly
	}{
		{"latitude", spec.Location{Latitude: 91}, nil, flat(5)},
		{"longitude", spec.Location{Longitude: 200}, nil, flat(5)},
		{"capacity", testLocation, func(s *spec.SystemSpec) { s.CapacityKW = 0 }, flat(5)},
		{"inverter quantity", testLocation, func(s *spec.SystemSpec) { s.Inverter.Quantity = 0 }, flat(5)},
		{"performance ratio", testLocation, func(s *spec.SystemSpec) { s.PerformanceRatio = 0 }, flat(5)},
		{"missing irradiance", testLocation, nil, irradiance.Monthly{}},
		{"negative irradiance", testLocation, nil, flat(-1)},
	}
	for _, tt := range tests {
		sys := testSystem()
		if tt.mutate != nil {
			tt.mutate(&sys)
		}
		_, err := Simulate(tt.loc, sys, tt.irr)
		if !errors.Is(err, validation.ErrValidation) {
			t.Errorf("%s: expected ValidationError, got %v", tt.name, err)
		}
	}
}

func TestProjectNonIncreasing(t *testing.T) {
	for _, rate := range []float64{0, 0.5, 1, 5, 20, 99.9} {
		prod, err := Project(10000, rate, 25)
		if err != nil {
			t.Fatalf("rate %f: %v", rate, err)
		}
		if len(prod) != 25 {
			t.Fatalf("expected 25 years, got %d", len(prod))
		}
		for i := 1; i < len(prod); i++ {
			if prod[i] > prod[i-1] {
				t.Errorf("rate %f: year %d (%f) > year %d (%f)", rate, i, prod[i], i-1, prod[i-1])
			}
		}
	}
}

func TestProjectValues(t *testing.T) {
	prod, err := Project(10000, 0.5, 25)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if prod[0] != 10000 {
		t.Errorf("year 0: expected 10000, got %f", prod[0])
	}
	want := 10000 * math.Pow(0.995, 24)
	if !approxEqual(prod[24], want, 1e-6) {
		t.Errorf("year 24: expected %f, got %f", want, prod[24])
	}
}

func TestProjectDefaultsLifetime(t *testing.T) {
	prod, err := Project(1000, 1, 0)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if len(prod) != DefaultLifetimeYears {
		t.Errorf("expected %d years, got %d", DefaultLifetimeYears, len(prod))
	}
}

func TestProjectValidation(t *testing.T) {
	cases := []struct {
		rate     float64
		lifetime int
	}{
		{-0.1, 25},
		{100.1, 25},
		{0.5, -1},
	}
	for _, c := range cases {
		if _, err := Project(1000, c.rate, c.lifetime); !errors.Is(err, validation.ErrValidation) {
			t.Errorf("rate=%f lifetime=%d: expected ValidationError, got %v", c.rate, c.lifetime, err)
		}
	}
}
