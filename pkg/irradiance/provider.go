package irradiance

import (
	"context"
	"fmt"
	"time"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/spec"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/validation"
)

// Monthly holds plane-of-array irradiance per calendar month in kWh/m²/day.
type Monthly [12]float64

// Mean returns the average daily irradiance across the year weighted by
// month length, which is also the annual mean peak sun hours.
func (m Monthly) Mean() float64 {
	days := [12]float64{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	total := 0.0
	for i, v := range m {
		total += v * days[i]
	}
	return total / 365
}

// FromSlice converts a 12-value slice to Monthly.
func FromSlice(values []float64) (Monthly, error) {
	var m Monthly
	if len(values) != 12 {
		return m, validation.Invalid("irradiance", len(values), "need exactly 12 monthly values")
	}
	for i, v := range values {
		if v < 0 {
			return m, validation.Invalid(fmt.Sprintf("irradiance[%d]", i), v, "must not be negative")
		}
		m[i] = v
	}
	return m, nil
}

// Request describes the array whose irradiance is wanted. AzimuthDeg uses
// 0 = south. Typical-year providers ignore Start and End.
type Request struct {
	Location   spec.Location
	TiltDeg    float64
	AzimuthDeg float64
	ArrayType  spec.ArrayType
	LossesPct  float64
	CapacityKW float64
	Start, End time.Time
}

// RequestFor builds a Request from a design's location and array.
func RequestFor(loc spec.Location, sys spec.SystemSpec) Request {
	return Request{
		Location:   loc,
		TiltDeg:    sys.TiltDeg,
		AzimuthDeg: sys.AzimuthDeg,
		ArrayType:  sys.ArrayType,
		LossesPct:  sys.LossPct,
		CapacityKW: sys.CapacityKW,
	}
}

// Provider supplies monthly irradiance for a site.
type Provider interface {
	Monthly(ctx context.Context, req Request) (Monthly, error)
}

// Named is implemented by providers that report a name for logs and metrics.
type Named interface {
	Name() string
}

func providerName(p Provider) string {
	if n, ok := p.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", p)
}

// Outcome labels the result of one provider call.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeError     Outcome = "error"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeCacheHit  Outcome = "cache_hit"
)

// Observer records provider calls, typically into metrics.
type Observer interface {
	ObserveIrradianceRequest(provider string, outcome Outcome, took time.Duration)
}

// StatusError is a non-200 reply from a remote provider.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether retrying might succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
