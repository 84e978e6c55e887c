package irradiance

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"k8s.io/klog/v2"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/validation"
)

// Default retry policy for remote providers.
const (
	DefaultAttempts       = 3
	DefaultInitialBackoff = 500 * time.Millisecond
	DefaultTimeout        = 10 * time.Second
)

// Retrying wraps a Provider with a per-attempt timeout and exponential
// backoff between attempts. Cancelling the caller's context stops it at once.
type Retrying struct {
	Provider       Provider
	Attempts       int
	InitialBackoff time.Duration
	Timeout        time.Duration
	Observer       Observer
}

// NewRetrying wraps p with the default policy.
func NewRetrying(p Provider) *Retrying {
	return &Retrying{
		Provider:       p,
		Attempts:       DefaultAttempts,
		InitialBackoff: DefaultInitialBackoff,
		Timeout:        DefaultTimeout,
	}
}

func (r *Retrying) Name() string { return providerName(r.Provider) }

// Monthly implements Provider. Exhausted retries and permanent failures are
// returned as *validation.ExternalServiceError.
func (r *Retrying) Monthly(ctx context.Context, req Request) (Monthly, error) {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.InitialBackoff
	if b.InitialInterval <= 0 {
		b.InitialInterval = DefaultInitialBackoff
	}
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)

	name := r.Name()
	var result Monthly
	tried := 0
	op := func() error {
		tried++
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		start := time.Now()
		m, err := r.Provider.Monthly(attemptCtx, req)
		switch {
		case err == nil:
			r.observe(name, OutcomeSuccess, time.Since(start))
			result = m
			return nil
		case ctx.Err() != nil:
			r.observe(name, OutcomeCancelled, time.Since(start))
			return backoff.Permanent(ctx.Err())
		default:
			r.observe(name, OutcomeError, time.Since(start))
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
	}
	notify := func(err error, wait time.Duration) {
		klog.V(2).InfoS("Irradiance request failed, retrying",
			"provider", name,
			"attempt", tried,
			"maxAttempts", attempts,
			"backoff", wait,
			"err", err)
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return Monthly{}, &validation.ExternalServiceError{Service: name, Attempts: tried, Err: err}
	}
	return result, nil
}

func (r *Retrying) observe(name string, outcome Outcome, took time.Duration) {
	if r.Observer != nil {
		r.Observer.ObserveIrradianceRequest(name, outcome, took)
	}
}

func retryable(err error) bool {
	if errors.Is(err, validation.ErrValidation) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}
