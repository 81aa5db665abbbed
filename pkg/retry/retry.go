package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds a retry loop by attempts and by total elapsed time.
// A zero MaxElapsedTime leaves only the attempt bound.
type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	MaxElapsedTime  time.Duration
}

// StartupPolicy keeps dialing a dependency until maxElapsed passes.
func StartupPolicy(maxElapsed time.Duration) Policy {
	return Policy{
		MaxAttempts:     10,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
		MaxElapsedTime:  maxElapsed,
	}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent stops the loop on err.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialInterval
	exp.MaxInterval = p.MaxInterval
	exp.Multiplier = p.Multiplier
	exp.MaxElapsedTime = p.MaxElapsedTime

	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(p.MaxAttempts-1)), ctx)
}

// Retry calls fn until it succeeds, returns a Permanent error, or the policy is exhausted.
func Retry(ctx context.Context, policy Policy, fn func() error) error {
	return RetryWithCallback(ctx, policy, fn, nil)
}

// RetryWithCallback is Retry with a hook invoked before each wait.
func RetryWithCallback(ctx context.Context, policy Policy, fn func() error, onRetry func(attempt int, err error, nextDelay time.Duration)) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := fn()
		var perm *permanentError
		if errors.As(err, &perm) {
			return backoff.Permanent(perm.err)
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		if onRetry != nil {
			onRetry(attempt, err, next)
		}
	}

	return backoff.RetryNotify(operation, policy.backOff(ctx), notify)
}
