// Package waitutil provides the bounded-poll primitive used by the
// readiness waiter (spec.md 4.6): fixed period, fixed deadline, cancellable
// at its next suspension point. Grounded on the teacher's
// modules/event-loop/eventloop goroutine/select idiom and on the rust
// original's wait_for_condition helper.
package waitutil

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when the deadline elapses before the condition
// function reports success.
var ErrTimeout = errors.New("waitutil: condition not met before deadline")

// Clock abstracts wall-clock access so tests can drive deterministic
// timelines (spec.md DESIGN NOTES §9) without real sleeps.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker is the subset of time.Ticker that Poll needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Condition is polled until it returns (true, nil), returns a non-nil
// error, or the deadline elapses. A (false, nil) result means "not ready
// yet, keep polling".
type Condition func(ctx context.Context) (bool, error)

// Poll calls cond once immediately, then every interval, until cond
// succeeds, errors, the deadline elapses (ErrTimeout), or ctx is cancelled.
// No partial work is observable on timeout or cancellation: Poll either
// returns nil (condition met) or a non-nil error.
func Poll(ctx context.Context, clock Clock, timeout, interval time.Duration, cond Condition) error {
	if clock == nil {
		clock = RealClock{}
	}
	deadline := clock.Now().Add(timeout)

	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	check := func() (bool, error) {
		if clock.Now().After(deadline) {
			return false, ErrTimeout
		}
		return cond(ctx)
	}

	ok, err := check()
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			ok, err := check()
			if err != nil {
				return err
			}
			if ok {
				return nil
			}
		}
	}
}

// RealClock is the production Clock backed by the standard library.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) NewTicker(d time.Duration) Ticker {
	return realTicker{time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }
