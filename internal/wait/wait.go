// Package wait provides a bounded poll-until-condition primitive.
package wait

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultInterval is the polling interval used when none is given.
const DefaultInterval = 500 * time.Millisecond

// ErrTimeout is returned by Until when the condition did not hold in time.
var ErrTimeout = errors.New("condition not met before timeout")

// Condition reports whether the awaited state has been reached. A non-nil
// error aborts the wait unless the condition is wrapped with Ignoring.
type Condition func(ctx context.Context) (bool, error)

var errNotYet = errors.New("not yet")

// Until polls cond every interval until it returns true, returns an error,
// or timeout elapses.
//
// It returns nil on success, ErrTimeout when the timeout elapsed, the
// condition's error when one was returned, and the parent context's error
// when ctx itself was cancelled.
func Until(ctx context.Context, timeout, interval time.Duration, cond Condition) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	op := func() error {
		ok, err := cond(waitCtx)
		if err != nil {
			if waitCtx.Err() != nil {
				// The condition failed because the deadline hit mid-call.
				return errNotYet
			}
			return backoff.Permanent(err)
		}
		if !ok {
			return errNotYet
		}
		return nil
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.NewConstantBackOff(interval), waitCtx))
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, errNotYet), errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	default:
		return err
	}
}

// Ignoring wraps cond so that any of the listed errors counts as "condition
// not yet met" instead of aborting the wait.
func Ignoring(cond Condition, ignored ...error) Condition {
	return func(ctx context.Context) (bool, error) {
		ok, err := cond(ctx)
		if err != nil {
			for _, target := range ignored {
				if errors.Is(err, target) {
					return false, nil
				}
			}
			return false, err
		}
		return ok, nil
	}
}
