package retry

import (
	"context"
	"errors"
	"time"
)

// ErrRetry marks an error as retryable for Blocking.
var ErrRetry = errors.New("retry")

// Backoff is a (blocking) function which returns when to retry.
//
// If the context is canceled while waiting, Backoff returns ctx.Err().
// Otherwise it returns nil, meaning "retry now".
type Backoff func(context.Context) error

// StaticBackoff returns a Backoff waiting for a fixed interval.
var StaticBackoff = func(interval time.Duration) Backoff {
	return ExponentialBackoff(interval, 1)
}

// ExponentialBackoff returns a Backoff with growing intervals.
//
// For the N-th call, it waits for `initialInterval * r^N` or until the
// context is done, whichever comes first.
var ExponentialBackoff = func(initialInterval time.Duration, r float64) Backoff {
	interval := initialInterval
	return func(ctx context.Context) error {
		timer := time.NewTimer(interval)
		defer func() {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			i := float64(interval) * r
			interval = time.Duration(int64(i))
			return nil
		}
	}
}

// Blocking calls f until it returns nil or a non-retry error.
//
// Each attempt is preceded by one backoff wait. When f returns an error
// wrapping ErrRetry, Blocking backs off and calls f again; any other
// error (or a canceled context) stops the loop.
//
// Returns the last value f returned and the error which stopped the
// loop, if any.
func Blocking[T any](ctx context.Context, b Backoff, f func() (T, error)) (T, error) {
	last := *new(T)
	for {
		if err := b(ctx); err != nil {
			return last, err
		}

		var err error
		last, err = f()
		if err == nil {
			return last, nil
		}
		if errors.Is(err, ErrRetry) {
			continue
		}
		return last, err
	}
}
