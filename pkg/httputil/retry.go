package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a transient failure: a dropped connection, 429, or
// a 5xx from the origin. [Retry] repeats calls that fail with it.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry calls fn until it succeeds, fails permanently, or has been tried
// attempts times. The wait starts at delay and doubles after every
// transient failure. Cancelling ctx during a wait returns ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || attempt >= attempts || !errors.As(err, new(*RetryableError)) {
			return err
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}

// retryDelay is the first wait of [RetryWithBackoff].
var retryDelay = time.Second

// RetryWithBackoff is [Retry] with three attempts starting one second apart.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, retryDelay, fn)
}
