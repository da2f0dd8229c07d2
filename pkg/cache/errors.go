package cache

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/jsongraph/pkg/httputil"
)

// ErrNetwork marks failures talking to a remote backend.
var ErrNetwork = errors.New("network error")

// Retryable marks err as transient so [RetryWithBackoff] attempts it again.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &httputil.RetryableError{Err: err}
}

// IsRetryable reports whether err was marked with [Retryable].
func IsRetryable(err error) bool {
	return errors.As(err, new(*httputil.RetryableError))
}

// backendAttempts bounds the tries of a single backend call.
const backendAttempts = 3

// retryDelay is the first backoff interval; tests shorten it.
var retryDelay = 100 * time.Millisecond

// RetryWithBackoff runs a backend call, repeating transient failures with a
// doubling delay.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return httputil.Retry(ctx, backendAttempts, retryDelay, fn)
}
