package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNetwork wraps failures to reach a remote cache.
	ErrNetwork = errors.New("network error")

	// ErrUnsupportedURL is returned by Open for a spec it cannot parse.
	ErrUnsupportedURL = errors.New("unsupported cache URL")
)

// RetryableError marks a failure that may succeed when tried again,
// such as a refused connection while a Redis container starts.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. It returns nil for nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is or wraps a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff retries an operation with a doubling delay.
type Backoff struct {
	Attempts int           // total tries, at least 1
	Delay    time.Duration // wait before the second try
}

// DefaultBackoff is used to reach a Redis server.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 250 * time.Millisecond}

// Retry calls fn until it succeeds, fails with an error that is not
// retryable, or the attempts are used up. It returns the last error, or
// the context error if ctx ends while waiting.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	delay := b.Delay
	var err error
	for i := range max(b.Attempts, 1) {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
	}
	return err
}
