package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNetwork marks redis connection failures and timeouts. Such errors
	// are retried by RetryWithBackoff.
	ErrNetwork = errors.New("cache backend unreachable")

	// ErrCacheMiss signals a missing key inside a backend. Cache.Get reports
	// misses as (nil, false, nil) instead.
	ErrCacheMiss = errors.New("cache miss")
)

// RetryableError marks an error as transient.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err's chain holds a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryAttempts and RetryDelay tune RetryWithBackoff. The delay doubles
// after each failed attempt.
var (
	RetryAttempts = 3
	RetryDelay    = 200 * time.Millisecond
)

// RetryWithBackoff calls fn until it succeeds, returns a non-retryable
// error, or RetryAttempts calls have failed.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := RetryDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt >= RetryAttempts {
			return err
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
			delay *= 2
		}
	}
}
