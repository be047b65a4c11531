package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// TransientError marks a retryable failure: network problems, rate limits,
// server-side errors.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// FatalError marks a non-retryable failure: bad credentials, permission
// denied, malformed request. Surfaced immediately, never retried.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: %v", e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether the error is retryable.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// IsFatal reports whether the error must not be retried.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

var fatalMarkers = []string{
	"401", "403",
	"unauthorized",
	"forbidden",
	"invalid api key",
	"invalid_api_key",
	"api key not valid",
	"permission denied",
	"authentication",
}

var transientMarkers = []string{
	"429", "500", "502", "503", "504",
	"rate limit",
	"overloaded",
	"timeout",
	"deadline exceeded",
	"connection reset",
	"connection refused",
	"temporarily unavailable",
	"ECONNRESET",
	"ETIMEDOUT",
}

// Classify wraps a raw provider error as TransientError or FatalError.
// Already-classified errors and context cancellation pass through
// unchanged. Unrecognized errors are treated as transient, matching the
// retry-everything-but-auth posture toward an opaque vendor API.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if IsTransient(err) || IsFatal(err) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range fatalMarkers {
		if strings.Contains(msg, strings.ToLower(marker)) {
			return &FatalError{Err: err}
		}
	}
	for _, marker := range transientMarkers {
		if strings.Contains(msg, strings.ToLower(marker)) {
			return &TransientError{Err: err}
		}
	}

	return &TransientError{Err: err}
}
