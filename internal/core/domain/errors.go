package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the credentials cannot access the entity.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates the run configuration is incomplete or wrong.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrAuthInvalid indicates the authentication credentials were rejected.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrRetriesExhausted indicates rate limiting persisted past the retry ceiling.
	// It is the only error that aborts a whole run.
	ErrRetriesExhausted = errors.New("max retries exceeded due to rate limiting")

	// ErrRepositoryUnavailable indicates the version-control backend could not be used.
	ErrRepositoryUnavailable = errors.New("repository unavailable")
)

// DefaultRetryAfter is used when a rate-limited response carries no wait hint.
const DefaultRetryAfter = time.Second

// RateLimitError is returned by a WikiClient when the remote answered
// HTTP 429. RetryAfter is nil when the response carried no Retry-After header.
type RateLimitError struct {
	StatusCode int
	RetryAfter *time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter == nil {
		return fmt.Sprintf("rate limited (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("rate limited (status %d), retry after %s", e.StatusCode, *e.RetryAfter)
}

// Unwrap lets errors.Is(err, ErrRateLimited) match.
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// Wait returns the server-supplied wait, or DefaultRetryAfter when absent.
// A zero wait is honoured as "retry immediately".
func (e *RateLimitError) Wait() time.Duration {
	if e.RetryAfter == nil || *e.RetryAfter < 0 {
		return DefaultRetryAfter
	}
	return *e.RetryAfter
}

// AsRateLimit reports whether err is (or wraps) a RateLimitError.
func AsRateLimit(err error) (*RateLimitError, bool) {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl, true
	}
	return nil, false
}
