package mailer

import (
	"errors"
	"fmt"
	"time"
)

// Predefined sentinel errors for common cases.
var (
	// ErrTemplateNotFound indicates a requested template was not found.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrRateLimited indicates the operation was rate limited.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidConfiguration indicates invalid configuration.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrClientClosed indicates the client has been closed.
	ErrClientClosed = errors.New("client closed")
)

// RateLimitError represents a rate limiting failure with retry information.
type RateLimitError struct {
	// Message is the error message.
	Message string

	// RetryAfterDuration indicates when a permit should become available.
	RetryAfterDuration time.Duration
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: %s (retry after %v)", e.Message, e.RetryAfterDuration)
}

// Is implements error matching for errors.Is.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// RetryAfter returns the suggested wait before trying again.
func (e *RateLimitError) RetryAfter() time.Duration {
	return e.RetryAfterDuration
}

// NewRateLimitError creates a new rate limit error.
func NewRateLimitError(message string, retryAfter time.Duration) *RateLimitError {
	return &RateLimitError{
		Message:            message,
		RetryAfterDuration: retryAfter,
	}
}
