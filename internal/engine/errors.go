package engine

import (
	"errors"
	"fmt"
)

// RuntimeError describes why a generation did not produce a sequence.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// RunID identifies the affected generation.
	RunID string

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeBadRequest indicates the generation could not start: settings
	// or the random source are missing.
	ErrCodeBadRequest RuntimeErrorCode = "BAD_REQUEST"

	// ErrCodeAttemptsExhausted indicates the attempt ceiling was reached
	// without a valid sequence.
	ErrCodeAttemptsExhausted RuntimeErrorCode = "ATTEMPTS_EXHAUSTED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.RunID != "" {
		return fmt.Sprintf("%s: %s (run=%s)", e.Code, e.Message, e.RunID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsBadRequest returns true if the error is a bad request error.
// Uses errors.As to handle wrapped errors.
func IsBadRequest(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeBadRequest
	}
	return false
}

// IsAttemptsExhausted returns true if the generation ran out of attempts.
// Uses errors.As to handle wrapped errors.
func IsAttemptsExhausted(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeAttemptsExhausted
	}
	return false
}

// NewBadRequestError creates a RuntimeError for a generation that could not
// start.
func NewBadRequestError(runID, message string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeBadRequest,
		Message: message,
		RunID:   runID,
	}
}

// NewAttemptsExhaustedError creates a RuntimeError for a failed generation.
func NewAttemptsExhaustedError(runID string, attempts, resets int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeAttemptsExhausted,
		Message: fmt.Sprintf("no valid sequence after %d attempts", attempts),
		RunID:   runID,
		Details: map[string]string{
			"attempts": fmt.Sprintf("%d", attempts),
			"resets":   fmt.Sprintf("%d", resets),
		},
	}
}
