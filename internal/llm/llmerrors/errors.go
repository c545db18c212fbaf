// Package llmerrors classifies failures from the remote grading tool so
// orchestration code can branch on failure kind instead of string matching.
// Timeouts are absorbed by local fallbacks, transient provider failures are
// retried, and validation failures fail fast.
package llmerrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorType categorizes tool failures for routing decisions.
type ErrorType string

const (
	// ErrorTypeTimeout marks calls that exceeded their deadline.
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeProvider marks failures reported by the remote provider.
	ErrorTypeProvider ErrorType = "provider"
	// ErrorTypeValidation marks responses that failed schema validation
	// after repair. Never retryable.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeNetwork marks transport failures before a response arrived.
	ErrorTypeNetwork ErrorType = "network"
)

// ToolError is the structured failure for a remote tool call.
type ToolError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("tool %s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("tool %s error: %s", e.Type, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *ToolError) Unwrap() error { return e.Cause }

// Timeout returns a timeout-classified ToolError wrapping cause.
func Timeout(message string, cause error) *ToolError {
	return &ToolError{Type: ErrorTypeTimeout, Message: message, Cause: cause}
}

// Provider returns a provider-classified ToolError for an HTTP status.
func Provider(message string, statusCode int, cause error) *ToolError {
	return &ToolError{Type: ErrorTypeProvider, Message: message, StatusCode: statusCode, Cause: cause}
}

// Validation returns a validation-classified ToolError.
func Validation(message string, cause error) *ToolError {
	return &ToolError{Type: ErrorTypeValidation, Message: message, Cause: cause}
}

// Network returns a network-classified ToolError wrapping cause.
func Network(message string, cause error) *ToolError {
	return &ToolError{Type: ErrorTypeNetwork, Message: message, Cause: cause}
}

// Classify wraps an arbitrary transport error into a ToolError. Deadline and
// net timeout errors become timeouts; everything else is a network failure.
func Classify(err error) *ToolError {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout("deadline exceeded", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout("network timeout", err)
	}
	return Network(err.Error(), err)
}

// IsTimeout reports whether err is classified as a timeout.
func IsTimeout(err error) bool {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Type == ErrorTypeTimeout
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// IsRetryable reports whether a retry could plausibly succeed. Validation
// failures are deterministic and never retryable; rate limiting and server
// errors are; timeouts are handled by fallback rather than retry.
func IsRetryable(err error) bool {
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		return false
	}
	switch toolErr.Type {
	case ErrorTypeValidation, ErrorTypeTimeout:
		return false
	case ErrorTypeNetwork:
		return true
	case ErrorTypeProvider:
		return toolErr.StatusCode == http.StatusTooManyRequests || toolErr.StatusCode >= 500
	default:
		return false
	}
}
