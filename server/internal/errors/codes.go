package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/hrygo/ctparse/plugin/ctparse"
)

// ErrorCode represents a specific error type for parse operations.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeNoParse indicates the text holds no time expression. It is not a fault.
	ErrCodeNoParse ErrorCode = "NO_PARSE"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeRateLimitExceeded indicates rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// ParseError represents a structured error for the HTTP layer.
type ParseError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *ParseError) WithContext(key string, value any) *ParseError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// HTTPStatus maps the code onto a response status.
func (e *ParseError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case ErrCodeNoParse:
		return http.StatusOK
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *ParseError {
	return &ParseError{Code: ErrCodeInvalidArgument, Message: msg}
}

// NoParse creates a no-parse error.
func NoParse() *ParseError {
	return &ParseError{Code: ErrCodeNoParse, Message: "no time expression found"}
}

// Timeout creates a timeout error.
func Timeout(msg string) *ParseError {
	return &ParseError{Code: ErrCodeTimeout, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *ParseError {
	return &ParseError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// Internal wraps an unexpected failure.
func Internal(cause error) *ParseError {
	return &ParseError{Code: ErrCodeInternal, Message: "internal error", Cause: cause}
}

// FromError classifies an error returned by the parsing service.
func FromError(err error) *ParseError {
	var pe *ParseError
	switch {
	case err == nil:
		return nil
	case stderrors.As(err, &pe):
		return pe
	case stderrors.Is(err, ctparse.ErrUnknownLanguage):
		return &ParseError{Code: ErrCodeInvalidArgument, Message: "unknown language", Cause: err}
	case stderrors.Is(err, ctparse.ErrNoParse):
		return &ParseError{Code: ErrCodeNoParse, Message: "no time expression found", Cause: err}
	case stderrors.Is(err, ctparse.ErrNotGrounded):
		return &ParseError{Code: ErrCodeNoParse, Message: "reading has no calendar date", Cause: err}
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(err, context.Canceled):
		return &ParseError{Code: ErrCodeTimeout, Message: "request deadline exceeded", Cause: err}
	default:
		return Internal(err)
	}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	var pe *ParseError
	if stderrors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not a ParseError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	var pe *ParseError
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return defaultCode
}
