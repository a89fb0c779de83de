package model

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
)

// AppError is an anticipated, user-facing failure. Its message is safe to
// show to clients and Status is the HTTP status it is reported with.
type AppError struct {
	Status  int
	Message string
	// RetryAfter, in seconds, is sent as a Retry-After header when non-zero.
	RetryAfter int
	Err        error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Status, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StackError carries the goroutine stack captured where a failure happened.
type StackError struct {
	Err   error
	Stack []byte
}

// WithStack records the caller's stack on err. An error that already
// carries a stack is returned unchanged.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	var se *StackError
	if errors.As(err, &se) {
		return err
	}
	return &StackError{Err: err, Stack: debug.Stack()}
}

func (e *StackError) Error() string { return e.Err.Error() }

func (e *StackError) Unwrap() error { return e.Err }

// StackOf returns the stack recorded by WithStack anywhere in err's chain.
func StackOf(err error) ([]byte, bool) {
	var se *StackError
	if errors.As(err, &se) {
		return se.Stack, true
	}
	return nil, false
}

// StatusLabel is "fail" for client errors and "error" for server errors.
func StatusLabel(status int) string {
	if status >= 400 && status < 500 {
		return "fail"
	}
	return "error"
}

// ErrorResponse is the JSON envelope every failed request is answered with.
// Error and Stack are only filled in verbose (development) mode.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// FieldError represents a validation error on a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field problem found in one request.
type ValidationError struct {
	Errors []FieldError
}

// Error joins the field messages: "Invalid input data. a. b"
func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, strings.TrimSuffix(fe.Message, "."))
	}
	if len(msgs) == 0 {
		return "Invalid input data."
	}
	return "Invalid input data. " + strings.Join(msgs, ". ")
}

// NewValidationError returns nil when errs is empty so callers can write
//
//	if err := model.NewValidationError(req.Validate()); err != nil { ... }
func NewValidationError(errs []FieldError) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}

// InvalidIDError reports a malformed identifier in a path or body.
type InvalidIDError struct {
	Field string
	Value string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("Invalid %s: %s", e.Field, e.Value)
}

// Common error constructors

func NewAppError(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: message}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func NewConflictError(message string) *AppError {
	return &AppError{Status: http.StatusConflict, Message: message}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message}
}

func NewMethodNotAllowedError(method, path string) *AppError {
	return &AppError{
		Status:  http.StatusMethodNotAllowed,
		Message: fmt.Sprintf("Method %s is not allowed on %s", method, path),
	}
}

func NewRateLimitError(retryAfter int) *AppError {
	return &AppError{
		Status:     http.StatusTooManyRequests,
		Message:    fmt.Sprintf("Too many requests. Retry after %d seconds", retryAfter),
		RetryAfter: retryAfter,
	}
}

func NewServiceUnavailableError(message string) *AppError {
	return &AppError{Status: http.StatusServiceUnavailable, Message: message}
}

func NewBadGatewayError(message string) *AppError {
	return &AppError{Status: http.StatusBadGateway, Message: message}
}
