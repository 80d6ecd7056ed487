package common

import (
	"fmt"
	"net/http"
)

// Error codes surfaced to API clients
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInvalidState       = "INVALID_STATE"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// AppError is an application error with an HTTP mapping
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewBadRequestError creates an error for malformed or missing input
func NewBadRequestError(message string, err error) *AppError {
	return &AppError{Code: CodeBadRequest, Message: message, StatusCode: http.StatusBadRequest, Err: err}
}

// NewUnauthorizedError creates an error for missing or invalid credentials
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message, StatusCode: http.StatusUnauthorized}
}

// NewForbiddenError creates an error for an actor without rights over the target
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message, StatusCode: http.StatusForbidden}
}

// NewNotFoundError creates an error for a missing entity
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{Code: CodeNotFound, Message: message, StatusCode: http.StatusNotFound, Err: err}
}

// NewConflictError creates an error for an operation that was already performed
func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message, StatusCode: http.StatusConflict}
}

// NewInvalidStateError creates an error for an operation not legal from the
// entity's current state
func NewInvalidStateError(message string) *AppError {
	return &AppError{Code: CodeInvalidState, Message: message, StatusCode: http.StatusConflict}
}

// NewServiceUnavailableError creates an error for an unavailable upstream
func NewServiceUnavailableError(message string, err error) *AppError {
	return &AppError{Code: CodeServiceUnavailable, Message: message, StatusCode: http.StatusServiceUnavailable, Err: err}
}

// NewInternalServerError creates an opaque error for unexpected failures.
// Internal details stay in the wrapped error and are only logged.
func NewInternalServerError(message string) *AppError {
	return &AppError{Code: CodeInternal, Message: message, StatusCode: http.StatusInternalServerError}
}
