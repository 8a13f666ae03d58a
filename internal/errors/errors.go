// Package errors provides standardized error types for the API.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/palemoky/smart-text-analyzer/pkg/analyzer"
)

// Code represents an API error code.
type Code string

const (
	CodeInvalidType    Code = "INVALID_TYPE"
	CodeEmptyInput     Code = "EMPTY_INPUT"
	CodeNotFound       Code = "NOT_FOUND"
	CodeInvalidID      Code = "INVALID_ID"
	CodeInvalidRequest Code = "INVALID_REQUEST"
	CodeTooLarge       Code = "TEXT_TOO_LARGE"
	CodeInternal       Code = "INTERNAL_ERROR"
	CodeRateLimited    Code = "RATE_LIMITED"
)

// APIError represents a structured API error.
type APIError struct {
	Code       Code   `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound    = &APIError{Code: CodeNotFound, Message: "Resource not found", HTTPStatus: http.StatusNotFound}
	ErrInternal    = &APIError{Code: CodeInternal, Message: "Internal server error", HTTPStatus: http.StatusInternalServerError}
	ErrRateLimited = &APIError{Code: CodeRateLimited, Message: "Rate limit exceeded", HTTPStatus: http.StatusTooManyRequests}
)

// NotFound creates a not found error with a custom message.
func NotFound(resource string) *APIError {
	return &APIError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// InvalidID creates an invalid ID error with context.
func InvalidID(paramName string) *APIError {
	return &APIError{
		Code:       CodeInvalidID,
		Message:    fmt.Sprintf("Invalid %s: must be a positive integer", paramName),
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidRequest creates a bad request error with a custom message.
func InvalidRequest(message string) *APIError {
	return &APIError{
		Code:       CodeInvalidRequest,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// TooLarge reports a request body above the configured text limit.
func TooLarge(limit int64) *APIError {
	return &APIError{
		Code:       CodeTooLarge,
		Message:    fmt.Sprintf("Text exceeds the limit of %d bytes", limit),
		HTTPStatus: http.StatusRequestEntityTooLarge,
	}
}

// Internal creates an internal error, optionally logging the real error.
func Internal(message string) *APIError {
	if message == "" {
		message = "Internal server error"
	}
	return &APIError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// FromAnalysis maps an analyzer error onto the API error it is reported as.
// Input-type problems are client errors (400), empty input is unprocessable (422).
func FromAnalysis(err error) *APIError {
	switch {
	case stderrors.Is(err, analyzer.ErrInvalidType):
		return &APIError{
			Code:       CodeInvalidType,
			Message:    "Field 'text' must be a string",
			HTTPStatus: http.StatusBadRequest,
		}
	case stderrors.Is(err, analyzer.ErrEmptyInput):
		return &APIError{
			Code:       CodeEmptyInput,
			Message:    capitalize(err.Error()),
			HTTPStatus: http.StatusUnprocessableEntity,
		}
	default:
		return Internal("")
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
