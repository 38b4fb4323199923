package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned in the "error.code" field of API responses.
const (
	CodeValidation   = "VALIDATION_FAILED"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL_ERROR"
)

const internalMessage = "internal server error"

// DomainError is an error the HTTP layer can render without leaking internals.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	return NewDomainError(CodeNotFound, resource+" not found", http.StatusNotFound, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewRateLimited(message string) error {
	return NewDomainError(CodeRateLimited, message, http.StatusTooManyRequests, nil)
}

// NewInternalError hides cause from clients while keeping it for logs and errors.Is.
func NewInternalError(cause error) error {
	return &DomainError{Code: CodeInternal, Message: internalMessage, HTTPStatus: http.StatusInternalServerError, Err: cause}
}

// ToDomainError finds a DomainError in err's chain or wraps err as an internal error.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return NewInternalError(err).(*DomainError)
}

// HasCode reports whether err carries the given domain code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

var statusCodes = map[int]string{
	http.StatusBadRequest:            CodeValidation,
	http.StatusUnprocessableEntity:   CodeValidation,
	http.StatusRequestEntityTooLarge: CodeValidation,
	http.StatusUnauthorized:          CodeUnauthorized,
	http.StatusForbidden:             CodeForbidden,
	http.StatusNotFound:              CodeNotFound,
	http.StatusMethodNotAllowed:      CodeNotFound,
	http.StatusConflict:              CodeConflict,
	http.StatusTooManyRequests:       CodeRateLimited,
}

// FromStatus builds a DomainError for a transport-level status such as an oversized body.
// Server-side statuses never expose their message.
func FromStatus(status int, message string) *DomainError {
	code, ok := statusCodes[status]
	if !ok || status >= http.StatusInternalServerError {
		code = CodeInternal
	}
	if status >= http.StatusInternalServerError {
		message = internalMessage
	}
	return &DomainError{Code: code, Message: message, HTTPStatus: status}
}
