package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match wrapped domain errors by code.
func (e *DomainError) Is(target error) bool {
	var domainErr *DomainError
	if errors.As(target, &domainErr) {
		return e.Code == domainErr.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// Validation
	ErrInvalidInput = NewDomainError("VALIDATION_ERROR", "invalid input")

	// Credentials and tokens
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "invalid credentials")
	ErrUnauthorized       = NewDomainError("UNAUTHORIZED", "unauthorized")
	ErrInvalidToken       = NewDomainError("INVALID_TOKEN", "invalid token")
	ErrInvalidVerifyToken = NewDomainError("INVALID_VERIFICATION_TOKEN", "invalid verification token")
	ErrTokenExpired       = NewDomainError("TOKEN_EXPIRED", "token has expired")
	ErrEmailNotVerified   = NewDomainError("EMAIL_NOT_VERIFIED", "email not verified")

	// Authorization
	ErrForbidden = NewDomainError("FORBIDDEN", "forbidden")

	// Entities
	ErrUserNotFound = NewDomainError("USER_NOT_FOUND", "user not found")
	ErrTodoNotFound = NewDomainError("TODO_NOT_FOUND", "todo not found")
	ErrEmailExists  = NewDomainError("EMAIL_EXISTS", "email already exists")
	ErrSelfFollow   = NewDomainError("SELF_FOLLOW", "users cannot follow themselves")

	// System
	ErrInternal           = NewDomainError("INTERNAL_ERROR", "internal server error")
	ErrServiceUnavailable = NewDomainError("SERVICE_UNAVAILABLE", "service unavailable")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes.
// This should only be used in the handler/presentation layer.
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "VALIDATION_ERROR", "INVALID_VERIFICATION_TOKEN":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "UNAUTHORIZED", "INVALID_CREDENTIALS":
		return http.StatusUnauthorized

	// 403 Forbidden. Invalid/expired tokens land here too, matching the
	// behavior clients of this API already depend on.
	case "FORBIDDEN", "INVALID_TOKEN", "TOKEN_EXPIRED", "EMAIL_NOT_VERIFIED", "SELF_FOLLOW":
		return http.StatusForbidden

	// 404 Not Found
	case "USER_NOT_FOUND", "TODO_NOT_FOUND":
		return http.StatusNotFound

	// 409 Conflict
	case "EMAIL_EXISTS":
		return http.StatusConflict

	// 503 Service Unavailable
	case "SERVICE_UNAVAILABLE":
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
