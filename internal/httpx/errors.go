package httpx

import (
	"fmt"
	"net/http"
)

// Business error codes
const (
	// Success
	CodeSuccess = 0

	// Authentication/Authorization errors (1000-1099)
	CodeUnauthorized = 1001 // Not logged in / Token missing
	CodeInvalidToken = 1002 // Token invalid
	CodeTokenExpired = 1003 // Token expired

	// Parameter/validation errors (2000-2099)
	CodeParamInvalid  = 2001 // Request body/params malformed
	CodeDomainInvalid = 2002 // Domain failed validation

	// Resource/Business errors (3000-3999)
	CodeNotFound       = 3001 // Guestbook not found / not owned
	CodeDomainConflict = 3002 // Domain claimed by another guestbook
	CodeNoDomain       = 3003 // Operation requires a configured domain
	CodeRateLimited    = 3004 // Too many lifecycle operations

	// System errors (5000-5999)
	CodeInternalError  = 5001 // Internal service error
	CodeRegistrarError = 5003 // External domain-hosting API failure
)

// AppError carries an HTTP status, a business code for logs and a
// user-facing message. Err is internal detail, logged but never returned
// to the client.
type AppError struct {
	HTTPStatus int
	Code       int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("code=%d, message=%s, err=%v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("code=%d, message=%s", e.Code, e.Message)
}

// NewAppError creates a new AppError
func NewAppError(httpStatus, code int, message string, err error) *AppError {
	return &AppError{
		HTTPStatus: httpStatus,
		Code:       code,
		Message:    message,
		Err:        err,
	}
}

// ErrUnauthorized builds a 401 error.
func ErrUnauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

// ErrInvalidToken builds a 401 error for malformed tokens.
func ErrInvalidToken(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeInvalidToken, message, nil)
}

// ErrTokenExpired builds a 401 error for expired tokens.
func ErrTokenExpired(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeTokenExpired, message, nil)
}

// ErrParamInvalid builds a 400 error for malformed requests.
func ErrParamInvalid(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeParamInvalid, message, nil)
}

// ErrDomainInvalid builds a 400 error whose message is shown verbatim.
func ErrDomainInvalid(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeDomainInvalid, message, nil)
}

// ErrNotFound builds a 404 error.
func ErrNotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, nil)
}

// ErrDomainConflict builds a 409 error.
func ErrDomainConflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeDomainConflict, message, nil)
}

// ErrNoDomain builds a 400 error for operations that need a domain first.
func ErrNoDomain(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeNoDomain, message, nil)
}

// ErrRateLimited builds a 429 error.
func ErrRateLimited(message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, CodeRateLimited, message, nil)
}

// ErrRegistrar builds a 502 error for upstream registrar failures.
func ErrRegistrar(message string, err error) *AppError {
	return NewAppError(http.StatusBadGateway, CodeRegistrarError, message, err)
}

// ErrInternal builds a 500 error hiding the internal cause.
func ErrInternal(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal error", err)
}
