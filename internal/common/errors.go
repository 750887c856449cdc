package common

import (
	"errors"
	"net/http"
)

// AppError carries a machine-readable code and HTTP status alongside the
// underlying error, so handlers can map service failures onto the canonical
// error payload without switching on sentinel errors at every call site.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// Unauthorized builds the 401 AppError the auth flows answer with. The cause
// is kept for logs; the message is all the client sees.
func Unauthorized(code, message string, err error) *AppError {
	return NewAppError(code, message, http.StatusUnauthorized, err)
}

// BadRequest builds a 400 AppError for malformed input that validator tags
// cannot express.
func BadRequest(code, message string) *AppError {
	return NewAppError(code, message, http.StatusBadRequest, nil)
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}
