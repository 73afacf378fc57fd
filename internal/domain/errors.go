package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies application errors beyond their HTTP status code.
type ErrorKind string

const (
	// KindStore marks failures of the backing store (unreachable,
	// rejected write, request timeout). Never downgraded to "no data".
	KindStore ErrorKind = "store"
	// KindData marks malformed or inconsistent persisted records.
	KindData ErrorKind = "data"
	// KindValidation marks invalid caller-supplied input.
	KindValidation ErrorKind = "validation"
	// KindGeneric covers everything else.
	KindGeneric ErrorKind = "generic"
)

// AppError is a structured application error with HTTP status code.
type AppError struct {
	Code    int       `json:"code"`
	Kind    ErrorKind `json:"-"`
	Message string    `json:"error"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error constructors.

func ErrNotFound(msg string) *AppError {
	return &AppError{Code: http.StatusNotFound, Kind: KindGeneric, Message: msg}
}

func ErrUnauthorized(msg string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Kind: KindGeneric, Message: msg}
}

func ErrBadRequest(msg string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindGeneric, Message: msg}
}

func ErrForbidden(msg string) *AppError {
	return &AppError{Code: http.StatusForbidden, Kind: KindGeneric, Message: msg}
}

// ErrValidation rejects invalid caller input before any store call.
func ErrValidation(msg string) *AppError {
	return &AppError{Code: http.StatusUnprocessableEntity, Kind: KindValidation, Message: msg}
}

// ErrStore wraps a failed read or write against the backing store.
func ErrStore(msg string, err error) *AppError {
	return &AppError{Code: http.StatusBadGateway, Kind: KindStore, Message: msg, Err: err}
}

// ErrData wraps a persisted record that could not be interpreted.
func ErrData(msg string, err error) *AppError {
	return &AppError{Code: http.StatusUnprocessableEntity, Kind: KindData, Message: msg, Err: err}
}

func ErrInternal(msg string, err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Kind: KindGeneric, Message: msg, Err: err}
}

// AsAppError attempts to extract an AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind ErrorKind) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Kind == kind
	}
	return false
}
