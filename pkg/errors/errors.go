package errors

import (
	"errors"
	"fmt"
)

// Error codes carried by AppError. Each code is one error kind surfaced to API callers.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeDependency      = "DEPENDENCY_ERROR"
)

var (
	ErrInvalidCredentials = errors.New("password is incorrect")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrMissingCredentials = errors.New("email or password is missing")

	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidUserID = errors.New("invalid user id")

	ErrMissingEmail = errors.New("email is missing")
	ErrInvalidEmail = errors.New("invalid email")
)

type AppError struct {
	Code    string
	Message string
	// Field names the offending input field for CONFLICT and VALIDATION_ERROR, when known.
	Field string
	Err   error
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

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func Validation(message string, err error) *AppError {
	return NewAppError(CodeValidation, message, err)
}

func NotFound(message string) *AppError {
	return NewAppError(CodeNotFound, message, nil)
}

// Conflict reports a uniqueness violation on field.
func Conflict(field string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: fmt.Sprintf("%s already exists in database", field),
		Field:   field,
	}
}

func Unauthenticated(message string) *AppError {
	return NewAppError(CodeUnauthenticated, message, nil)
}

func Dependency(message string, err error) *AppError {
	return NewAppError(CodeDependency, message, err)
}

// CodeOf returns the AppError code found in err's chain, or "" for unclassified errors.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
