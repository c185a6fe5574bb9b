package errors

import (
	"errors"
	"fmt"
)

// Error codes carried by AppError. Callers key their behaviour off these:
// CONFLICT is the only code a human override may resolve, STORAGE_CONFLICT
// is the only one safe to retry blindly.
const (
	CodeInvalidTransition      = "INVALID_TRANSITION"
	CodeMissingRequiredPayload = "MISSING_REQUIRED_PAYLOAD"
	CodeConflict               = "CONFLICT"
	CodeValidation             = "VALIDATION_ERROR"
	CodeNotFound               = "NOT_FOUND"
	CodeStorageConflict        = "STORAGE_CONFLICT"
	CodeUnauthorized           = "UNAUTHORIZED"
)

var (
	ErrUnauthorized = errors.New("unauthorized access")
	ErrInvalidToken = errors.New("invalid or expired token")

	ErrStaleWrite = errors.New("record changed by a concurrent write")
)

type AppError struct {
	Code    string
	Message string
	Err     error
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

// Code extracts the AppError code from an error chain, or "" if none.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsCode reports whether err carries the given AppError code.
func IsCode(err error, code string) bool {
	return Code(err) == code
}
