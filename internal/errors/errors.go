package errors

import (
	"errors"
	"fmt"
)

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches by code so wrapped instances compare equal to the sentinels.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if errors.As(target, &appErr) {
		return e.Code == appErr.Code
	}
	return false
}

func New(code, message string, cause ...error) *AppError {
	var c error
	if len(cause) > 0 {
		c = cause[0]
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   c,
	}
}

var (
	ErrConfigNotFound = &AppError{Code: "CONFIG_001", Message: "configuration not found"}
	ErrConfigInvalid  = &AppError{Code: "CONFIG_002", Message: "invalid configuration"}

	ErrValidation = &AppError{Code: "VAL_001", Message: "invalid input"}
	ErrInvalidBPM = &AppError{Code: "VAL_002", Message: "bpm must be a positive integer"}
	ErrBadWindow  = &AppError{Code: "VAL_003", Message: "unknown time window"}

	ErrNotFound = &AppError{Code: "STORE_001", Message: "record not found"}
	ErrStorage  = &AppError{Code: "STORE_002", Message: "storage failure"}

	ErrSessionNotFound = &AppError{Code: "AUTH_001", Message: "session not found"}
	ErrUnauthorized    = &AppError{Code: "AUTH_002", Message: "unauthorized"}

	ErrBadRequest = &AppError{Code: "GEN_001", Message: "bad request"}
	ErrInternal   = &AppError{Code: "GEN_002", Message: "internal error"}
)

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// IsValidation reports whether err is any validation-kind error.
func IsValidation(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	switch appErr.Code {
	case ErrValidation.Code, ErrInvalidBPM.Code, ErrBadWindow.Code:
		return true
	}
	return false
}

// IsNotFound reports whether err is the not-found kind.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
