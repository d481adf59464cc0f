package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Storage errors
	ErrCodeStorageUnavailable   ErrorCode = "STORAGE_UNAVAILABLE"
	ErrCodeStorageMalformed     ErrorCode = "STORAGE_MALFORMED"
	ErrCodeStorageQuotaExceeded ErrorCode = "STORAGE_QUOTA_EXCEEDED"

	// Configuration errors
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Input errors
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"

	// General errors
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// TadaError is a structured error carrying a code and optional details.
type TadaError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *TadaError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *TadaError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *TadaError) WithDetail(key string, value interface{}) *TadaError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *TadaError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new TadaError
func New(code ErrorCode, message string) *TadaError {
	return &TadaError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a TadaError
func Wrap(err error, code ErrorCode, message string) *TadaError {
	return &TadaError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific TadaError code
func Is(err error, code ErrorCode) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, looking through wrappers.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	tadaErr, ok := err.(*TadaError)
	if !ok {
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return tadaErr.Code
}
