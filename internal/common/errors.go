package common

import (
	"errors"
	"fmt"
)

// Error codes forming the wire taxonomy.
const (
	CodeUnsupportedFormat   = "UNSUPPORTED_FORMAT"
	CodeCorruptInput        = "CORRUPT_INPUT"
	CodeModelUnavailable    = "MODEL_UNAVAILABLE"
	CodeMalformedCompletion = "MALFORMED_COMPLETION"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError builds an AppError with the given taxonomy code.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func UnsupportedFormatError(message string) *AppError {
	return NewAppError(CodeUnsupportedFormat, message, nil)
}

func CorruptInputError(message string, cause error) *AppError {
	return NewAppError(CodeCorruptInput, message, cause)
}

func ModelUnavailableError(message string, cause error) *AppError {
	return NewAppError(CodeModelUnavailable, message, cause)
}

func MalformedCompletionError(message string, cause error) *AppError {
	return NewAppError(CodeMalformedCompletion, message, cause)
}

// CodeOf extracts the taxonomy code from err, or "" when err carries none.
func CodeOf(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// WireError is the JSON shape errors take on the wire.
type WireError struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// ToWire maps err to its wire representation.
func ToWire(err error) WireError {
	var ae *AppError
	if errors.As(err, &ae) {
		return WireError{ErrorCode: ae.Code, Message: ae.Message}
	}
	return WireError{ErrorCode: "INTERNAL", Message: err.Error()}
}
