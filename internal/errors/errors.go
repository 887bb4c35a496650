// Package errors defines stable error codes for all modelwatch failure modes.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// FetchError indicates the catalog source was unreachable or returned
	// a malformed top-level response. Fatal to the current cycle.
	FetchError ErrorCode = "FETCH_ERROR"
	// NormalizationError indicates a single entry's price or unit could not
	// be normalized. Recovered per entry, never fatal to a cycle.
	NormalizationError ErrorCode = "NORMALIZATION_ERROR"
	// SnapshotNotFound indicates a requested fingerprint has no stored snapshot
	SnapshotNotFound ErrorCode = "SNAPSHOT_NOT_FOUND"
	// StoreWriteError indicates snapshot persistence failed
	StoreWriteError ErrorCode = "STORE_WRITE_ERROR"
	// ConfigInvalid indicates the configuration failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// MonitorError represents a modelwatch error with a stable code
type MonitorError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new MonitorError
func New(code ErrorCode, message string, cause error) *MonitorError {
	return &MonitorError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Newf creates a new MonitorError with a formatted message
func Newf(code ErrorCode, cause error, format string, args ...interface{}) *MonitorError {
	return New(code, fmt.Sprintf(format, args...), cause)
}

// Error implements the error interface
func (e *MonitorError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *MonitorError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *MonitorError) WithDetails(details interface{}) *MonitorError {
	e.Details = details
	return e
}

// CodeOf returns the error code carried by err, or InternalError when err
// is not a MonitorError.
func CodeOf(err error) ErrorCode {
	var me *MonitorError
	if stderrors.As(err, &me) {
		return me.Code
	}
	return InternalError
}

// HasCode reports whether err carries the given code
func HasCode(err error, code ErrorCode) bool {
	var me *MonitorError
	if stderrors.As(err, &me) {
		return me.Code == code
	}
	return false
}
