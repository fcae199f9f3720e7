package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork ErrorType = "network"
	ErrorTypeStatus  ErrorType = "status"
	ErrorTypeEmpty   ErrorType = "empty"
	ErrorTypeIO      ErrorType = "io"
	ErrorTypePanic   ErrorType = "panic"
	ErrorTypeConfig  ErrorType = "config"
	ErrorTypeUnknown ErrorType = "unknown"
)

// ConnectionErrorReason is what users see for connectivity faults; the cause goes to the log.
const ConnectionErrorReason = "Connection error (see log for details)"

// Error represents a classified failure with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error: %s", e.Type, e.Message)
	if e.Code != 0 {
		msg = fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error wrapping cause
func New(t ErrorType, message string, cause error) *Error {
	return &Error{Type: t, Message: message, Err: cause}
}

// Network classifies a transport-level connectivity fault
func Network(cause error) *Error {
	return &Error{Type: ErrorTypeNetwork, Message: ConnectionErrorReason, Err: cause}
}

// Status classifies a non-success HTTP response
func Status(code int) *Error {
	return &Error{
		Type:    ErrorTypeStatus,
		Message: fmt.Sprintf("Bad HTTP status code: %d", code),
		Code:    code,
	}
}

// Panic converts a recovered panic value into a failure
func Panic(v interface{}) *Error {
	return &Error{Type: ErrorTypePanic, Message: fmt.Sprintf("unexpected fault: %v", v)}
}

// Config marks an error as a fatal configuration problem
func Config(message string, cause error) *Error {
	return &Error{Type: ErrorTypeConfig, Message: message, Err: cause}
}

// Reason returns the human-readable failure reason for err
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// TypeOf returns the classified type of err, or ErrorTypeUnknown
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsConfig reports whether err is a configuration error
func IsConfig(err error) bool {
	return err != nil && TypeOf(err) == ErrorTypeConfig
}
