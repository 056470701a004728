package domain

import (
	"errors"
	"fmt"
)

// ErrTaskRequired is returned when a workflow request carries no task field.
var ErrTaskRequired = errors.New("task is required")

// ErrUnknownProvider is returned when a provider id has no configured endpoint.
var ErrUnknownProvider = errors.New("unknown provider")

// ErrorKind classifies a failure carried as data.
type ErrorKind string

const (
	KindRouting         ErrorKind = "routing"          // no workflow binding matched the task
	KindUnknownProvider ErrorKind = "unknown_provider" // server id not in the provider registry
	KindTransport       ErrorKind = "transport"        // timeout, refused connection, malformed response
	KindBackend         ErrorKind = "backend"          // the external system rejected the operation
	KindExtraction      ErrorKind = "extraction"       // a value could not be derived from a prior step
	KindUnavailable     ErrorKind = "unavailable"      // provider session failed to initialize
	KindInvalidRequest  ErrorKind = "invalid_request"  // unknown tool or malformed arguments
	KindUnknownMethod   ErrorKind = "unknown_method"
)

// Error is the Err side of a ToolResult.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds an Error with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ErrKeyNotFound is returned by a key-value store when a key has no value.
var ErrKeyNotFound = errors.New("key not found")
