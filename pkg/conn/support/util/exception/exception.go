// Package exception provides custom error types and error handling utilities for riptide.
// It standardizes errors raised while establishing connections, keeping locally
// originated usage errors distinguishable from failures surfaced by the client drivers.
package exception

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// errorRegistry maps symbolic error names to concrete Go error instances.
// It holds error instances (singletons) for comparison using errors.Is.
var errorRegistry = make(map[string]error)

// registryMutex protects access to errorRegistry.
var registryMutex sync.RWMutex

// RegisterErrorType registers an error type in the registry.
// Registered error names can be referenced by IsErrorOfType for classification.
//
// name: A unique identifier for the error type.
// prototype: An instance of the error to be registered. Used for comparison with errors.Is.
//
// If prototype is nil or name is empty, this function will panic.
func RegisterErrorType(name string, prototype error) {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	if name == "" {
		panic("Error type name cannot be empty")
	}
	if prototype == nil {
		panic(fmt.Sprintf("Cannot register nil prototype for name: %s", name))
	}

	errorRegistry[name] = prototype
}

// IsErrorTypeRegistered checks if the specified error type name is registered in the registry.
func IsErrorTypeRegistered(name string) bool {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	_, ok := errorRegistry[name]
	return ok
}

// ConnError is a custom error type for failures that occur while building or
// dispatching connections. It holds the module where the error occurred, a
// message, the wrapped original error, and a flag indicating whether the
// failure is considered transient.
type ConnError struct {
	// Module indicates the module where the error occurred (e.g., "factory", "config", "client.pgx").
	Module string
	// Message is a concise description of the error.
	Message string
	// OriginalErr is the wrapped original error.
	OriginalErr error
	// isRetryable indicates whether this error is considered transient.
	isRetryable bool
}

// NewConnError creates a new ConnError instance.
//
// module: The module where the error occurred.
// message: The error message.
// originalErr: The original error to wrap.
// isRetryable: Whether this error is considered transient.
func NewConnError(module, message string, originalErr error, isRetryable bool) *ConnError {
	return &ConnError{
		Module:      module,
		Message:     message,
		OriginalErr: originalErr,
		isRetryable: isRetryable,
	}
}

// NewConnErrorf creates a new non-retryable ConnError using a format string.
// If the last argument is an error it is extracted and wrapped rather than formatted.
func NewConnErrorf(module, format string, a ...interface{}) *ConnError {
	var originalErr error
	args := a
	if len(args) > 0 {
		if err, ok := args[len(args)-1].(error); ok {
			originalErr = err
			args = args[:len(args)-1]
		}
	}
	return &ConnError{
		Module:      module,
		Message:     fmt.Sprintf(format, args...),
		OriginalErr: originalErr,
	}
}

// Error implements the error interface.
// It returns the error's module, message, and the string representation of the original error.
func (e *ConnError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Module, e.Message, e.OriginalErr)
	}
	return fmt.Sprintf("[%s] %s", e.Module, e.Message)
}

// Unwrap returns the original error for errors.Unwrap.
func (e *ConnError) Unwrap() error {
	return e.OriginalErr
}

// IsRetryable returns whether this error is considered transient.
func (e *ConnError) IsRetryable() bool {
	return e.isRetryable
}

// IsConnError determines if the given error is of type ConnError.
func IsConnError(err error) bool {
	if err == nil {
		return false
	}
	var ce *ConnError
	return errors.As(err, &ce)
}

// IsTemporary determines if an error is temporary (e.g., network error, dial timeout).
// If it's a ConnError, its IsRetryable flag takes precedence.
func IsTemporary(err error) bool {
	if err == nil {
		return false
	}
	var ce *ConnError
	if errors.As(err, &ce) {
		return ce.IsRetryable()
	}
	errStr := err.Error()
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "EOF")
}

// IsErrorOfType checks if an error matches a symbolic type name.
// errorTypeName can be a Go error type name (e.g., "*net.OpError"), a registered
// sentinel name, or a substring of an error message (e.g., "connection refused").
// It checks in order: registered sentinel errors (errors.Is), substring of the
// error message, and type name comparison using reflection.
func IsErrorOfType(err error, errorTypeName string) bool {
	if err == nil {
		return false
	}

	registryMutex.RLock()
	targetError, ok := errorRegistry[errorTypeName]
	registryMutex.RUnlock()

	if ok {
		if errors.Is(err, targetError) {
			return true
		}
	}

	currentErr := err
	for currentErr != nil {
		if strings.Contains(currentErr.Error(), errorTypeName) {
			return true
		}

		errType := reflect.TypeOf(currentErr)
		if errType != nil {
			if errType.String() == errorTypeName || (errType.Kind() == reflect.Ptr && errType.Elem().String() == errorTypeName) {
				return true
			}
		}

		currentErr = errors.Unwrap(currentErr)
	}

	return false
}

// InvalidModeException is the symbolic name under which the invalid-mode
// sentinel is registered.
const InvalidModeException = "InvalidModeException"

// ErrInvalidMode is the sentinel wrapped by every invalid-mode usage error.
// It is raised before any client call is attempted.
var ErrInvalidMode = errors.New("connection mode must be one of 'SYNC', 'ASYNC' or 'POOL'")

func init() {
	// Register sentinel errors so that errors.Is can detect them by constant name.
	RegisterErrorType(InvalidModeException, ErrInvalidMode)

	// Common network-related error names referenced by classification config.
	RegisterErrorType("context.DeadlineExceeded", context.DeadlineExceeded)
	RegisterErrorType("context.Canceled", context.Canceled)
}

// IsInvalidMode determines if an error was caused by an unrecognized connection mode.
func IsInvalidMode(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrInvalidMode)
}

// ExtractErrorMessage extracts the error message string from an error.
// For ConnError, it returns the cleaner Message field.
// Otherwise, it returns the standard Error() string.
func ExtractErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var ce *ConnError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}
