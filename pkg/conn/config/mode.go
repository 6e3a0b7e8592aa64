package config

import (
	"fmt"

	"github.com/tigerroll/riptide/pkg/conn/support/util/exception"
)

// Mode selects how a factory produces a connection.
// The set of values is closed; anything else is a usage error.
type Mode string

const (
	// ModeSync makes the factory dial a blocking connection and return it ready to use.
	ModeSync Mode = "SYNC"
	// ModeAsync makes the factory start the dial in the background and return a deferred handle.
	ModeAsync Mode = "ASYNC"
	// ModePool makes the factory lazily create its pool, then acquire one slot from it.
	ModePool Mode = "POOL"
)

// Valid reports whether m is one of the three recognized modes.
// Matching is strict: lowercase or mixed-case spellings are rejected.
func (m Mode) Valid() bool {
	switch m {
	case ModeSync, ModeAsync, ModePool:
		return true
	}
	return false
}

// ParseMode validates s as a connection mode.
// Unknown values, including lowercase spellings of valid modes, yield an
// *InvalidModeError before any connection attempt can take place.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", &InvalidModeError{Value: s}
	}
	return m, nil
}

// InvalidModeError reports a connection mode outside {SYNC, ASYNC, POOL}.
// It is the only error kind originating in this library; everything else
// propagates from the client drivers.
type InvalidModeError struct {
	// Value is the rejected mode string.
	Value string
}

// Error implements the error interface.
func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("connection mode must be one of 'SYNC', 'ASYNC' or 'POOL'. You provided '%s'", e.Value)
}

// Unwrap ties every InvalidModeError to the exception.ErrInvalidMode sentinel
// so callers can classify with errors.Is.
func (e *InvalidModeError) Unwrap() error {
	return exception.ErrInvalidMode
}
