package exception_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/riptide/pkg/conn/support/util/exception"
)

// TestConnError_ErrorAndUnwrap verifies message formatting and the unwrap
// chain.
func TestConnError_ErrorAndUnwrap(t *testing.T) {
	original := errors.New("dial tcp: connection refused")
	err := exception.NewConnError("factory", "failed to obtain connection", original, true)

	assert.Equal(t, "[factory] failed to obtain connection: dial tcp: connection refused", err.Error())
	assert.ErrorIs(t, err, original)
	assert.True(t, err.IsRetryable())

	bare := exception.NewConnError("config", "missing driver", nil, false)
	assert.Equal(t, "[config] missing driver", bare.Error())
	assert.Nil(t, errors.Unwrap(bare))
}

// TestNewConnErrorf verifies that a trailing error argument is wrapped rather
// than formatted into the message.
func TestNewConnErrorf(t *testing.T) {
	original := errors.New("yaml: line 3: mapping values are not allowed")
	err := exception.NewConnErrorf("config", "failed to decode connection config for '%s'", "primary", original)

	assert.Equal(t, "failed to decode connection config for 'primary'", err.Message)
	assert.ErrorIs(t, err, original)
	assert.False(t, err.IsRetryable())
}

// TestIsConnError verifies detection through wrapping.
func TestIsConnError(t *testing.T) {
	inner := exception.NewConnError("client", "boom", nil, false)
	wrapped := fmt.Errorf("outer: %w", inner)

	assert.True(t, exception.IsConnError(inner))
	assert.True(t, exception.IsConnError(wrapped))
	assert.False(t, exception.IsConnError(errors.New("plain")))
	assert.False(t, exception.IsConnError(nil))
}

// TestIsTemporary verifies the retryable flag takes precedence and the
// message heuristics apply otherwise.
func TestIsTemporary(t *testing.T) {
	assert.False(t, exception.IsTemporary(nil))
	assert.True(t, exception.IsTemporary(exception.NewConnError("client", "transient", nil, true)))
	assert.False(t, exception.IsTemporary(exception.NewConnError("client", "timeout happened", nil, false)))
	assert.True(t, exception.IsTemporary(errors.New("dial tcp: i/o timeout")))
	assert.True(t, exception.IsTemporary(errors.New("read: connection reset by peer")))
	assert.False(t, exception.IsTemporary(errors.New("syntax error")))
}

// TestInvalidModeSentinel verifies the sentinel registration and detection
// helpers.
func TestInvalidModeSentinel(t *testing.T) {
	assert.True(t, exception.IsErrorTypeRegistered(exception.InvalidModeException))

	wrapped := fmt.Errorf("obtain: %w", exception.ErrInvalidMode)
	assert.True(t, exception.IsInvalidMode(wrapped))
	assert.True(t, exception.IsErrorOfType(wrapped, exception.InvalidModeException))
	assert.False(t, exception.IsInvalidMode(errors.New("some other error")))
	assert.False(t, exception.IsInvalidMode(nil))
}

// TestIsErrorOfType verifies sentinel, substring and type-name matching.
func TestIsErrorOfType(t *testing.T) {
	require.True(t, exception.IsErrorTypeRegistered("context.DeadlineExceeded"))

	wrapped := fmt.Errorf("await: %w", context.DeadlineExceeded)
	assert.True(t, exception.IsErrorOfType(wrapped, "context.DeadlineExceeded"))
	assert.True(t, exception.IsErrorOfType(errors.New("dial tcp: connection refused"), "connection refused"))
	assert.True(t, exception.IsErrorOfType(exception.NewConnError("m", "x", nil, false), "exception.ConnError"))
	assert.False(t, exception.IsErrorOfType(nil, "anything"))
}

// TestExtractErrorMessage verifies the cleaner message extraction for
// ConnError values.
func TestExtractErrorMessage(t *testing.T) {
	inner := exception.NewConnError("loader", "config file unreadable", errors.New("permission denied"), false)
	assert.Equal(t, "config file unreadable", exception.ExtractErrorMessage(inner))
	assert.Equal(t, "plain", exception.ExtractErrorMessage(errors.New("plain")))
	assert.Empty(t, exception.ExtractErrorMessage(nil))
}
