package factory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/riptide/pkg/conn/config"
	"github.com/tigerroll/riptide/pkg/conn/factory"
)

// TestDeferred_AwaitHonorsCancellation verifies that Await gives up when the
// caller's context is canceled before the background dial resolves.
func TestDeferred_AwaitHonorsCancellation(t *testing.T) {
	cl := &fakeClient{poolDelay: 200 * time.Millisecond}
	f, err := factory.New(newTestConfig(config.ModePool), cl)
	require.NoError(t, err)

	handle, err := f.Obtain(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = handle.Await(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

// TestDeferred_AwaitAfterResolve verifies that Await returns the resolved
// value any number of times once the dial completes.
func TestDeferred_AwaitAfterResolve(t *testing.T) {
	cl := &fakeClient{}
	f, err := factory.New(newTestConfig(config.ModeAsync), cl)
	require.NoError(t, err)

	handle, err := f.Obtain(context.Background())
	require.NoError(t, err)

	first, err := handle.Await(context.Background())
	require.NoError(t, err)
	second, err := handle.Await(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
}
