package bridge_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/strangelove-ventures/omnibridge-engine/bridge"
	"github.com/strangelove-ventures/omnibridge-engine/types"
)

func TestWithTimeoutReturnsResult(t *testing.T) {
	v, err := bridge.WithTimeout(context.Background(), time.Second, func(context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	require.Equal(t, 7, v)

	boom := errors.New("boom")
	_, err = bridge.WithTimeout(context.Background(), time.Second, func(context.Context) (int, error) {
		return 0, boom
	})
	require.ErrorIs(t, err, boom)
}

func TestWithTimeoutExpires(t *testing.T) {
	cancelled := make(chan struct{})
	_, err := bridge.WithTimeout(context.Background(), 10*time.Millisecond, func(ctx context.Context) (string, error) {
		<-ctx.Done()
		close(cancelled)
		return "late", nil
	})
	require.ErrorIs(t, err, types.ErrTimeout)

	// the abandoned call sees its context cancelled
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("inner call was not cancelled")
	}
}

func TestWithTimeoutParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bridge.WithTimeout(ctx, time.Minute, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestWithTimeoutDisabled(t *testing.T) {
	v, err := bridge.WithTimeout(context.Background(), 0, func(context.Context) (int, error) {
		return 1, nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, v)
}
