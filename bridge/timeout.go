package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/strangelove-ventures/omnibridge-engine/types"
)

// WithTimeout races fn against a timer. On expiry it returns ErrTimeout and
// whatever fn eventually produces is discarded. fn receives a context that is
// cancelled once WithTimeout returns.
func WithTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if d <= 0 {
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{v: v, err: err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.v, r.err
	case <-timer.C:
		return zero, fmt.Errorf("%w after %s", types.ErrTimeout, d)
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
