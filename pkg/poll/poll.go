// Package poll provides a bounded wait-until-true loop for tooling that has to
// observe eventually consistent state, such as a webhook event reaching a
// terminal ledger status after the gateway delivered it.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned when the condition did not hold before the deadline.
var ErrTimeout = errors.New("poll: timed out")

// Condition reports whether the awaited state has been reached. A non-nil
// error stops polling immediately.
type Condition func(ctx context.Context) (bool, error)

// Until evaluates cond every interval until it returns true, returns an error,
// the timeout elapses or ctx is cancelled. The condition is evaluated once
// immediately before the first wait.
func Until(ctx context.Context, interval, timeout time.Duration, cond Condition) error {
	if interval <= 0 {
		return fmt.Errorf("poll: interval must be positive, got %s", interval)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		done, err := cond(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w after %s", ErrTimeout, timeout)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
