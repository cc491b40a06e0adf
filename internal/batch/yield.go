package batch

import (
	"context"
	"time"
)

// Yielder is called between pairs so a host event loop gets a turn. It
// only affects responsiveness, never the output. Returning an error ends
// the run the same way a cancelled context does.
type Yielder func(ctx context.Context) error

// NoYield returns immediately.
func NoYield(ctx context.Context) error {
	return ctx.Err()
}

// SleepYield pauses for d, or until ctx is done.
func SleepYield(d time.Duration) Yielder {
	if d <= 0 {
		return NoYield
	}
	return func(ctx context.Context) error {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		}
	}
}
