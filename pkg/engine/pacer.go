// pkg/engine/pacer.go
package engine

import (
	"context"
	"time"
)

// Pacer waits between ticks.
type Pacer interface {
	// Wait blocks for about d. It returns ctx.Err() if ctx ends first.
	Wait(ctx context.Context, d time.Duration) error
}

// SleepPacer sleeps for the full tick duration after every iteration.
// Time spent in the iteration is not subtracted, so slow ticks drift.
type SleepPacer struct{}

// Wait implements Pacer.
func (SleepPacer) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
