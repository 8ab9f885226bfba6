package process

import (
	"context"
	"time"
)

const (
	// DefaultExitPollInterval is used by ExitCtx when interval is zero.
	DefaultExitPollInterval = time.Second
)

// ExitCtx creates a context.Context that is marked as done when
// the process with the specified PID exits, or when ctx is done.
//
// Errors checking for the process are ignored, and the check
// is retried on the next interval.
func ExitCtx(ctx context.Context, pid uint32, interval time.Duration) (context.Context, func()) {
	if interval <= 0 {
		interval = DefaultExitPollInterval
	}

	newCtx, cancelFn := context.WithCancel(ctx)

	go func() {
		defer cancelFn()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-newCtx.Done():
				return
			case <-ticker.C:
				exists, err := Exists(newCtx, pid)
				if err == nil && !exists {
					return
				}
			}
		}
	}()

	return newCtx, cancelFn
}
