package worker

import (
	"context"
	"log/slog"
)

// Sweeper drops expired entries and reports how many it removed.
type Sweeper interface {
	Sweep() int
}

// SessionSweepTask removes expired page sessions from an in-process store.
// Redis-backed sessions expire on their own and need no sweep.
func SessionSweepTask(store Sweeper, logger *slog.Logger) Task {
	return TaskFunc{
		TaskName: "session_sweep",
		Fn: func(ctx context.Context) error {
			if removed := store.Sweep(); removed > 0 {
				logger.Info("expired sessions removed", "count", removed)
			}
			return nil
		},
	}
}
