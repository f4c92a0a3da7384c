package tasks

import (
	"context"
	"time"

	"github.com/edgard/chatlens/internal/metrics"
)

// newSessionCleanupTask creates the task that forgets uploads idle for longer
// than session.idle_ttl.
func newSessionCleanupTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "session_cleanup")

	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		startTime := time.Now()

		evicted := deps.Sessions.EvictIdle(deps.Config.Session.IdleTTL)
		remaining := deps.Sessions.Len()
		metrics.ActiveSessions.Set(float64(remaining))

		log.InfoContext(ctx, "Session cleanup completed",
			"evicted", evicted,
			"remaining", remaining,
			"duration", time.Since(startTime))
		return nil
	}
}
