package tasks

import (
	"context"
)

// newSessionPruneTask creates the scheduled task that evicts expired
// in-memory demo conversations.
func newSessionPruneTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "session_prune")

	return func(ctx context.Context) error {
		pruned := deps.Sessions.PruneExpired()
		if pruned > 0 {
			log.InfoContext(ctx, "Pruned expired sessions", "count", pruned, "remaining", deps.Sessions.Len())
		} else {
			log.DebugContext(ctx, "No expired sessions to prune", "active", deps.Sessions.Len())
		}
		return nil
	}
}
