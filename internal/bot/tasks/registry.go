package tasks

import (
	"context"
)

// ScheduledTaskFunc is the signature shared by all scheduled tasks.
// The scheduler's context should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks initializes and returns the map of scheduled tasks.
// The keys match the task names used in the scheduler configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := make(map[string]ScheduledTaskFunc)

	tasks["fingerprint_refresh"] = newFingerprintRefreshTask(deps)
	tasks["session_prune"] = newSessionPruneTask(deps)
	tasks["sql_maintenance"] = newSQLMaintenanceTask(deps)

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
