// Package tasks implements the bot's scheduled background tasks and
// their registration.
package tasks

import (
	"log/slog"

	"github.com/rllyu/twinbot/internal/config"
	"github.com/rllyu/twinbot/internal/database"
	"github.com/rllyu/twinbot/internal/session"
)

// TaskDeps contains the dependencies available to scheduled tasks.
type TaskDeps struct {
	Logger   *slog.Logger
	Store    database.Store
	Config   *config.Config
	Sessions *session.Cache
}
