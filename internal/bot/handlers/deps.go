// Package handlers implements the Telegram command and chat handlers
// for the clone bot: corpus import, fingerprint rebuild, mode
// switching, and the clone conversation loop itself.
package handlers

import (
	"log/slog"

	"github.com/rllyu/twinbot/internal/config"
	"github.com/rllyu/twinbot/internal/database"
	"github.com/rllyu/twinbot/internal/gemini"
	"github.com/rllyu/twinbot/internal/session"
)

// HandlerDeps provides dependencies for Telegram handlers.
type HandlerDeps struct {
	Logger       *slog.Logger
	Config       *config.Config
	Store        database.Store
	GeminiClient gemini.Client

	// Sessions holds in-memory conversation state for chats talking to
	// the demo clone; owner chats persist their history instead.
	Sessions *session.Cache
}
