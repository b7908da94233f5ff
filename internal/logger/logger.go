// Package logger provides structured logging for the bot using slog,
// plus a Telegram middleware that logs incoming updates.
package logger

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewLogger creates an slog Logger with the given level, as JSON when
// jsonOutput is true, text otherwise.
func NewLogger(levelStr string, jsonOutput bool) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

// Middleware creates a Telegram bot middleware that logs each handled
// update and its processing duration.
func Middleware(log *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			start := time.Now()

			entry := log.With("update_id", update.ID)
			if update.Message != nil {
				entry = entry.With("chat_id", update.Message.Chat.ID)
				if update.Message.From != nil {
					entry = entry.With("user_id", update.Message.From.ID)
				}
			}
			entry.DebugContext(ctx, "Handling update")

			next(ctx, b, update)

			entry.DebugContext(ctx, "Update handled", "duration_ms", time.Since(start).Milliseconds())
		}
	}
}
