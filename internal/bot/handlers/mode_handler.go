package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/rllyu/twinbot/internal/voice"
)

// NewModeHandler returns a handler for the /mode command.
func NewModeHandler(deps HandlerDeps) bot.HandlerFunc {
	return modeHandler{deps}.Handle
}

type modeHandler struct {
	deps HandlerDeps
}

func (h modeHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "mode")

	msg, from := messageFrom(update)
	if msg == nil {
		log.WarnContext(ctx, "Mode handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := msg.Chat.ID

	arg := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(msg.Text, "/mode")))
	if arg == "" {
		current, err := h.deps.Store.GetChatMode(ctx, chatID, h.deps.Config.Clone.DefaultMode)
		if err != nil {
			log.ErrorContext(ctx, "Failed to read chat mode", "error", err, "chat_id", chatID)
		}
		sendText(ctx, b, log, chatID,
			fmt.Sprintf("Current mode: %s. Use /mode raw, /mode soft, or /mode cold.", current))
		return
	}

	if !voice.IsValidMode(arg) {
		sendText(ctx, b, log, chatID, "Unknown mode. Valid modes: raw, soft, cold.")
		return
	}

	if err := h.deps.Store.SetChatMode(ctx, chatID, arg); err != nil {
		log.ErrorContext(ctx, "Failed to set chat mode", "error", err, "chat_id", chatID)
		sendText(ctx, b, log, chatID, "Something went wrong saving the mode. Try again.")
		return
	}

	log.InfoContext(ctx, "Chat mode updated", "chat_id", chatID, "user_id", from.ID, "mode", arg)
	sendText(ctx, b, log, chatID, fmt.Sprintf("Mode set to %s.", arg))
}
