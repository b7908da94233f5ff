package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewResetHandler returns a handler for the /reset command, which
// deletes the caller's corpus, profile, and conversation history.
func NewResetHandler(deps HandlerDeps) bot.HandlerFunc {
	return resetHandler{deps}.Handle
}

type resetHandler struct {
	deps HandlerDeps
}

func (h resetHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "reset")

	msg, from := messageFrom(update)
	if msg == nil {
		log.WarnContext(ctx, "Reset handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := msg.Chat.ID

	log.InfoContext(ctx, "Handling /reset command", "chat_id", chatID, "user_id", from.ID)

	if err := h.deps.Store.DeleteOwnerData(ctx, from.ID); err != nil {
		log.ErrorContext(ctx, "Failed to delete owner data", "error", err, "owner_id", from.ID)
		sendText(ctx, b, log, chatID, "Something went wrong deleting your data. Try again.")
		return
	}
	if err := h.deps.Store.DeleteChatHistory(ctx, chatID); err != nil {
		log.ErrorContext(ctx, "Failed to delete chat history", "error", err, "chat_id", chatID)
		sendText(ctx, b, log, chatID, "Your corpus is gone, but clearing the chat history failed. Try /reset again.")
		return
	}
	h.deps.Sessions.Forget(chatID)

	sendText(ctx, b, log, chatID, "Done. Your imported messages, voice profile, and chat history are deleted.")
}
