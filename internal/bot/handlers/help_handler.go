package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const helpText = `Commands:

/import <paste> - ingest a chat export (or attach the file with /import as caption)
/rebuild - rebuild your voice profile from everything imported so far
/profile - show your current voice profile stats
/mode raw|soft|cold - set how filtered the clone's replies are
/first - have the clone open the conversation
/reset - delete your imported data, profile, and chat history

Anything else you send is answered by the clone.`

// NewHelpHandler returns a handler for the /help command.
func NewHelpHandler(deps HandlerDeps) bot.HandlerFunc {
	return helpHandler{deps}.Handle
}

type helpHandler struct {
	deps HandlerDeps
}

func (h helpHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "help")

	msg, from := messageFrom(update)
	if msg == nil {
		log.WarnContext(ctx, "Help handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	log.InfoContext(ctx, "Handling /help command", "chat_id", msg.Chat.ID, "user_id", from.ID)
	sendText(ctx, b, log, msg.Chat.ID, helpText)
}
