package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const welcomeText = `I build a digital clone of you from your own texts.

1. Send /import followed by a paste of your chat export, or attach the export file with an /import caption.
2. Run /rebuild to build your voice profile.
3. Just talk. Your clone answers.

/help shows everything else.`

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	msg, from := messageFrom(update)
	if msg == nil {
		log.WarnContext(ctx, "Start handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	log.InfoContext(ctx, "Handling /start command", "chat_id", msg.Chat.ID, "user_id", from.ID)
	sendText(ctx, b, log, msg.Chat.ID, welcomeText)
}
