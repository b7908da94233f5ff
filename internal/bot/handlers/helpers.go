package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	fileDownloadTimeout = 30 * time.Second
	aiProcessingTimeout = 2 * time.Minute
	sendMessageTimeout  = 10 * time.Second
	dbTimeout           = 5 * time.Second
)

// sendText sends a plain text message to a chat, logging on failure.
func sendText(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()

	_, err := b.SendMessage(sendCtx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}

// messageFrom extracts the message and sender from an update, or nil
// when either is missing.
func messageFrom(update *models.Update) (*models.Message, *models.User) {
	if update == nil || update.Message == nil || update.Message.From == nil {
		return nil, nil
	}
	return update.Message, update.Message.From
}
