package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/rllyu/twinbot/internal/memory"
	"github.com/rllyu/twinbot/internal/safety"
	"github.com/rllyu/twinbot/internal/voice"
)

const replyUnavailableText = "the clone is temporarily unavailable. try again in a bit."

// NewChatHandler returns the default handler: every non-command
// message is answered by the clone.
func NewChatHandler(deps HandlerDeps) bot.HandlerFunc {
	return chatHandler{deps}.Handle
}

type chatHandler struct {
	deps HandlerDeps
}

func (h chatHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "chat")

	msg, from := messageFrom(update)
	if msg == nil {
		log.DebugContext(ctx, "Ignoring update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := msg.Chat.ID

	if msg.Document != nil {
		if strings.HasPrefix(strings.TrimSpace(msg.Caption), "/import") {
			importHandler{h.deps}.HandleDocument(ctx, b, msg)
		} else {
			sendText(ctx, b, log, chatID, "To ingest that file, attach it with /import as its caption.")
		}
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		log.DebugContext(ctx, "Ignoring message with empty text", "chat_id", chatID)
		return
	}
	if strings.HasPrefix(text, "/") {
		sendText(ctx, b, log, chatID, "Unknown command. /help lists everything I understand.")
		return
	}

	// The crisis gate runs before anything touches the generative
	// model. A crisis response is still recorded as a turn.
	if safety.DetectCrisis(text) {
		log.InfoContext(ctx, "Crisis message detected, sending support resources", "chat_id", chatID)
		cc, _, err := h.deps.resolveClone(ctx, from.ID)
		if err != nil {
			log.ErrorContext(ctx, "Failed to resolve clone during crisis handling", "error", err, "chat_id", chatID)
		}
		sendText(ctx, b, log, chatID, safety.CrisisResponse)
		if saveErr := h.deps.saveTurn(ctx, chatID, cc, text, safety.CrisisResponse); saveErr != nil {
			log.ErrorContext(ctx, "Failed to save crisis turn", "error", saveErr, "chat_id", chatID)
		}
		return
	}

	cc, reason, err := h.deps.resolveClone(ctx, from.ID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to resolve clone", "error", err, "chat_id", chatID, "user_id", from.ID)
		sendText(ctx, b, log, chatID, replyUnavailableText)
		return
	}
	if reason != "" {
		sendText(ctx, b, log, chatID, reason)
		return
	}

	_, _ = b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping})

	excerpts := h.retrieveMemories(ctx, cc.ownerID, text)

	mode, err := h.deps.Store.GetChatMode(ctx, chatID, h.deps.Config.Clone.DefaultMode)
	if err != nil {
		log.WarnContext(ctx, "Failed to read chat mode, using default", "error", err, "chat_id", chatID)
	}

	systemPrompt := voice.BuildCloneSystemPrompt(cc.fp, excerpts, voice.ModeInstruction(mode))

	history, err := h.deps.loadHistory(ctx, chatID, cc)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load chat history", "error", err, "chat_id", chatID)
		history = nil
	}

	aiCtx, cancel := context.WithTimeout(ctx, aiProcessingTimeout)
	reply, err := h.deps.GeminiClient.GenerateCloneReply(aiCtx, systemPrompt, history, text)
	cancel()
	if err != nil {
		log.ErrorContext(ctx, "Clone reply generation failed", "error", err, "chat_id", chatID)
		sendText(ctx, b, log, chatID, replyUnavailableText)
		return
	}

	sendText(ctx, b, log, chatID, reply)

	if err := h.deps.saveTurn(ctx, chatID, cc, text, reply); err != nil {
		log.ErrorContext(ctx, "Failed to save chat turn", "error", err, "chat_id", chatID)
	}
}

// retrieveMemories pulls the most relevant corpus excerpts for the
// incoming message. Retrieval failure degrades to no memories.
func (h chatHandler) retrieveMemories(ctx context.Context, ownerID int64, query string) []string {
	log := h.deps.Logger.With("handler", "chat")

	rows, err := h.deps.Store.GetCorpus(ctx, ownerID, h.deps.Config.Clone.MaxCorpusMessages)
	if err != nil {
		log.WarnContext(ctx, "Failed to load corpus for retrieval", "error", err, "owner_id", ownerID)
		return nil
	}

	corpus := make([]memory.CorpusEntry, 0, len(rows))
	for _, row := range rows {
		corpus = append(corpus, memory.CorpusEntry{ID: strconv.FormatInt(row.ID, 10), Text: row.Text})
	}
	return memory.Search(corpus, query, h.deps.Config.Clone.MemoryTopK)
}
