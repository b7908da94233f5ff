package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/rllyu/twinbot/internal/database"
	"github.com/rllyu/twinbot/internal/gemini"
	"github.com/rllyu/twinbot/internal/voice"
)

// NewFirstHandler returns a handler for the /first command, which has
// the clone open the conversation instead of waiting for the user.
func NewFirstHandler(deps HandlerDeps) bot.HandlerFunc {
	return firstHandler{deps}.Handle
}

type firstHandler struct {
	deps HandlerDeps
}

func (h firstHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "first")

	msg, from := messageFrom(update)
	if msg == nil {
		log.WarnContext(ctx, "First handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := msg.Chat.ID

	log.InfoContext(ctx, "Handling /first command", "chat_id", chatID, "user_id", from.ID)

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

	if h.conversationStarted(ctx, chatID, cc) {
		sendText(ctx, b, log, chatID, "This conversation already started. Just keep talking, or /reset to start over.")
		return
	}

	_, _ = b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping})

	samples := cc.fp.StyleAnchors
	if len(samples) == 0 {
		samples = cc.fp.ReactionExamples
	}

	aiCtx, cancel := context.WithTimeout(ctx, aiProcessingTimeout)
	opening, err := h.deps.GeminiClient.GenerateOpeningMessage(aiCtx, styleDescription(cc.fp), samples)
	cancel()
	if err != nil {
		log.ErrorContext(ctx, "Opening message generation failed", "error", err, "chat_id", chatID)
		sendText(ctx, b, log, chatID, replyUnavailableText)
		return
	}

	sendText(ctx, b, log, chatID, opening)

	if cc.persisted {
		dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
		saveErr := h.deps.Store.SaveChatMessage(dbCtx, &database.ChatMessage{
			ChatID:  chatID,
			Role:    gemini.RoleClone,
			Content: opening,
		})
		cancel()
		if saveErr != nil {
			log.ErrorContext(ctx, "Failed to save opening message", "error", saveErr, "chat_id", chatID)
		}
	} else {
		h.deps.Sessions.Append(chatID, gemini.RoleClone, opening)
	}
}

func (h firstHandler) conversationStarted(ctx context.Context, chatID int64, cc *cloneContext) bool {
	log := h.deps.Logger.With("handler", "first")

	if cc.persisted {
		count, err := h.deps.Store.CountChatMessages(ctx, chatID)
		if err != nil {
			log.WarnContext(ctx, "Failed to count chat messages", "error", err, "chat_id", chatID)
			return false
		}
		return count > 0
	}
	return len(h.deps.Sessions.History(chatID)) > 0
}

// styleDescription renders a compact style block for the opening
// message prompt.
func styleDescription(fp voice.Fingerprint) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "- Avg %d words per message, %d%% of messages are 5 words or fewer\n", fp.AvgWords, fp.ShortMsgPct)
	fmt.Fprintf(&sb, "- %d%% start lowercase, %d%% use emoji, %d%% use exclamations\n", fp.LowercaseStartPct, fp.EmojiPct, fp.ExclamationPct)
	if len(fp.TopWords) > 0 {
		limit := len(fp.TopWords)
		if limit > 10 {
			limit = 10
		}
		fmt.Fprintf(&sb, "- Words they overuse: %s\n", strings.Join(fp.TopWords[:limit], ", "))
	}
	if fp.HumorStyle != "" {
		fmt.Fprintf(&sb, "- Humor: %s\n", fp.HumorStyle)
	}
	if len(fp.TopicAffinity) > 0 {
		fmt.Fprintf(&sb, "- Topics they care about: %s\n", strings.Join(fp.TopicAffinity, ", "))
	}
	if len(fp.Catchphrases) > 0 {
		fmt.Fprintf(&sb, "- Phrases they repeat: %s\n", strings.Join(fp.Catchphrases, ", "))
	}
	return strings.TrimRight(sb.String(), "\n")
}
