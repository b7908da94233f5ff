package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/rllyu/twinbot/internal/voice"
)

// NewProfileHandler returns a handler for the /profile command.
func NewProfileHandler(deps HandlerDeps) bot.HandlerFunc {
	return profileHandler{deps}.Handle
}

type profileHandler struct {
	deps HandlerDeps
}

func (h profileHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "profile")

	msg, from := messageFrom(update)
	if msg == nil {
		log.WarnContext(ctx, "Profile handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := msg.Chat.ID

	log.InfoContext(ctx, "Handling /profile command", "chat_id", chatID, "user_id", from.ID)

	profile, err := h.deps.Store.GetVoiceProfile(ctx, from.ID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load voice profile", "error", err, "owner_id", from.ID)
		sendText(ctx, b, log, chatID, "Something went wrong reading your profile. Try again.")
		return
	}
	if profile == nil {
		sendText(ctx, b, log, chatID, "No profile yet. Import your texts with /import, then run /rebuild.")
		return
	}

	var fp voice.Fingerprint
	if err := json.Unmarshal([]byte(profile.Fingerprint), &fp); err != nil {
		log.ErrorContext(ctx, "Failed to parse stored fingerprint", "error", err, "owner_id", from.ID)
		sendText(ctx, b, log, chatID, "Your stored profile looks corrupted. Run /rebuild to regenerate it.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Your voice profile (built %s):\n\n", profile.UpdatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "Messages: %d\n", fp.TotalMessages)
	fmt.Fprintf(&sb, "Avg words: %d (median %d)\n", fp.AvgWords, fp.MedianWords)
	fmt.Fprintf(&sb, "Short replies: %d%%\n", fp.ShortMsgPct)
	fmt.Fprintf(&sb, "Lowercase starts: %d%%\n", fp.LowercaseStartPct)
	fmt.Fprintf(&sb, "Sentences ending with a period: %d%%\n", fp.PeriodEndPct)
	fmt.Fprintf(&sb, "Questions: %d%%, exclamations: %d%%, emoji: %d%%\n", fp.QuestionPct, fp.ExclamationPct, fp.EmojiPct)
	if len(fp.TopWords) > 0 {
		limit := len(fp.TopWords)
		if limit > 10 {
			limit = 10
		}
		fmt.Fprintf(&sb, "Top words: %s\n", strings.Join(fp.TopWords[:limit], ", "))
	}
	if fp.HumorStyle != "" {
		fmt.Fprintf(&sb, "Humor: %s\n", fp.HumorStyle)
	}
	if fp.Bluntness != "" {
		fmt.Fprintf(&sb, "Bluntness: %s\n", fp.Bluntness)
	}
	if len(fp.TopicAffinity) > 0 {
		fmt.Fprintf(&sb, "Topics: %s\n", strings.Join(fp.TopicAffinity, ", "))
	}
	if len(fp.Slang) > 0 {
		fmt.Fprintf(&sb, "Slang: %s\n", strings.Join(fp.Slang, ", "))
	}

	sendText(ctx, b, log, chatID, sb.String())
}
