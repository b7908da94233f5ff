package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/rllyu/twinbot/internal/voice"
)

// NewRebuildHandler returns a handler for the /rebuild command, which
// recomputes the caller's voice profile from their imported corpus.
func NewRebuildHandler(deps HandlerDeps) bot.HandlerFunc {
	return rebuildHandler{deps}.Handle
}

type rebuildHandler struct {
	deps HandlerDeps
}

func (h rebuildHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "rebuild")

	msg, from := messageFrom(update)
	if msg == nil {
		log.WarnContext(ctx, "Rebuild handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := msg.Chat.ID

	log.InfoContext(ctx, "Handling /rebuild command", "chat_id", chatID, "user_id", from.ID)

	count, err := h.deps.Store.CountMessages(ctx, from.ID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to count messages", "error", err, "owner_id", from.ID)
		sendText(ctx, b, log, chatID, "Something went wrong reading your corpus. Try again.")
		return
	}
	minMessages := h.deps.Config.Clone.MinMessages
	if count < minMessages {
		sendText(ctx, b, log, chatID,
			fmt.Sprintf("You have %d imported messages; I need at least %d to build a profile. Send more with /import.", count, minMessages))
		return
	}

	_, _ = b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping})

	texts, err := h.deps.Store.GetMessageTexts(ctx, from.ID, h.deps.Config.Clone.MaxCorpusMessages)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load corpus", "error", err, "owner_id", from.ID)
		sendText(ctx, b, log, chatID, "Something went wrong reading your corpus. Try again.")
		return
	}

	// The qualitative pass runs over a bounded random sample; the
	// statistics always run over the full corpus snapshot.
	traits := h.analyzeSample(ctx, texts)

	fp := voice.ComputeFingerprint(texts, traits)

	doc, err := json.Marshal(fp)
	if err != nil {
		log.ErrorContext(ctx, "Failed to marshal fingerprint", "error", err, "owner_id", from.ID)
		sendText(ctx, b, log, chatID, "Something went wrong building your profile. Try again.")
		return
	}
	if err := h.deps.Store.SaveVoiceProfile(ctx, from.ID, string(doc)); err != nil {
		log.ErrorContext(ctx, "Failed to save voice profile", "error", err, "owner_id", from.ID)
		sendText(ctx, b, log, chatID, "Something went wrong saving your profile. Try again.")
		return
	}

	log.InfoContext(ctx, "Voice profile rebuilt", "owner_id", from.ID, "corpus_size", fp.TotalMessages)
	sendText(ctx, b, log, chatID,
		fmt.Sprintf("Profile rebuilt from %d messages. Avg %d words per message, %d%% short replies, %d%% lowercase starts. Just talk to me now.",
			fp.TotalMessages, fp.AvgWords, fp.ShortMsgPct, fp.LowercaseStartPct))
}

// analyzeSample runs the generative trait analysis over a shuffled
// sample. Analysis failure degrades to a stats-only profile rather
// than failing the rebuild.
func (h rebuildHandler) analyzeSample(ctx context.Context, texts []string) *voice.Traits {
	log := h.deps.Logger.With("handler", "rebuild")

	sample := append([]string(nil), texts...)
	rand.Shuffle(len(sample), func(i, j int) {
		sample[i], sample[j] = sample[j], sample[i]
	})
	if limit := h.deps.Config.Clone.AnalysisSampleSize; len(sample) > limit {
		sample = sample[:limit]
	}

	aiCtx, cancel := context.WithTimeout(ctx, aiProcessingTimeout)
	defer cancel()

	traits, err := h.deps.GeminiClient.AnalyzeVoice(aiCtx, sample)
	if err != nil {
		log.WarnContext(ctx, "Voice analysis failed, building stats-only profile", "error", err)
		return nil
	}
	return traits
}
