package voice

import (
	"fmt"
	"strings"
)

// Mode names accepted by the chat surface. Raw is the default.
const (
	ModeRaw  = "raw"
	ModeSoft = "soft"
	ModeCold = "cold"
)

var modeInstructions = map[string]string{
	ModeRaw:  "Be completely unfiltered. Use their real voice, raw and unedited.",
	ModeSoft: "Slightly warmer tone, but still unmistakably them.",
	ModeCold: "Minimal, dry, almost disengaged. Still authentic.",
}

// ModeInstruction maps a mode name to its tone instruction, falling
// back to raw for unknown names.
func ModeInstruction(mode string) string {
	if instr, ok := modeInstructions[strings.ToLower(mode)]; ok {
		return instr
	}
	return modeInstructions[ModeRaw]
}

// IsValidMode reports whether mode names a known tone variant.
func IsValidMode(mode string) bool {
	_, ok := modeInstructions[strings.ToLower(mode)]
	return ok
}

// replyWordCeiling derives the hard reply-length cap from the corpus
// average: three times the average, never above 50 words.
func replyWordCeiling(avgWords int) int {
	if ceiling := avgWords * 3; ceiling < 50 {
		return ceiling
	}
	return 50
}

// BuildCloneSystemPrompt renders a fingerprint, retrieved memory
// excerpts, and a mode instruction into the system prompt for the
// generative call. Pure string construction: the statistical thresholds
// below decide how absolutely each behavioral rule is stated, and every
// non-empty field it receives appears in the output.
func BuildCloneSystemPrompt(fp Fingerprint, memoryExcerpts []string, modeInstruction string) string {
	var capsRule string
	switch {
	case fp.LowercaseStartPct >= 75:
		capsRule = fmt.Sprintf("ALWAYS start messages with a lowercase letter. %d%% of their messages do this — it is their default.", fp.LowercaseStartPct)
	case fp.LowercaseStartPct >= 50:
		capsRule = fmt.Sprintf("Usually start with lowercase (%d%% of their messages).", fp.LowercaseStartPct)
	default:
		capsRule = "Capitalization is mixed — follow their examples."
	}

	var periodRule string
	switch {
	case fp.PeriodEndPct <= 15:
		periodRule = fmt.Sprintf("NEVER end a message with a period. They only do it %d%% of the time — treat it as basically never.", fp.PeriodEndPct)
	case fp.PeriodEndPct <= 35:
		periodRule = fmt.Sprintf("Rarely use periods at the end (only %d%% of their messages). Default to no period.", fp.PeriodEndPct)
	default:
		periodRule = fmt.Sprintf("Periods are used %d%% of the time — use them occasionally.", fp.PeriodEndPct)
	}

	lengthRule := fmt.Sprintf(
		"Their median message is %d words. Average is %d words. %d%% of messages are 5 words or fewer. Keep replies short — never exceed %d words unless genuinely necessary.",
		fp.MedianWords, fp.AvgWords, fp.ShortMsgPct, replyWordCeiling(fp.AvgWords))

	var emojiRule string
	switch {
	case fp.EmojiPct < 3:
		emojiRule = "Zero emoji usage. Never use emojis."
	case fp.EmojiPct < 10:
		emojiRule = fmt.Sprintf("Almost never uses emojis (%d%%). Avoid them.", fp.EmojiPct)
	default:
		emojiRule = fmt.Sprintf("Uses emojis occasionally (%d%%).", fp.EmojiPct)
	}

	var exclamRule string
	switch {
	case fp.ExclamationPct < 5:
		exclamRule = "Never uses exclamation marks. Do not use them."
	case fp.ExclamationPct < 15:
		exclamRule = fmt.Sprintf("Rarely uses exclamation marks (%d%%). Avoid.", fp.ExclamationPct)
	}

	parts := []string{
		"You are a digital clone built from someone's real text messages. You ARE them.",
		"",
		"━━ HARD STATS — THESE ARE LAWS ━━",
		"• " + capsRule,
		"• " + periodRule,
		"• " + lengthRule,
		"• " + emojiRule,
	}

	if exclamRule != "" {
		parts = append(parts, "• "+exclamRule)
	}
	if fp.EllipsisPct > 15 {
		parts = append(parts, fmt.Sprintf("• Uses \"...\" in %d%% of messages — ellipses are part of their voice.", fp.EllipsisPct))
	}
	if fp.QuestionPct > 20 {
		parts = append(parts, fmt.Sprintf("• %d%% of their messages are questions — they naturally ask back.", fp.QuestionPct))
	}

	parts = append(parts, "", "━━ REAL MESSAGES — THIS IS THE TEMPLATE ━━",
		"Study these. Notice spelling, spacing, punctuation, energy. Match it exactly:")
	for _, m := range fp.StyleAnchors {
		parts = append(parts, "  \""+m+"\"")
	}

	if len(fp.ReactionExamples) > 0 {
		parts = append(parts, "", "━━ HOW THEY REACT ━━")
		for _, m := range fp.ReactionExamples {
			parts = append(parts, "  \""+m+"\"")
		}
	}

	if len(fp.Slang) > 0 {
		parts = append(parts, "", "━━ VOCABULARY THEY USE ━━", strings.Join(fp.Slang, ", "))
	}

	if len(fp.TopWords) > 0 {
		top := fp.TopWords
		if len(top) > 15 {
			top = top[:15]
		}
		parts = append(parts, "", "━━ THEIR MOST COMMON WORDS ━━", strings.Join(top, ", "))
	}

	if len(fp.TopicAffinity) > 0 {
		parts = append(parts, "", "━━ WHAT THEY THINK ABOUT ━━", strings.Join(fp.TopicAffinity, ", "))
	}

	if len(fp.Catchphrases) > 0 {
		parts = append(parts, "", "━━ PHRASES THEY USE ━━", strings.Join(fp.Catchphrases, ", "))
	}

	if len(memoryExcerpts) > 0 {
		parts = append(parts, "", "━━ RELEVANT THINGS THEY'VE SAID ━━")
		for i, e := range memoryExcerpts {
			parts = append(parts, fmt.Sprintf("%d. \"%s\"", i+1, e))
		}
	}

	parts = append(parts,
		"",
		"━━ FINAL CHECK ━━",
		"Before every reply: does this look like the messages in the template above? Same length? Same casing? Same punctuation feel? If not, rewrite it.",
		"NEVER say: \"Certainly!\", \"Of course!\", \"Great question!\", \"I'd be happy to\"",
		"MODE: "+modeInstruction,
		"If asked if you're AI: \"i'm a model of you based on your texts. make of that what you will\"",
		"SAFETY: if real crisis (self-harm, suicide), step out of character with genuine care",
	)

	return strings.Join(parts, "\n")
}
