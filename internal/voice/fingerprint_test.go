package voice_test

import (
	"strings"
	"testing"

	"github.com/rllyu/twinbot/internal/voice"
)

func TestComputeFingerprintEmptyCorpus(t *testing.T) {
	t.Parallel()

	fp := voice.ComputeFingerprint(nil, nil)
	if fp.TotalMessages != 0 || fp.AvgWords != 0 || fp.MedianWords != 0 {
		t.Errorf("empty corpus produced non-zero stats: %+v", fp)
	}
	if fp.TopWords == nil || fp.StyleAnchors == nil {
		t.Error("slice fields should be empty, not nil")
	}

	fp = voice.ComputeFingerprint([]string{"", "   "}, nil)
	if fp.TotalMessages != 0 {
		t.Errorf("blank-only corpus counted %d messages, want 0", fp.TotalMessages)
	}
}

func TestComputeFingerprintStats(t *testing.T) {
	t.Parallel()

	msgs := []string{
		"hey man",
		"nah",
		"what do you even mean?",
	}
	fp := voice.ComputeFingerprint(msgs, nil)

	if fp.TotalMessages != 3 {
		t.Errorf("TotalMessages = %d, want 3", fp.TotalMessages)
	}
	// Word counts 2, 1, 5: total 8, avg 8/3 rounds to 3.
	if fp.AvgWords != 3 {
		t.Errorf("AvgWords = %d, want 3", fp.AvgWords)
	}
	// Sorted counts [1 2 5]: middle element is 2.
	if fp.MedianWords != 2 {
		t.Errorf("MedianWords = %d, want 2", fp.MedianWords)
	}
	if fp.ShortMsgPct != 100 {
		t.Errorf("ShortMsgPct = %d, want 100 (all messages are 5 words or fewer)", fp.ShortMsgPct)
	}
	if fp.LowercaseStartPct != 100 {
		t.Errorf("LowercaseStartPct = %d, want 100", fp.LowercaseStartPct)
	}
	if fp.PeriodEndPct != 0 {
		t.Errorf("PeriodEndPct = %d, want 0", fp.PeriodEndPct)
	}
	if fp.QuestionPct != 33 {
		t.Errorf("QuestionPct = %d, want 33", fp.QuestionPct)
	}
	if fp.ExclamationPct != 0 || fp.EmojiPct != 0 || fp.EllipsisPct != 0 {
		t.Errorf("punctuation pcts = %d/%d/%d, want all 0", fp.ExclamationPct, fp.EmojiPct, fp.EllipsisPct)
	}
}

func TestComputeFingerprintEmojiAndEllipsis(t *testing.T) {
	t.Parallel()

	msgs := []string{
		"fine 😂",
		"sure...",
		"whatever man",
		"ok then…",
	}
	fp := voice.ComputeFingerprint(msgs, nil)

	if fp.EmojiPct != 25 {
		t.Errorf("EmojiPct = %d, want 25", fp.EmojiPct)
	}
	if fp.EllipsisPct != 50 {
		t.Errorf("EllipsisPct = %d, want 50 (both ... and … count)", fp.EllipsisPct)
	}
}

func TestComputeFingerprintTopWords(t *testing.T) {
	t.Parallel()

	msgs := []string{
		"ziggurat ziggurat obelisk",
		"obelisk again",
		"the ziggurat",
	}
	fp := voice.ComputeFingerprint(msgs, nil)

	if len(fp.TopWords) == 0 {
		t.Fatal("no top words extracted")
	}
	if fp.TopWords[0] != "ziggurat" {
		t.Errorf("TopWords[0] = %q, want ziggurat (3 occurrences)", fp.TopWords[0])
	}
	for _, w := range fp.TopWords {
		if w == "the" {
			t.Error("stopword survived top-word extraction")
		}
	}
}

func TestComputeFingerprintAnchorsAndReactions(t *testing.T) {
	t.Parallel()

	msgs := []string{
		"ok",                                   // reaction (1 word), too short for anchor
		"that movie was honestly pretty good",  // anchor (6 words)
		"http://example.com/link should skip",  // link, excluded from both
		"line\nbreak stays out of the anchors", // newline, excluded from anchors
	}
	fp := voice.ComputeFingerprint(msgs, nil)

	if len(fp.StyleAnchors) != 1 || fp.StyleAnchors[0] != "that movie was honestly pretty good" {
		t.Errorf("StyleAnchors = %q, want the single clean mid-length message", fp.StyleAnchors)
	}
	if len(fp.ReactionExamples) != 1 || fp.ReactionExamples[0] != "ok" {
		t.Errorf("ReactionExamples = %q, want [ok]", fp.ReactionExamples)
	}
}

func TestComputeFingerprintCarriesTraits(t *testing.T) {
	t.Parallel()

	traits := &voice.Traits{
		Humor:        "deadpan",
		Bluntness:    "very direct",
		Topics:       []string{"climbing"},
		Slang:        []string{"ngl"},
		Catchphrases: []string{"be so serious"},
	}
	fp := voice.ComputeFingerprint([]string{"hey"}, traits)

	if fp.HumorStyle != "deadpan" || fp.Bluntness != "very direct" {
		t.Errorf("qualitative strings not carried: %q / %q", fp.HumorStyle, fp.Bluntness)
	}
	if len(fp.TopicAffinity) != 1 || fp.TopicAffinity[0] != "climbing" {
		t.Errorf("TopicAffinity = %q", fp.TopicAffinity)
	}
	if len(fp.Slang) != 1 || len(fp.Catchphrases) != 1 {
		t.Errorf("Slang/Catchphrases not carried: %q / %q", fp.Slang, fp.Catchphrases)
	}
}

func TestComputeFingerprintLowercaseDominant(t *testing.T) {
	t.Parallel()

	msgs := make([]string, 10)
	for i := range msgs {
		msgs[i] = "lowercase start here"
	}
	msgs[0] = "One capitalized message"

	fp := voice.ComputeFingerprint(msgs, nil)
	if fp.LowercaseStartPct != 90 {
		t.Errorf("LowercaseStartPct = %d, want 90", fp.LowercaseStartPct)
	}

	prompt := voice.BuildCloneSystemPrompt(fp, nil, voice.ModeInstruction(voice.ModeRaw))
	if !strings.Contains(prompt, "ALWAYS start messages with a lowercase letter") {
		t.Error("90 percent lowercase starts should produce the unconditional lowercase rule")
	}
}
