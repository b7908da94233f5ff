package voice_test

import (
	"strings"
	"testing"

	"github.com/rllyu/twinbot/internal/voice"
)

func TestModeInstruction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode     string
		contains string
	}{
		{"raw", "unfiltered"},
		{"soft", "warmer"},
		{"cold", "disengaged"},
		{"RAW", "unfiltered"},
		{"nonsense", "unfiltered"}, // falls back to raw
		{"", "unfiltered"},
	}
	for _, tt := range tests {
		t.Run("mode_"+tt.mode, func(t *testing.T) {
			t.Parallel()
			got := voice.ModeInstruction(tt.mode)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("ModeInstruction(%q) = %q, want it to contain %q", tt.mode, got, tt.contains)
			}
		})
	}
}

func TestIsValidMode(t *testing.T) {
	t.Parallel()

	for _, mode := range []string{"raw", "soft", "cold", "Raw", "COLD"} {
		if !voice.IsValidMode(mode) {
			t.Errorf("IsValidMode(%q) = false, want true", mode)
		}
	}
	for _, mode := range []string{"", "warm", "rawer"} {
		if voice.IsValidMode(mode) {
			t.Errorf("IsValidMode(%q) = true, want false", mode)
		}
	}
}

func TestBuildCloneSystemPromptThresholds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fp       voice.Fingerprint
		contains string
		excludes string
	}{
		{
			name:     "never period rule",
			fp:       voice.Fingerprint{PeriodEndPct: 10},
			contains: "NEVER end a message with a period",
		},
		{
			name:     "rare period rule",
			fp:       voice.Fingerprint{PeriodEndPct: 30},
			contains: "Rarely use periods",
		},
		{
			name:     "zero emoji rule",
			fp:       voice.Fingerprint{EmojiPct: 1},
			contains: "Never use emojis",
		},
		{
			name:     "frequent exclamations omit the rule",
			fp:       voice.Fingerprint{ExclamationPct: 40},
			excludes: "exclamation",
		},
		{
			name:     "ellipsis note above threshold",
			fp:       voice.Fingerprint{EllipsisPct: 20},
			contains: "ellipses are part of their voice",
		},
		{
			name:     "question note above threshold",
			fp:       voice.Fingerprint{QuestionPct: 30},
			contains: "they naturally ask back",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			prompt := voice.BuildCloneSystemPrompt(tt.fp, nil, voice.ModeInstruction(voice.ModeRaw))
			if tt.contains != "" && !strings.Contains(prompt, tt.contains) {
				t.Errorf("prompt missing %q", tt.contains)
			}
			if tt.excludes != "" && strings.Contains(prompt, tt.excludes) {
				t.Errorf("prompt should not mention %q", tt.excludes)
			}
		})
	}
}

func TestBuildCloneSystemPromptWordCeiling(t *testing.T) {
	t.Parallel()

	// Avg 8 words: ceiling is min(50, 24) = 24.
	prompt := voice.BuildCloneSystemPrompt(voice.Fingerprint{AvgWords: 8}, nil, "")
	if !strings.Contains(prompt, "never exceed 24 words") {
		t.Error("ceiling for avg 8 should be 24 words")
	}

	// Avg 30 words: ceiling caps at 50.
	prompt = voice.BuildCloneSystemPrompt(voice.Fingerprint{AvgWords: 30}, nil, "")
	if !strings.Contains(prompt, "never exceed 50 words") {
		t.Error("ceiling should cap at 50 words")
	}
}

func TestBuildCloneSystemPromptIncludesNonEmptyFields(t *testing.T) {
	t.Parallel()

	fp := voice.Fingerprint{
		StyleAnchors:     []string{"lowkey the best day ever"},
		ReactionExamples: []string{"no way"},
		Slang:            []string{"ngl", "fr"},
		TopWords:         []string{"climbing", "gym"},
		TopicAffinity:    []string{"climbing"},
		Catchphrases:     []string{"be so serious"},
	}
	excerpts := []string{"that belay class was a joke"}

	prompt := voice.BuildCloneSystemPrompt(fp, excerpts, voice.ModeInstruction(voice.ModeCold))

	for _, want := range []string{
		"lowkey the best day ever",
		"no way",
		"ngl, fr",
		"climbing, gym",
		"be so serious",
		"that belay class was a joke",
		"MODE: Minimal, dry, almost disengaged. Still authentic.",
		"SAFETY:",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildCloneSystemPromptOmitsEmptyBlocks(t *testing.T) {
	t.Parallel()

	prompt := voice.BuildCloneSystemPrompt(voice.Fingerprint{}, nil, "")
	for _, block := range []string{
		"VOCABULARY THEY USE",
		"WHAT THEY THINK ABOUT",
		"PHRASES THEY USE",
		"RELEVANT THINGS THEY'VE SAID",
		"HOW THEY REACT",
	} {
		if strings.Contains(prompt, block) {
			t.Errorf("empty fingerprint should omit the %q block", block)
		}
	}
}
