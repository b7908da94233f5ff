package safety_test

import (
	"strings"
	"testing"

	"github.com/rllyu/twinbot/internal/safety"
)

func TestDetectCrisis(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"direct statement", "I want to kill myself", true},
		{"kill self variant", "gonna kill self", true},
		{"suicide noun", "been thinking about suicide a lot", true},
		{"suicidal adjective", "i feel suicidal", true},
		{"want to die", "honestly i just want to die", true},
		{"end it", "i might just end it", true},
		{"end my life", "thinking about how to end my life", true},
		{"self harm hyphen", "struggling with self-harm again", true},
		{"self harm space", "self harm thoughts", true},
		{"cut myself", "i cut myself last night", true},
		{"dont want to be alive", "i don't want to be alive anymore", true},
		{"no apostrophe", "i dont want to be alive", true},
		{"no reason to live", "there's no reason to live", true},
		{"case insensitive", "I WANT TO DIE", true},

		{"idiom kill it", "let's kill it at the meeting tomorrow", false},
		{"killing time", "just killing time before class", false},
		{"die in game", "my character keeps dying in this game", false},
		{"deadline", "this deadline is ending me lol", false},
		{"plain chat", "what do you want for dinner", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := safety.DetectCrisis(tt.text); got != tt.want {
				t.Errorf("DetectCrisis(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCrisisResponseContent(t *testing.T) {
	t.Parallel()

	for _, want := range []string{"741741", "988", "findahelpline.com"} {
		if !strings.Contains(safety.CrisisResponse, want) {
			t.Errorf("CrisisResponse missing %q", want)
		}
	}
}
