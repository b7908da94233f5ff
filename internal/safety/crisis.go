// Package safety implements the crisis gate: a fixed pattern match that
// intercepts self-harm signals before any generative call is made.
// False negatives are expected (the list is heuristic, not exhaustive);
// false positives are an accepted cost.
package safety

import "regexp"

// crisisPatterns is the fixed, versioned signal list. Case-insensitive;
// first match short-circuits.
var crisisPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bkill\s+(my)?self\b`),
	regexp.MustCompile(`(?i)\bsuicid(e|al)\b`),
	regexp.MustCompile(`(?i)\bwant\s+to\s+die\b`),
	regexp.MustCompile(`(?i)\bend\s+(it|my life)\b`),
	regexp.MustCompile(`(?i)\bself[\s-]?harm\b`),
	regexp.MustCompile(`(?i)\bcut\s+(my)?self\b`),
	regexp.MustCompile(`(?i)\bdon'?t\s+want\s+to\s+(be\s+)?alive\b`),
	regexp.MustCompile(`(?i)\bno\s+reason\s+to\s+live\b`),
}

// DetectCrisis reports whether text matches any crisis signal. When it
// does, the calling flow must skip the generative call entirely and
// reply with CrisisResponse.
func DetectCrisis(text string) bool {
	for _, p := range crisisPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// CrisisResponse is the fixed, human-authored reply sent instead of a
// generated message when a crisis signal fires.
const CrisisResponse = `hey — stepping outside the bit for a sec.

are you actually okay?

if you're going through something real, please reach out:
• crisis text line: text HOME to 741741
• 988 suicide & crisis lifeline: call or text 988
• international: findahelpline.com

i'm a model of you, not the real you — but the real you matters. 💙`
