// Package voice computes a statistical "voice fingerprint" from a
// message corpus and renders it into the system prompt that conditions
// the clone's replies. Everything here is a pure function over text;
// the qualitative fields (humor, bluntness, topics, slang,
// catchphrases) come from a separate generative analysis pass and are
// carried through verbatim.
package voice

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

const (
	topWordCount     = 25
	maxStyleAnchors  = 12
	maxReactions     = 8
	shortMsgMaxWords = 5
)

// Traits holds the qualitative labels produced by the LLM analysis
// step. All fields default to empty when no analysis has run.
type Traits struct {
	Humor        string   `json:"humor"`
	Bluntness    string   `json:"bluntness"`
	Topics       []string `json:"topics"`
	Slang        []string `json:"slang"`
	Catchphrases []string `json:"catchphrases"`
}

// Fingerprint is an immutable snapshot of one author's texting profile.
// It is recomputed wholesale on every rebuild and replaced as a unit,
// never partially mutated. All percentage fields are rounded to the
// nearest integer.
type Fingerprint struct {
	TotalMessages     int      `json:"total_messages"`
	AvgWords          int      `json:"avg_words"`
	MedianWords       int      `json:"median_words"`
	ShortMsgPct       int      `json:"short_msg_pct"`
	LowercaseStartPct int      `json:"lowercase_start_pct"`
	PeriodEndPct      int      `json:"period_end_pct"`
	QuestionPct       int      `json:"question_pct"`
	EllipsisPct       int      `json:"ellipsis_pct"`
	EmojiPct          int      `json:"emoji_pct"`
	ExclamationPct    int      `json:"exclamation_pct"`
	TopWords          []string `json:"top_words"`

	StyleAnchors     []string `json:"style_anchors"`
	ReactionExamples []string `json:"reaction_examples"`

	HumorStyle    string   `json:"humor_style"`
	TopicAffinity []string `json:"topic_affinity"`
	Bluntness     string   `json:"bluntness"`
	Slang         []string `json:"slang"`
	Catchphrases  []string `json:"catchphrases"`
}

var (
	lowercaseStartRe = regexp.MustCompile(`^[a-z]`)
	periodEndRe      = regexp.MustCompile(`\.\s*$`)
	questionEndRe    = regexp.MustCompile(`\?\s*$`)
	ellipsisRe       = regexp.MustCompile(`\.{3}|…`)
	nonWordRe        = regexp.MustCompile(`[^a-z0-9\s]`)
)

// ComputeFingerprint derives the statistical profile of a message
// corpus. Blank messages are dropped first; an empty corpus yields the
// zero fingerprint rather than an error. Traits, when non-nil, are
// copied through verbatim.
func ComputeFingerprint(messages []string, traits *Traits) Fingerprint {
	msgs := make([]string, 0, len(messages))
	for _, m := range messages {
		if strings.TrimSpace(m) != "" {
			msgs = append(msgs, m)
		}
	}

	fp := Fingerprint{
		TopWords:         []string{},
		StyleAnchors:     []string{},
		ReactionExamples: []string{},
		TopicAffinity:    []string{},
		Slang:            []string{},
		Catchphrases:     []string{},
	}
	if traits != nil {
		fp.HumorStyle = traits.Humor
		fp.Bluntness = traits.Bluntness
		if traits.Topics != nil {
			fp.TopicAffinity = traits.Topics
		}
		if traits.Slang != nil {
			fp.Slang = traits.Slang
		}
		if traits.Catchphrases != nil {
			fp.Catchphrases = traits.Catchphrases
		}
	}
	if len(msgs) == 0 {
		return fp
	}

	n := len(msgs)
	fp.TotalMessages = n

	wordCounts := make([]int, n)
	totalWords := 0
	for i, m := range msgs {
		wordCounts[i] = len(strings.Fields(m))
		totalWords += wordCounts[i]
	}
	fp.AvgWords = int(math.Round(float64(totalWords) / float64(n)))

	sorted := append([]int(nil), wordCounts...)
	sort.Ints(sorted)
	// Middle element; fixed tie rule for even lengths (no averaging).
	fp.MedianWords = sorted[len(sorted)/2]

	short := 0
	for _, wc := range wordCounts {
		if wc <= shortMsgMaxWords {
			short++
		}
	}
	fp.ShortMsgPct = pct(short, n)

	fp.LowercaseStartPct = pct(countMatching(msgs, func(m string) bool {
		return lowercaseStartRe.MatchString(strings.TrimSpace(m))
	}), n)
	fp.PeriodEndPct = pct(countMatching(msgs, func(m string) bool {
		return periodEndRe.MatchString(strings.TrimSpace(m))
	}), n)
	fp.QuestionPct = pct(countMatching(msgs, func(m string) bool {
		return questionEndRe.MatchString(strings.TrimSpace(m))
	}), n)
	fp.EllipsisPct = pct(countMatching(msgs, ellipsisRe.MatchString), n)
	fp.EmojiPct = pct(countMatching(msgs, containsEmoji), n)
	fp.ExclamationPct = pct(countMatching(msgs, func(m string) bool {
		return strings.Contains(m, "!")
	}), n)

	fp.TopWords = topWords(msgs, topWordCount)
	fp.StyleAnchors = styleAnchors(msgs)
	fp.ReactionExamples = reactionExamples(msgs)

	return fp
}

func pct(count, total int) int {
	return int(math.Round(float64(count) / float64(total) * 100))
}

func countMatching(msgs []string, match func(string) bool) int {
	n := 0
	for _, m := range msgs {
		if match(m) {
			n++
		}
	}
	return n
}

// topWords returns the most frequent content words across the corpus.
// Tokens are lowercased, stripped to [a-z0-9\s], and filtered against
// the stopword set; single-character tokens are dropped. Ties keep
// first-encountered order.
func topWords(msgs []string, limit int) []string {
	freq := make(map[string]int)
	var order []string

	for _, m := range msgs {
		cleaned := nonWordRe.ReplaceAllString(strings.ToLower(m), " ")
		for _, w := range strings.Fields(cleaned) {
			if len(w) <= 1 {
				continue
			}
			if _, stop := stopWords[w]; stop {
				continue
			}
			if freq[w] == 0 {
				order = append(order, w)
			}
			freq[w]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

// styleAnchors picks up to 12 short, clean, single-line messages that
// show how the author types: 3-15 words, no links, no code fences.
// Taken in corpus order.
func styleAnchors(msgs []string) []string {
	anchors := []string{}
	for _, m := range msgs {
		wc := len(strings.Fields(m))
		if wc < 3 || wc > 15 {
			continue
		}
		if strings.Contains(m, "\n") || strings.HasPrefix(m, "http") || strings.Contains(m, "```") {
			continue
		}
		anchors = append(anchors, m)
		if len(anchors) == maxStyleAnchors {
			break
		}
	}
	return anchors
}

// reactionExamples picks up to 8 one-to-three-word messages, in corpus
// order, showing how the author reacts.
func reactionExamples(msgs []string) []string {
	reactions := []string{}
	for _, m := range msgs {
		wc := len(strings.Fields(m))
		if wc < 1 || wc > 3 || strings.HasPrefix(m, "http") {
			continue
		}
		reactions = append(reactions, m)
		if len(reactions) == maxReactions {
			break
		}
	}
	return reactions
}
