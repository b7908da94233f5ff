package memory_test

import (
	"strings"
	"testing"

	"github.com/rllyu/twinbot/internal/memory"
)

func corpus(texts ...string) []memory.CorpusEntry {
	entries := make([]memory.CorpusEntry, len(texts))
	for i, t := range texts {
		entries[i] = memory.CorpusEntry{ID: string(rune('a' + i)), Text: t}
	}
	return entries
}

func TestSearchRanksByRelevance(t *testing.T) {
	t.Parallel()

	c := corpus(
		"went climbing at the gym yesterday",
		"pizza night was great",
		"climbing climbing climbing all weekend",
		"meeting ran long again",
	)

	results := memory.Search(c, "how was climbing", 2)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// The repeated-term document has the highest tf for "climbing".
	if !strings.Contains(results[0], "climbing climbing") {
		t.Errorf("results[0] = %q, want the climbing-heavy document first", results[0])
	}
	for _, r := range results {
		if strings.Contains(r, "pizza") || strings.Contains(r, "meeting") {
			t.Errorf("irrelevant document retrieved: %q", r)
		}
	}
}

func TestSearchTopKBound(t *testing.T) {
	t.Parallel()

	c := corpus("alpha beta", "alpha gamma", "alpha delta")
	results := memory.Search(c, "alpha", 2)
	if len(results) > 2 {
		t.Fatalf("got %d results, want at most 2", len(results))
	}
}

func TestSearchEmptyCorpus(t *testing.T) {
	t.Parallel()

	if results := memory.Search(nil, "anything", 5); len(results) != 0 {
		t.Fatalf("empty corpus returned %d results", len(results))
	}
}

func TestSearchStopwordOnlyQuery(t *testing.T) {
	t.Parallel()

	c := corpus("went climbing at the gym", "pizza night")
	if results := memory.Search(c, "the and of", 5); len(results) != 0 {
		t.Fatalf("stopword-only query returned %d results, want 0", len(results))
	}
}

func TestSearchNoMatchesDropped(t *testing.T) {
	t.Parallel()

	c := corpus("went climbing at the gym", "pizza night")
	if results := memory.Search(c, "quantum entanglement", 5); len(results) != 0 {
		t.Fatalf("zero-score documents should be dropped, got %d results", len(results))
	}
}

func TestSearchTruncatesLongExcerpts(t *testing.T) {
	t.Parallel()

	long := "climbing " + strings.Repeat("x", 300)
	c := corpus(long)

	results := memory.Search(c, "climbing", 1)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if got := len([]rune(results[0])); got != 201 {
		t.Errorf("excerpt rune length = %d, want 200 plus the ellipsis marker", got)
	}
	if !strings.HasSuffix(results[0], "…") {
		t.Error("truncated excerpt should end with an ellipsis")
	}
}

func TestIndexLazyRebuildAfterAdd(t *testing.T) {
	t.Parallel()

	var ix memory.Index
	ix.Add("1", "climbing at the gym")
	ix.Build()

	// Adding after a build invalidates it; Search must still see the
	// new document.
	ix.Add("2", "climbing outside is better")

	results := ix.Search("climbing", 10)
	if len(results) != 2 {
		t.Fatalf("got %d results after post-build Add, want 2", len(results))
	}
}
