package ingest_test

import (
	"testing"

	"github.com/rllyu/twinbot/internal/ingest"
)

func rec(text, author string) ingest.Record {
	return ingest.Record{Text: text, Author: author}
}

func TestFilterPrimaryAuthorKeepsDominantAndAuthorless(t *testing.T) {
	t.Parallel()

	records := []ingest.Record{
		rec("one", "alice"),
		rec("noise", "bob"),
		rec("two", "Alice"), // case-insensitive match
		rec("stray line", ""),
		rec("three", "alice"),
	}

	filtered := ingest.FilterPrimaryAuthor(records)
	if len(filtered) != 4 {
		t.Fatalf("filtered %d records, want 4", len(filtered))
	}
	for _, r := range filtered {
		if r.Author != "" && r.Author != "alice" && r.Author != "Alice" {
			t.Errorf("record by %q survived the filter", r.Author)
		}
	}
}

func TestFilterPrimaryAuthorBelowThresholdUnchanged(t *testing.T) {
	t.Parallel()

	// Four authors at 25% each: nobody reaches the 30% dominance bar.
	records := []ingest.Record{
		rec("a", "alice"),
		rec("b", "bob"),
		rec("c", "carol"),
		rec("d", "dave"),
	}

	filtered := ingest.FilterPrimaryAuthor(records)
	if len(filtered) != len(records) {
		t.Fatalf("filtered %d records, want all %d unchanged", len(filtered), len(records))
	}
}

func TestFilterPrimaryAuthorNoAuthorsUnchanged(t *testing.T) {
	t.Parallel()

	records := []ingest.Record{rec("a", ""), rec("b", "")}
	filtered := ingest.FilterPrimaryAuthor(records)
	if len(filtered) != 2 {
		t.Fatalf("filtered %d records, want 2", len(filtered))
	}
}

func TestFilterPrimaryAuthorTieBreakFirstToReachMax(t *testing.T) {
	t.Parallel()

	records := []ingest.Record{
		rec("a1", "alice"),
		rec("b1", "bob"),
		rec("b2", "bob"),
		rec("a2", "alice"),
	}

	// Bob reaches count 2 first; alice only ties afterwards.
	filtered := ingest.FilterPrimaryAuthor(records)
	for _, r := range filtered {
		if r.Author == "alice" {
			t.Fatalf("tie broke toward alice; want bob (first to reach the max count)")
		}
	}
	if len(filtered) != 2 {
		t.Fatalf("filtered %d records, want 2", len(filtered))
	}
}

func TestFilterPrimaryAuthorIdempotent(t *testing.T) {
	t.Parallel()

	records := []ingest.Record{
		rec("one", "alice"),
		rec("noise", "bob"),
		rec("two", "alice"),
	}

	once := ingest.FilterPrimaryAuthor(records)
	twice := ingest.FilterPrimaryAuthor(once)
	if len(once) != len(twice) {
		t.Fatalf("second filter pass changed the result: %d -> %d", len(once), len(twice))
	}
}
