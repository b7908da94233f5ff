package ingest_test

import (
	"testing"

	"github.com/rllyu/twinbot/internal/ingest"
)

func TestParseJSONLines(t *testing.T) {
	t.Parallel()

	raw := `{"text":"hey there","author":"alice","timestamp":"2024-01-02T15:04:05Z"}
{"text":"yo","author":"alice"}
not json at all
{"message":"field synonym works","sender":"bob"}`

	records := ingest.Parse(raw)
	if len(records) != 3 {
		t.Fatalf("Parse returned %d records, want 3", len(records))
	}

	if records[0].Text != "hey there" || records[0].Author != "alice" {
		t.Errorf("record[0] = %q by %q, want %q by %q", records[0].Text, records[0].Author, "hey there", "alice")
	}
	if records[0].Timestamp == nil {
		t.Error("record[0] timestamp not parsed")
	}
	if records[1].Timestamp != nil {
		t.Errorf("record[1] timestamp = %v, want nil", records[1].Timestamp)
	}
	if records[2].Text != "field synonym works" || records[2].Author != "bob" {
		t.Errorf("record[2] = %q by %q, want synonym fields resolved", records[2].Text, records[2].Author)
	}
}

func TestParseJSONArray(t *testing.T) {
	t.Parallel()

	raw := `[{"text":"first","author":"a"},{"text":"second","author":"b"},{"author":"c"}]`

	records := ingest.Parse(raw)
	if len(records) != 2 {
		t.Fatalf("Parse returned %d records, want 2 (entry without text dropped)", len(records))
	}
	if records[0].Text != "first" || records[1].Text != "second" {
		t.Errorf("records = %q, %q, want first, second", records[0].Text, records[1].Text)
	}
}

func TestParseCSV(t *testing.T) {
	t.Parallel()

	raw := `text,author
hello there,alice
"quoted, with comma",bob
yo,alice`

	records := ingest.Parse(raw)
	if len(records) != 3 {
		t.Fatalf("Parse returned %d records, want 3", len(records))
	}
	if records[0].Text != "hello there" || records[0].Author != "alice" {
		t.Errorf("record[0] = %q by %q, want hello there by alice", records[0].Text, records[0].Author)
	}
	if records[1].Text != "quoted, with comma" {
		t.Errorf("record[1].Text = %q, quoted cell not preserved", records[1].Text)
	}
}

func TestParsePlainTextWithBracketTimestamps(t *testing.T) {
	t.Parallel()

	raw := `[1/2/24, 3:04 PM] Alice: morning
[1/2/24, 3:05 PM] Alice: you up?`

	records := ingest.Parse(raw)
	if len(records) != 2 {
		t.Fatalf("Parse returned %d records, want 2", len(records))
	}
	for i, rec := range records {
		if rec.Author != "Alice" {
			t.Errorf("record[%d].Author = %q, want Alice", i, rec.Author)
		}
		if rec.Timestamp == nil {
			t.Errorf("record[%d] timestamp not parsed", i)
		}
	}
	if records[0].Text != "morning" || records[1].Text != "you up?" {
		t.Errorf("texts = %q, %q", records[0].Text, records[1].Text)
	}
}

func TestParsePlainTextNamePrefix(t *testing.T) {
	t.Parallel()

	raw := `Alice: did you see it
Bob: see what`

	records := ingest.Parse(raw)
	if len(records) != 2 {
		t.Fatalf("Parse returned %d records, want 2", len(records))
	}
	if records[0].Author != "Alice" || records[1].Author != "Bob" {
		t.Errorf("authors = %q, %q, want Alice, Bob", records[0].Author, records[1].Author)
	}
}

func TestParseFallbackPlainText(t *testing.T) {
	t.Parallel()

	raw := "just a thought\nanother one\nok"

	records := ingest.Parse(raw)
	if len(records) != 2 {
		t.Fatalf("Parse returned %d records, want 2 (two-char line dropped)", len(records))
	}
	for i, rec := range records {
		if rec.Author != "" {
			t.Errorf("record[%d].Author = %q, want authorless", i, rec.Author)
		}
	}
}

func TestParseEmptyInput(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "\n\n"} {
		if records := ingest.Parse(raw); len(records) != 0 {
			t.Errorf("Parse(%q) returned %d records, want 0", raw, len(records))
		}
	}
}
