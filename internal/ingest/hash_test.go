package ingest_test

import (
	"testing"
	"time"

	"github.com/rllyu/twinbot/internal/ingest"
)

func TestHashDeterministic(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	h1 := ingest.Hash("hey", "alice", &ts)
	h2 := ingest.Hash("hey", "alice", &ts)
	if h1 != h2 {
		t.Fatalf("same input hashed differently: %s vs %s", h1, h2)
	}
	if len(h1) != 32 {
		t.Fatalf("hash length = %d, want 32", len(h1))
	}
}

func TestHashMinuteBucket(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	sameMinute := base.Add(10 * time.Second)
	nextMinute := base.Add(90 * time.Second)

	if ingest.Hash("hey", "alice", &base) != ingest.Hash("hey", "alice", &sameMinute) {
		t.Error("timestamps within the same minute bucket should collide")
	}
	if ingest.Hash("hey", "alice", &base) == ingest.Hash("hey", "alice", &nextMinute) {
		t.Error("timestamps in different minute buckets should not collide")
	}
}

func TestHashDistinguishesInputs(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

	if ingest.Hash("hey", "alice", &ts) == ingest.Hash("yo", "alice", &ts) {
		t.Error("different texts should produce different hashes")
	}
	if ingest.Hash("hey", "alice", &ts) == ingest.Hash("hey", "bob", &ts) {
		t.Error("different authors should produce different hashes")
	}
	if ingest.Hash("  hey  ", "alice", &ts) != ingest.Hash("hey", "alice", &ts) {
		t.Error("surrounding whitespace should not change the hash")
	}
}

func TestHashNilTimestamp(t *testing.T) {
	t.Parallel()

	h1 := ingest.Hash("hey", "alice", nil)
	h2 := ingest.Hash("hey", "alice", nil)
	if h1 != h2 {
		t.Fatal("nil-timestamp hashes should be stable")
	}
	if len(h1) != 32 {
		t.Fatalf("hash length = %d, want 32", len(h1))
	}
}
