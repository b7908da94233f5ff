package session_test

import (
	"testing"
	"time"

	"github.com/rllyu/twinbot/internal/session"
)

// fakeClock is an adjustable time source for TTL tests.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(ttl time.Duration) (*session.Cache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	return session.NewCache(ttl, clock.now), clock
}

func TestAppendAndHistory(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache(30 * time.Minute)
	cache.Append(1, "user", "hey")
	cache.Append(1, "clone", "yo")

	history := cache.History(1)
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Role != "user" || history[0].Content != "hey" {
		t.Errorf("history[0] = %+v", history[0])
	}
	if history[1].Role != "clone" || history[1].Content != "yo" {
		t.Errorf("history[1] = %+v", history[1])
	}

	if got := cache.History(999); got != nil {
		t.Errorf("unknown chat history = %v, want nil", got)
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache(30 * time.Minute)
	cache.Append(1, "user", "hey")

	history := cache.History(1)
	history[0].Content = "mutated"

	if cache.History(1)[0].Content != "hey" {
		t.Error("History should return a copy, not the backing slice")
	}
}

func TestTurnCapDropsOldestPair(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache(30 * time.Minute)
	for i := 0; i < 25; i++ {
		cache.Append(1, "user", "q")
		cache.Append(1, "clone", "a")
	}

	history := cache.History(1)
	if len(history) != 40 {
		t.Fatalf("history length = %d, want capped at 40", len(history))
	}
	// After dropping pairs, the window still starts on a user turn.
	if history[0].Role != "user" {
		t.Errorf("history[0].Role = %q, want user", history[0].Role)
	}
}

func TestPruneExpired(t *testing.T) {
	t.Parallel()

	cache, clock := newTestCache(30 * time.Minute)
	cache.Append(1, "user", "old")
	clock.advance(10 * time.Minute)
	cache.Append(2, "user", "newer")

	clock.advance(25 * time.Minute)
	pruned := cache.PruneExpired()
	if pruned != 1 {
		t.Fatalf("pruned %d entries, want 1", pruned)
	}
	if cache.History(1) != nil {
		t.Error("expired conversation still present")
	}
	if cache.History(2) == nil {
		t.Error("live conversation was pruned")
	}
	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}
}

func TestHistoryRefreshesTTL(t *testing.T) {
	t.Parallel()

	cache, clock := newTestCache(30 * time.Minute)
	cache.Append(1, "user", "hey")

	clock.advance(20 * time.Minute)
	_ = cache.History(1) // touch

	clock.advance(20 * time.Minute)
	if pruned := cache.PruneExpired(); pruned != 0 {
		t.Fatalf("pruned %d entries, want 0 (History should refresh the TTL)", pruned)
	}
}

func TestForget(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache(30 * time.Minute)
	cache.Append(1, "user", "hey")
	cache.Forget(1)

	if cache.History(1) != nil {
		t.Error("Forget should drop the conversation")
	}
	if cache.Len() != 0 {
		t.Errorf("Len = %d, want 0", cache.Len())
	}
}
