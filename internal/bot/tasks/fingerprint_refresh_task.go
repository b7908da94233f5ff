package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rllyu/twinbot/internal/voice"
)

// newFingerprintRefreshTask creates the scheduled task that recomputes
// the statistical side of stale voice profiles. Qualitative fields are
// carried over from the existing profile; regenerating them costs an
// LLM call and stays user-initiated via /rebuild.
func newFingerprintRefreshTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "fingerprint_refresh")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting scheduled fingerprint refresh task...")
		startTime := time.Now()

		owners, err := deps.Store.ListOwnersWithMessages(ctx)
		if err != nil {
			return fmt.Errorf("failed to list owners: %w", err)
		}

		refreshed := 0
		for _, ownerID := range owners {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			ok, err := refreshOwner(ctx, deps, ownerID)
			if err != nil {
				log.ErrorContext(ctx, "Failed to refresh fingerprint", "owner_id", ownerID, "error", err)
				continue
			}
			if ok {
				refreshed++
			}
		}

		log.InfoContext(ctx, "Fingerprint refresh task completed",
			"owners", len(owners), "refreshed", refreshed, "duration", time.Since(startTime))
		return nil
	}
}

// refreshOwner recomputes one owner's fingerprint when new messages
// arrived since the last build. Reports whether a refresh happened.
func refreshOwner(ctx context.Context, deps TaskDeps, ownerID int64) (bool, error) {
	profile, err := deps.Store.GetVoiceProfile(ctx, ownerID)
	if err != nil {
		return false, err
	}
	if profile == nil {
		// Never built; the first build is user-initiated.
		return false, nil
	}

	fresh, err := deps.Store.CountMessagesSince(ctx, ownerID, profile.UpdatedAt)
	if err != nil {
		return false, err
	}
	if fresh == 0 {
		return false, nil
	}

	var existing voice.Fingerprint
	if err := json.Unmarshal([]byte(profile.Fingerprint), &existing); err != nil {
		return false, fmt.Errorf("failed to parse stored fingerprint: %w", err)
	}

	texts, err := deps.Store.GetMessageTexts(ctx, ownerID, deps.Config.Clone.MaxCorpusMessages)
	if err != nil {
		return false, err
	}

	traits := &voice.Traits{
		Humor:        existing.HumorStyle,
		Bluntness:    existing.Bluntness,
		Topics:       existing.TopicAffinity,
		Slang:        existing.Slang,
		Catchphrases: existing.Catchphrases,
	}
	fp := voice.ComputeFingerprint(texts, traits)

	doc, err := json.Marshal(fp)
	if err != nil {
		return false, fmt.Errorf("failed to marshal fingerprint: %w", err)
	}
	if err := deps.Store.SaveVoiceProfile(ctx, ownerID, string(doc)); err != nil {
		return false, err
	}
	return true, nil
}
