package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rllyu/twinbot/internal/gemini"
	"github.com/rllyu/twinbot/internal/voice"
)

// cloneContext identifies whose clone a chat is talking to and how its
// conversation history is kept.
type cloneContext struct {
	ownerID int64

	// persisted is true when the caller is talking to their own clone
	// and history lives in the database. Demo conversations keep their
	// history in the in-memory session cache instead.
	persisted bool

	fp voice.Fingerprint
}

// resolveClone decides which clone answers for a user: their own when
// they have enough corpus, otherwise the configured demo clone. A
// non-empty reason means no clone is available and explains why to the
// user.
func (deps HandlerDeps) resolveClone(ctx context.Context, userID int64) (*cloneContext, string, error) {
	count, err := deps.Store.CountMessages(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to count corpus messages: %w", err)
	}

	ownerID := userID
	persisted := true
	if count < deps.Config.Clone.MinMessages {
		if deps.Config.Clone.DemoOwnerID == 0 {
			return nil, "You don't have a clone yet. Import your texts with /import, then run /rebuild.", nil
		}
		ownerID = deps.Config.Clone.DemoOwnerID
		persisted = false
	}

	profile, err := deps.Store.GetVoiceProfile(ctx, ownerID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load voice profile: %w", err)
	}
	if profile == nil {
		if persisted {
			return nil, "Your corpus is imported but there's no profile yet. Run /rebuild first.", nil
		}
		return nil, "The demo clone isn't set up yet. Import your own texts with /import to build yours.", nil
	}

	cc := &cloneContext{ownerID: ownerID, persisted: persisted}
	if err := json.Unmarshal([]byte(profile.Fingerprint), &cc.fp); err != nil {
		return nil, "", fmt.Errorf("failed to parse stored fingerprint for owner %d: %w", ownerID, err)
	}
	return cc, "", nil
}

// loadHistory returns the chat's rolling history as generative turns,
// bounded to the configured window.
func (deps HandlerDeps) loadHistory(ctx context.Context, chatID int64, cc *cloneContext) ([]gemini.Turn, error) {
	limit := deps.Config.Clone.HistoryTurns

	if cc.persisted {
		msgs, err := deps.Store.GetRecentChatMessages(ctx, chatID, limit)
		if err != nil {
			return nil, err
		}
		turns := make([]gemini.Turn, 0, len(msgs))
		for _, m := range msgs {
			turns = append(turns, gemini.Turn{Role: m.Role, Content: m.Content})
		}
		return turns, nil
	}

	cached := deps.Sessions.History(chatID)
	if len(cached) > limit {
		cached = cached[len(cached)-limit:]
	}
	turns := make([]gemini.Turn, 0, len(cached))
	for _, t := range cached {
		turns = append(turns, gemini.Turn{Role: t.Role, Content: t.Content})
	}
	return turns, nil
}

// saveTurn persists a user/clone exchange to wherever this chat keeps
// its history.
func (deps HandlerDeps) saveTurn(ctx context.Context, chatID int64, cc *cloneContext, userContent, cloneContent string) error {
	if cc == nil || !cc.persisted {
		deps.Sessions.Append(chatID, "user", userContent)
		deps.Sessions.Append(chatID, gemini.RoleClone, cloneContent)
		return nil
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return deps.Store.SaveChatTurn(dbCtx, chatID, userContent, cloneContent)
}
