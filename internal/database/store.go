package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the data access interface. Methods accept a context
// for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// CreateDataset inserts a dataset and fills in its generated ID.
	CreateDataset(ctx context.Context, dataset *Dataset) error

	// InsertMessageRow inserts a message row, skipping silently when a
	// row with the same hash already exists. Reports whether the row
	// was actually inserted.
	InsertMessageRow(ctx context.Context, row *MessageRow) (bool, error)

	// CountMessages returns the number of stored messages for an owner.
	CountMessages(ctx context.Context, ownerID int64) (int, error)

	// CountMessagesSince returns how many of an owner's messages were
	// ingested after t. Used to decide whether a fingerprint is stale.
	CountMessagesSince(ctx context.Context, ownerID int64, t time.Time) (int, error)

	// GetMessageTexts returns up to limit message texts for an owner,
	// oldest first.
	GetMessageTexts(ctx context.Context, ownerID int64, limit int) ([]string, error)

	// GetCorpus returns up to limit (id, text) rows for an owner, for
	// retrieval-index builds.
	GetCorpus(ctx context.Context, ownerID int64, limit int) ([]MessageRow, error)

	// SaveVoiceProfile upserts the owner's fingerprint document,
	// replacing any previous one wholesale.
	SaveVoiceProfile(ctx context.Context, ownerID int64, fingerprintJSON string) error

	// GetVoiceProfile returns the owner's profile, or nil when absent.
	GetVoiceProfile(ctx context.Context, ownerID int64) (*VoiceProfile, error)

	// SaveChatTurn persists a user/clone message pair for a chat.
	SaveChatTurn(ctx context.Context, chatID int64, userContent, cloneContent string) error

	// SaveChatMessage persists a single chat message.
	SaveChatMessage(ctx context.Context, msg *ChatMessage) error

	// GetRecentChatMessages returns up to limit turns for a chat,
	// oldest first.
	GetRecentChatMessages(ctx context.Context, chatID int64, limit int) ([]ChatMessage, error)

	// CountChatMessages returns the number of persisted turns in a chat.
	CountChatMessages(ctx context.Context, chatID int64) (int, error)

	// GetChatMode returns the chat's response mode, or fallback when unset.
	GetChatMode(ctx context.Context, chatID int64, fallback string) (string, error)

	// SetChatMode upserts the chat's response mode.
	SetChatMode(ctx context.Context, chatID int64, mode string) error

	// ListOwnersWithMessages returns the distinct owner IDs that have
	// at least one stored message.
	ListOwnersWithMessages(ctx context.Context) ([]int64, error)

	// DeleteOwnerData removes an owner's datasets, messages, and voice
	// profile in one transaction.
	DeleteOwnerData(ctx context.Context, ownerID int64) error

	// DeleteChatHistory removes a chat's persisted turns.
	DeleteChatHistory(ctx context.Context, chatID int64) error

	// RunSQLMaintenance performs database maintenance (VACUUM).
	RunSQLMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) CreateDataset(ctx context.Context, dataset *Dataset) error {
	if dataset == nil {
		return fmt.Errorf("cannot create nil dataset")
	}
	if dataset.OwnerID == 0 {
		return fmt.Errorf("dataset must have a non-zero owner_id")
	}
	dataset.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO datasets (owner_id, name, source_type, created_at)
        VALUES (:owner_id, :name, :source_type, :created_at);
    `
	result, err := s.db.NamedExecContext(ctx, query, dataset)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error creating dataset", "owner_id", dataset.OwnerID, "error", err)
		return fmt.Errorf("failed to create dataset for owner %d: %w", dataset.OwnerID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		dataset.ID = id
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve dataset insert ID", "owner_id", dataset.OwnerID, "error", err)
	}
	return nil
}

func (s *sqlxStore) InsertMessageRow(ctx context.Context, row *MessageRow) (bool, error) {
	if row == nil {
		return false, fmt.Errorf("cannot insert nil message row")
	}
	if row.Text == "" {
		return false, fmt.Errorf("message row must have non-empty text")
	}
	if row.Hash == "" {
		return false, fmt.Errorf("message row must have a hash")
	}
	row.CreatedAt = time.Now().UTC()

	// INSERT OR IGNORE leans on the UNIQUE(hash) constraint: duplicate
	// messages are skipped, not errors.
	query := `
        INSERT OR IGNORE INTO messages (dataset_id, owner_id, text, author, timestamp, hash, created_at)
        VALUES (:dataset_id, :owner_id, :text, :author, :timestamp, :hash, :created_at);
    `
	result, err := s.db.NamedExecContext(ctx, query, row)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error inserting message row", "owner_id", row.OwnerID, "error", err)
		return false, fmt.Errorf("failed to insert message row for owner %d: %w", row.OwnerID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not read rows affected for message insert", "error", err)
		return true, nil
	}
	return affected == 1, nil
}

func (s *sqlxStore) CountMessages(ctx context.Context, ownerID int64) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM messages WHERE owner_id = ?`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages for owner %d: %w", ownerID, err)
	}
	return count, nil
}

func (s *sqlxStore) CountMessagesSince(ctx context.Context, ownerID int64, t time.Time) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM messages WHERE owner_id = ? AND created_at > ?`, ownerID, t)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages since %s for owner %d: %w", t, ownerID, err)
	}
	return count, nil
}

func (s *sqlxStore) GetMessageTexts(ctx context.Context, ownerID int64, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 2000
	}
	var texts []string
	err := s.db.SelectContext(ctx, &texts,
		`SELECT text FROM messages WHERE owner_id = ? ORDER BY id ASC LIMIT ?`, ownerID, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting message texts", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to get message texts for owner %d: %w", ownerID, err)
	}
	return texts, nil
}

func (s *sqlxStore) GetCorpus(ctx context.Context, ownerID int64, limit int) ([]MessageRow, error) {
	if limit <= 0 {
		limit = 2000
	}
	var rows []MessageRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, text FROM messages WHERE owner_id = ? ORDER BY id ASC LIMIT ?`, ownerID, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting corpus", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to get corpus for owner %d: %w", ownerID, err)
	}
	return rows, nil
}

func (s *sqlxStore) SaveVoiceProfile(ctx context.Context, ownerID int64, fingerprintJSON string) error {
	if ownerID == 0 {
		return fmt.Errorf("owner_id cannot be zero")
	}
	if fingerprintJSON == "" {
		return fmt.Errorf("fingerprint document cannot be empty")
	}

	now := time.Now().UTC()
	query := `
        INSERT INTO voice_profiles (owner_id, fingerprint, created_at, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(owner_id) DO UPDATE SET
            fingerprint = excluded.fingerprint,
            updated_at = excluded.updated_at;
    `
	if _, err := s.db.ExecContext(ctx, query, ownerID, fingerprintJSON, now, now); err != nil {
		s.logger.ErrorContext(ctx, "Error saving voice profile", "owner_id", ownerID, "error", err)
		return fmt.Errorf("failed to save voice profile for owner %d: %w", ownerID, err)
	}

	s.logger.DebugContext(ctx, "Voice profile saved", "owner_id", ownerID)
	return nil
}

func (s *sqlxStore) GetVoiceProfile(ctx context.Context, ownerID int64) (*VoiceProfile, error) {
	var profile VoiceProfile
	err := s.db.GetContext(ctx, &profile,
		`SELECT id, created_at, updated_at, owner_id, fingerprint FROM voice_profiles WHERE owner_id = ?`, ownerID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Absent profile is an expected state, not an error.
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting voice profile", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to get voice profile for owner %d: %w", ownerID, err)
	}
	return &profile, nil
}

func (s *sqlxStore) SaveChatTurn(ctx context.Context, chatID int64, userContent, cloneContent string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back chat turn transaction", "error", rollbackErr)
			}
		}
	}()

	now := time.Now().UTC()
	query := `INSERT INTO chat_messages (chat_id, role, content, created_at) VALUES (?, ?, ?, ?);`
	if _, err := tx.ExecContext(ctx, query, chatID, "user", userContent, now); err != nil {
		return fmt.Errorf("failed to save user turn for chat %d: %w", chatID, err)
	}
	if _, err := tx.ExecContext(ctx, query, chatID, "clone", cloneContent, now); err != nil {
		return fmt.Errorf("failed to save clone turn for chat %d: %w", chatID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chat turn: %w", err)
	}
	tx = nil
	return nil
}

func (s *sqlxStore) SaveChatMessage(ctx context.Context, msg *ChatMessage) error {
	if msg == nil {
		return fmt.Errorf("cannot save nil chat message")
	}
	if msg.Content == "" {
		return fmt.Errorf("chat message must have non-empty content")
	}
	msg.CreatedAt = time.Now().UTC()

	query := `INSERT INTO chat_messages (chat_id, role, content, created_at) VALUES (:chat_id, :role, :content, :created_at);`
	result, err := s.db.NamedExecContext(ctx, query, msg)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving chat message", "chat_id", msg.ChatID, "error", err)
		return fmt.Errorf("failed to save chat message for chat %d: %w", msg.ChatID, err)
	}
	if id, err := result.LastInsertId(); err == nil {
		msg.ID = id
	}
	return nil
}

func (s *sqlxStore) GetRecentChatMessages(ctx context.Context, chatID int64, limit int) ([]ChatMessage, error) {
	if limit <= 0 {
		limit = 20
	}
	var messages []ChatMessage
	query := `
        SELECT id, chat_id, role, content, created_at FROM chat_messages
        WHERE chat_id = ? ORDER BY id DESC LIMIT ?;
    `
	if err := s.db.SelectContext(ctx, &messages, query, chatID, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error getting chat history", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to get chat history for chat %d: %w", chatID, err)
	}

	// Fetched newest-first for the LIMIT; callers want oldest-first.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (s *sqlxStore) CountChatMessages(ctx context.Context, chatID int64) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM chat_messages WHERE chat_id = ?`, chatID)
	if err != nil {
		return 0, fmt.Errorf("failed to count chat messages for chat %d: %w", chatID, err)
	}
	return count, nil
}

func (s *sqlxStore) GetChatMode(ctx context.Context, chatID int64, fallback string) (string, error) {
	var mode string
	err := s.db.GetContext(ctx, &mode, `SELECT mode FROM chat_settings WHERE chat_id = ?`, chatID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fallback, nil
	case err != nil:
		return fallback, fmt.Errorf("failed to get chat mode for chat %d: %w", chatID, err)
	}
	return mode, nil
}

func (s *sqlxStore) SetChatMode(ctx context.Context, chatID int64, mode string) error {
	query := `
        INSERT INTO chat_settings (chat_id, mode, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT(chat_id) DO UPDATE SET
            mode = excluded.mode,
            updated_at = excluded.updated_at;
    `
	if _, err := s.db.ExecContext(ctx, query, chatID, mode, time.Now().UTC()); err != nil {
		s.logger.ErrorContext(ctx, "Error setting chat mode", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to set chat mode for chat %d: %w", chatID, err)
	}
	return nil
}

func (s *sqlxStore) ListOwnersWithMessages(ctx context.Context) ([]int64, error) {
	var owners []int64
	if err := s.db.SelectContext(ctx, &owners, `SELECT DISTINCT owner_id FROM messages`); err != nil {
		return nil, fmt.Errorf("failed to list owners with messages: %w", err)
	}
	return owners, nil
}

func (s *sqlxStore) DeleteOwnerData(ctx context.Context, ownerID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back owner data deletion", "error", rollbackErr)
			}
		}
	}()

	for _, query := range []string{
		`DELETE FROM messages WHERE owner_id = ?`,
		`DELETE FROM datasets WHERE owner_id = ?`,
		`DELETE FROM voice_profiles WHERE owner_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, query, ownerID); err != nil {
			return fmt.Errorf("failed to delete owner data for owner %d: %w", ownerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit owner data deletion: %w", err)
	}
	tx = nil

	s.logger.InfoContext(ctx, "Owner data deleted", "owner_id", ownerID)
	return nil
}

func (s *sqlxStore) DeleteChatHistory(ctx context.Context, chatID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE chat_id = ?`, chatID); err != nil {
		return fmt.Errorf("failed to delete chat history for chat %d: %w", chatID, err)
	}
	return nil
}

func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed")
	return nil
}
