package database

import (
	"database/sql"
	"time"
)

// Dataset groups the message rows of one import (a pasted or uploaded
// export) under the Telegram user who owns them.
type Dataset struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	OwnerID    int64  `db:"owner_id"`
	Name       string `db:"name"`
	SourceType string `db:"source_type"` // "paste" or "file"
}

// MessageRow is one ingested message. Hash is the deduplication key;
// the table's UNIQUE constraint on it makes ingestion exactly-once, and
// inserts of duplicates are silently skipped.
type MessageRow struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	DatasetID int64          `db:"dataset_id"`
	OwnerID   int64          `db:"owner_id"`
	Text      string         `db:"text"`
	Author    sql.NullString `db:"author"`
	Timestamp sql.NullTime   `db:"timestamp"`
	Hash      string         `db:"hash"`
}

// VoiceProfile stores one owner's current fingerprint as a single JSON
// document. At most one row per owner; rebuilds replace it wholesale.
type VoiceProfile struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	OwnerID     int64  `db:"owner_id"`
	Fingerprint string `db:"fingerprint"`
}

// ChatMessage is one persisted turn of an owner's conversation with
// their clone. Role is "user" or "clone".
type ChatMessage struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	ChatID  int64  `db:"chat_id"`
	Role    string `db:"role"`
	Content string `db:"content"`
}

// ChatSetting holds per-chat preferences, currently the response mode.
type ChatSetting struct {
	ChatID    int64     `db:"chat_id"`
	Mode      string    `db:"mode"`
	UpdatedAt time.Time `db:"updated_at"`
}
