// Package config provides configuration loading and validation for the
// bot: YAML file, BOT_* environment overrides, defaults, and struct
// validation.
package config

import (
	"time"

	"github.com/go-telegram/bot/models"
)

// Config defines the application configuration for all components.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Clone     CloneConfig     `mapstructure:"clone"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token and, at runtime, the bot's own
// identity as reported by the Telegram API.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`

	// BotInfo is populated at startup via GetMe, not from the file.
	BotInfo *models.User `mapstructure:"-"`
}

// GeminiConfig configures the generative client.
type GeminiConfig struct {
	APIKey            string  `mapstructure:"api_key"        validate:"required"`
	ModelName         string  `mapstructure:"model"          validate:"required"`
	AnalysisModelName string  `mapstructure:"analysis_model" validate:"required"`
	Temperature       float32 `mapstructure:"temperature"    validate:"min=0,max=2"`
	MaxOutputTokens   int32   `mapstructure:"max_output_tokens" validate:"min=1"`
	MaxRetries        int     `mapstructure:"max_retries"    validate:"min=0,max=5"`
	RetryDelaySeconds int     `mapstructure:"retry_delay_seconds" validate:"min=1,max=60"`
}

// DatabaseConfig holds the SQLite path.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// CloneConfig bounds the voice-clone pipeline.
type CloneConfig struct {
	// MinMessages is the smallest corpus a profile may be built from.
	MinMessages int `mapstructure:"min_messages" validate:"min=1"`

	// MaxImportBytes caps a single paste or upload.
	MaxImportBytes int `mapstructure:"max_import_bytes" validate:"min=1"`

	// MaxCorpusMessages bounds the snapshot used for fingerprinting
	// and retrieval on each turn.
	MaxCorpusMessages int `mapstructure:"max_corpus_messages" validate:"min=1"`

	// AnalysisSampleSize is how many messages the qualitative LLM
	// analysis pass samples.
	AnalysisSampleSize int `mapstructure:"analysis_sample_size" validate:"min=1"`

	// MemoryTopK is the number of retrieved memory excerpts per turn.
	MemoryTopK int `mapstructure:"memory_top_k" validate:"min=1,max=20"`

	// HistoryTurns is the rolling history window on generative calls.
	HistoryTurns int `mapstructure:"history_turns" validate:"min=1,max=100"`

	// SessionTTL is how long idle unauthenticated conversations are
	// kept in memory.
	SessionTTL time.Duration `mapstructure:"session_ttl" validate:"min=1m"`

	// DefaultMode is the response mode for chats that never set one.
	DefaultMode string `mapstructure:"default_mode" validate:"oneof=raw soft cold"`

	// DemoOwnerID, when set, lets users without their own corpus chat
	// with this owner's clone (the public-demo behavior).
	DemoOwnerID int64 `mapstructure:"demo_owner_id"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a named scheduled task with a cron expression.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}
