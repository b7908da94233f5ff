package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration in precedence order: defaults, the
// YAML file at path (optional), then BOT_* environment variables.
// The result is validated before being returned.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env and defaults still apply.
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			if !strings.Contains(err.Error(), "no such file") {
				return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", false)

	v.SetDefault("database.path", "./twinbot.db")

	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.analysis_model", "gemini-2.0-flash")
	v.SetDefault("gemini.temperature", 0.85)
	v.SetDefault("gemini.max_output_tokens", 400)
	v.SetDefault("gemini.max_retries", 2)
	v.SetDefault("gemini.retry_delay_seconds", 5)

	v.SetDefault("clone.min_messages", 5)
	v.SetDefault("clone.max_import_bytes", 2_000_000)
	v.SetDefault("clone.max_corpus_messages", 2000)
	v.SetDefault("clone.analysis_sample_size", 120)
	v.SetDefault("clone.memory_top_k", 5)
	v.SetDefault("clone.history_turns", 18)
	v.SetDefault("clone.session_ttl", 30*time.Minute)
	v.SetDefault("clone.default_mode", "raw")
	v.SetDefault("clone.demo_owner_id", 0)

	v.SetDefault("scheduler.tasks", map[string]TaskConfig{
		"fingerprint_refresh": {Enabled: true, Schedule: "0 */6 * * *"},
		"session_prune":       {Enabled: true, Schedule: "*/10 * * * *"},
		"sql_maintenance":     {Enabled: true, Schedule: "0 4 * * 0"},
	})
}
