// ABOUTME: Centralized configuration for the MindMate assistant
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Assumption policies accepted by MINDMATE_ASSUMPTION_POLICY
const (
	AssumptionDismiss = "dismiss"
	AssumptionPassive = "passive"
)

// Config holds all configuration for the assistant
type Config struct {
	// Storage
	DBPath string

	// Dispatch settings
	WakeWord         string
	AssumptionPolicy string
	CallTimeout      time.Duration
	PatternsFile     string

	// Surfaces
	HTTPAddr             string
	TelegramToken        string
	TelegramAllowedUsers []int64

	// OpenAI settings
	OpenAIKey          string
	OpenAIBaseURL      string
	ChatModel          string
	TranscriptionModel string
	Timeout            time.Duration
	MaxRetries         int
	RetryDelay         time.Duration
}

// DefaultDBPath is the SQLite file under the XDG data directory
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, "mindmate", "mindmate.db")
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	users, err := parseUserIDs(os.Getenv("TELEGRAM_ALLOWED_USERS"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:               getEnv("MINDMATE_DB_PATH", DefaultDBPath()),
		WakeWord:             strings.ToLower(strings.TrimSpace(getEnv("MINDMATE_WAKE_WORD", "mindmate"))),
		AssumptionPolicy:     strings.ToLower(getEnv("MINDMATE_ASSUMPTION_POLICY", AssumptionDismiss)),
		CallTimeout:          getEnvDuration("MINDMATE_CALL_TIMEOUT", 20*time.Second),
		PatternsFile:         os.Getenv("MINDMATE_PATTERNS_FILE"),
		HTTPAddr:             getEnv("MINDMATE_HTTP_ADDR", ":8000"),
		TelegramToken:        os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramAllowedUsers: users,
		OpenAIKey:            os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:        os.Getenv("OPENAI_BASE_URL"),
		ChatModel:            getEnv("MINDMATE_OPENAI_MODEL", "gpt-4o-mini"),
		TranscriptionModel:   getEnv("MINDMATE_TRANSCRIPTION_MODEL", "whisper-1"),
		Timeout:              getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:           getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:           getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.AssumptionPolicy {
	case AssumptionDismiss, AssumptionPassive:
	default:
		return fmt.Errorf("MINDMATE_ASSUMPTION_POLICY must be dismiss or passive, got %q", c.AssumptionPolicy)
	}
	if c.WakeWord == "" {
		return fmt.Errorf("MINDMATE_WAKE_WORD must not be empty")
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("MINDMATE_CALL_TIMEOUT must be positive, got %v", c.CallTimeout)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("OPENAI_TIMEOUT must be positive, got %v", c.Timeout)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	return nil
}

// HasLLM reports whether a model endpoint is configured
func (c *Config) HasLLM() bool {
	return c.OpenAIKey != "" || c.OpenAIBaseURL != ""
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

// parseUserIDs reads a comma separated list of Telegram user IDs
func parseUserIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_ALLOWED_USERS: invalid user id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
