// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing and validation
package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment to test defaults
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if !strings.HasSuffix(cfg.DBPath, "mindmate/mindmate.db") {
		t.Errorf("DBPath = %s, want XDG data path ending in mindmate/mindmate.db", cfg.DBPath)
	}
	if cfg.WakeWord != "mindmate" {
		t.Errorf("WakeWord = %s, want mindmate", cfg.WakeWord)
	}
	if cfg.AssumptionPolicy != AssumptionDismiss {
		t.Errorf("AssumptionPolicy = %s, want dismiss", cfg.AssumptionPolicy)
	}
	if cfg.CallTimeout != 20*time.Second {
		t.Errorf("CallTimeout = %v, want 20s", cfg.CallTimeout)
	}
	if cfg.HTTPAddr != ":8000" {
		t.Errorf("HTTPAddr = %s, want :8000", cfg.HTTPAddr)
	}
	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel = %s, want gpt-4o-mini", cfg.ChatModel)
	}
	if cfg.TranscriptionModel != "whisper-1" {
		t.Errorf("TranscriptionModel = %s, want whisper-1", cfg.TranscriptionModel)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v, want 2s", cfg.RetryDelay)
	}
	if cfg.HasLLM() {
		t.Error("HasLLM() = true with no key or base URL")
	}
	if len(cfg.TelegramAllowedUsers) != 0 {
		t.Errorf("TelegramAllowedUsers = %v, want empty", cfg.TelegramAllowedUsers)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	t.Setenv("MINDMATE_DB_PATH", "/tmp/test.db")
	t.Setenv("MINDMATE_WAKE_WORD", "  Jarvis ")
	t.Setenv("MINDMATE_ASSUMPTION_POLICY", "Passive")
	t.Setenv("MINDMATE_CALL_TIMEOUT", "5s")
	t.Setenv("MINDMATE_PATTERNS_FILE", "/etc/mindmate/patterns.yaml")
	t.Setenv("MINDMATE_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:11434/v1")
	t.Setenv("MINDMATE_OPENAI_MODEL", "llama3.2")
	t.Setenv("OPENAI_MAX_RETRIES", "5")
	t.Setenv("OPENAI_RETRY_DELAY", "500ms")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_ALLOWED_USERS", "42, 7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %s, want /tmp/test.db", cfg.DBPath)
	}
	if cfg.WakeWord != "jarvis" {
		t.Errorf("WakeWord = %q, want jarvis", cfg.WakeWord)
	}
	if cfg.AssumptionPolicy != AssumptionPassive {
		t.Errorf("AssumptionPolicy = %s, want passive", cfg.AssumptionPolicy)
	}
	if cfg.CallTimeout != 5*time.Second {
		t.Errorf("CallTimeout = %v, want 5s", cfg.CallTimeout)
	}
	if cfg.PatternsFile != "/etc/mindmate/patterns.yaml" {
		t.Errorf("PatternsFile = %s", cfg.PatternsFile)
	}
	if cfg.HTTPAddr != "127.0.0.1:9000" {
		t.Errorf("HTTPAddr = %s", cfg.HTTPAddr)
	}
	if !cfg.HasLLM() {
		t.Error("HasLLM() = false with a base URL")
	}
	if cfg.ChatModel != "llama3.2" {
		t.Errorf("ChatModel = %s, want llama3.2", cfg.ChatModel)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 500*time.Millisecond {
		t.Errorf("RetryDelay = %v, want 500ms", cfg.RetryDelay)
	}
	if len(cfg.TelegramAllowedUsers) != 2 || cfg.TelegramAllowedUsers[0] != 42 || cfg.TelegramAllowedUsers[1] != 7 {
		t.Errorf("TelegramAllowedUsers = %v, want [42 7]", cfg.TelegramAllowedUsers)
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	os.Clearenv()
	t.Setenv("OPENAI_MAX_RETRIES", "lots")
	t.Setenv("MINDMATE_CALL_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want default 3", cfg.MaxRetries)
	}
	if cfg.CallTimeout != 20*time.Second {
		t.Errorf("CallTimeout = %v, want default 20s", cfg.CallTimeout)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown policy", "MINDMATE_ASSUMPTION_POLICY", "ignore"},
		{"too many retries", "OPENAI_MAX_RETRIES", "11"},
		{"negative retries", "OPENAI_MAX_RETRIES", "-1"},
		{"zero call timeout", "MINDMATE_CALL_TIMEOUT", "0s"},
		{"bad telegram user", "TELEGRAM_ALLOWED_USERS", "42,bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s should fail", tt.key, tt.val)
			}
		})
	}
}
