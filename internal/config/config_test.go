package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/to/config.json")
	if err == nil {
		t.Fatal("expected error for non-existent file")
	}
	if !os.IsNotExist(err) {
		t.Errorf("expected os.IsNotExist error, got: %v", err)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	_, err := Load(writeConfig(t, "not valid json"))
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestLoad_ValidConfigWithDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"bot_token": "123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11",
		"admins": ["111", "@organizer"]
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.BotToken != "123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11" {
		t.Errorf("unexpected bot_token %q", cfg.BotToken)
	}
	if len(cfg.Admins) != 2 {
		t.Fatalf("expected 2 admins, got %d", len(cfg.Admins))
	}
	if cfg.PageSize != DefaultPageSize {
		t.Errorf("expected default page size %d, got %d", DefaultPageSize, cfg.PageSize)
	}
	if cfg.Store.Backend != BackendFile {
		t.Errorf("expected default backend %q, got %q", BackendFile, cfg.Store.Backend)
	}
	if cfg.Webhook.Path != DefaultWebhookPath {
		t.Errorf("expected default webhook path, got %q", cfg.Webhook.Path)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"BOT_TOKEN":               "env-token",
		"ADMIN_TELEGRAM_IDS":      " 1, 2 ,,3",
		"TELEGRAM_WEBHOOK_SECRET": "s3cret",
		"TELEGRAM_WEBHOOK_URL":    "https://bot.example.org/hook",
		"GOOGLE_SHEET_ID":         "sheet",
	}
	cfg := &Config{BotToken: "file-token", Admins: []string{"9"}}
	cfg.applyEnv(func(k string) string { return env[k] })

	if cfg.BotToken != "env-token" {
		t.Errorf("expected env token, got %q", cfg.BotToken)
	}
	if strings.Join(cfg.Admins, ",") != "1,2,3" {
		t.Errorf("expected admins 1,2,3, got %v", cfg.Admins)
	}
	if cfg.Webhook.SecretToken != "s3cret" {
		t.Errorf("expected secret from env, got %q", cfg.Webhook.SecretToken)
	}
	if cfg.Webhook.URL != "https://bot.example.org/hook" {
		t.Errorf("expected webhook url from env, got %q", cfg.Webhook.URL)
	}
	if cfg.Store.SpreadsheetID != "sheet" {
		t.Errorf("expected sheet id from env, got %q", cfg.Store.SpreadsheetID)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing token", func(c *Config) { c.BotToken = "" }, "BotToken is required"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "mysql" }, "Store.Backend must be one of"},
		{"sheets without id", func(c *Config) { c.Store.Backend = BackendSheets }, "Store.SpreadsheetID is required"},
		{"dynamodb without table", func(c *Config) { c.Store.Backend = BackendDynamoDB }, "Store.Table is required"},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "LogLevel must be one of"},
		{"bad webhook path", func(c *Config) { c.Webhook.Path = "hook" }, "Webhook.Path must start with"},
		{"bad webhook url", func(c *Config) { c.Webhook.URL = "not a url" }, "Webhook.URL must be a valid URL"},
		{"page size too large", func(c *Config) { c.PageSize = 500 }, "PageSize must be at most 50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{BotToken: "t"}
			cfg.applyDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
