package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Store backends.
const (
	BackendFile     = "file"
	BackendBadger   = "badger"
	BackendSheets   = "sheets"
	BackendDynamoDB = "dynamodb"
)

const (
	DefaultPageSize             = 8
	DefaultMaxConcurrentUpdates = 16
	DefaultMaxLogSize           = 1024 * 1024
	DefaultRotationSchedule     = "@every 1m"
	DefaultWebhookPath          = "/telegram/webhook"
	DefaultListenAddr           = ":8080"
)

type Config struct {
	BotToken             string        `json:"bot_token" validate:"required"`
	Admins               []string      `json:"admins" validate:"dive,required"`
	LogLevel             string        `json:"log_level" validate:"omitempty,oneof=debug info warn error"`
	MaxLogSize           int64         `json:"max_log_size" validate:"gte=0"`
	LogRotationSchedule  string        `json:"log_rotation_schedule"`
	CatalogPath          string        `json:"catalog_path"`
	PageSize             int           `json:"page_size" validate:"gte=1,lte=50"`
	MaxConcurrentUpdates int64         `json:"max_concurrent_updates" validate:"gte=1"`
	ProxyURL             string        `json:"proxy_url" validate:"omitempty,url"`
	Store                StoreConfig   `json:"store"`
	Webhook              WebhookConfig `json:"webhook"`
	Tracing              TracingConfig `json:"tracing"`
}

// StoreConfig selects and configures the media store backend.
type StoreConfig struct {
	Backend         string `json:"backend" validate:"oneof=file badger sheets dynamodb"`
	Path            string `json:"path"`
	SpreadsheetID   string `json:"spreadsheet_id" validate:"required_if=Backend sheets"`
	Sheet           string `json:"sheet"`
	CredentialsFile string `json:"credentials_file"`
	Table           string `json:"table" validate:"required_if=Backend dynamodb"`
	Region          string `json:"region"`
	Endpoint        string `json:"endpoint" validate:"omitempty,url"`
	CircuitBreaker  bool   `json:"circuit_breaker"`
}

type WebhookConfig struct {
	URL         string `json:"url" validate:"omitempty,url"`
	ListenAddr  string `json:"listen_addr"`
	Path        string `json:"path" validate:"omitempty,startswith=/"`
	SecretToken string `json:"secret_token"`
}

type TracingConfig struct {
	OTLPEndpoint string `json:"otlp_endpoint"`
	Environment  string `json:"environment"`
}

// Load reads the JSON config, fills defaults and applies environment
// overrides. It does not validate; call Validate once the caller is ready
// to reject the config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv(os.Getenv)
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	if c.MaxConcurrentUpdates == 0 {
		c.MaxConcurrentUpdates = DefaultMaxConcurrentUpdates
	}
	if c.MaxLogSize == 0 {
		c.MaxLogSize = DefaultMaxLogSize
	}
	if c.LogRotationSchedule == "" {
		c.LogRotationSchedule = DefaultRotationSchedule
	}
	if c.Store.Backend == "" {
		c.Store.Backend = BackendFile
	}
	if c.Webhook.Path == "" {
		c.Webhook.Path = DefaultWebhookPath
	}
	if c.Webhook.ListenAddr == "" {
		c.Webhook.ListenAddr = DefaultListenAddr
	}
}

// applyEnv overrides file values with environment variables, so secrets can
// stay out of the config file.
func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.BotToken, "BOT_TOKEN")
	set(&c.LogLevel, "LOG_LEVEL")
	set(&c.Webhook.URL, "TELEGRAM_WEBHOOK_URL")
	set(&c.Webhook.SecretToken, "TELEGRAM_WEBHOOK_SECRET")
	set(&c.Store.SpreadsheetID, "GOOGLE_SHEET_ID")
	set(&c.Store.CredentialsFile, "GOOGLE_CREDENTIALS_FILE")
	set(&c.Store.Table, "DYNAMODB_TABLE")
	set(&c.Store.Region, "AWS_REGION")

	if ids := getenv("ADMIN_TELEGRAM_IDS"); strings.TrimSpace(ids) != "" {
		c.Admins = nil
		for _, id := range strings.Split(ids, ",") {
			if id = strings.TrimSpace(id); id != "" {
				c.Admins = append(c.Admins, id)
			}
		}
	}
}

var validate = validator.New()

// Validate checks field constraints and joins every violation into one error.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "startswith":
		return fmt.Sprintf("%s must start with %q", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
