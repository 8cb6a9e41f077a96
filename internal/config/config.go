// Package config provides configuration loading, validation, and management
// for the bot. Values come from built-in defaults, an optional YAML file and
// the process environment, in that order of precedence.
package config

import (
	"errors"
	"time"

	"github.com/go-telegram/bot/models"
)

// Provider names accepted in ai.provider.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

var (
	// ErrMissingToken is returned when no Telegram bot token is configured.
	ErrMissingToken = errors.New("telegram bot token is missing (set BOT_TOKEN)")
	// ErrMissingAPIKey is returned when the selected AI provider has no API key.
	ErrMissingAPIKey = errors.New("AI provider API key is missing")
	// ErrInvalid wraps all other validation failures.
	ErrInvalid = errors.New("invalid configuration")
)

// Config holds the complete application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	AI        AIConfig        `mapstructure:"ai"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

// TelegramConfig holds the bot token. BotInfo is filled at runtime after GetMe.
type TelegramConfig struct {
	Token string `mapstructure:"token"`

	BotInfo *models.User `mapstructure:"-"`
}

// AIConfig holds settings shared by every completion provider.
type AIConfig struct {
	Provider          string        `mapstructure:"provider"           validate:"oneof=gemini openai"`
	SystemInstruction string        `mapstructure:"system_instruction" validate:"required"`
	Temperature       float32       `mapstructure:"temperature"        validate:"min=0,max=2"`
	Timeout           time.Duration `mapstructure:"timeout"            validate:"min=1s,max=10m"`
}

// GeminiConfig holds Google Gemini settings.
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"    validate:"required"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

// OpenAIConfig holds settings for any OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	Model   string `mapstructure:"model"    validate:"required"`
}

// HTTPConfig configures the liveness endpoint.
type HTTPConfig struct {
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

// MessagesConfig holds the fixed texts the bot replies with.
type MessagesConfig struct {
	Greeting   string `mapstructure:"greeting"    validate:"required"`
	EmptyReply string `mapstructure:"empty_reply" validate:"required"`
	ErrorReply string `mapstructure:"error_reply" validate:"required"`
}

// DatabaseConfig configures the optional relay journal. An empty Path disables it.
type DatabaseConfig struct {
	Path      string        `mapstructure:"path"`
	Retention time.Duration `mapstructure:"retention" validate:"min=1h"`
}

// Enabled reports whether the relay journal should be opened.
func (c DatabaseConfig) Enabled() bool {
	return c.Path != ""
}

// SchedulerConfig lists the maintenance tasks and their cron schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig configures a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// APIKey returns the key of the selected provider.
func (c *Config) APIKey() string {
	if c.AI.Provider == ProviderOpenAI {
		return c.OpenAI.APIKey
	}
	return c.Gemini.APIKey
}
