package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides of any configuration key,
// e.g. SAANSBOT_LOG_LEVEL for log.level.
const EnvPrefix = "SAANSBOT"

// envAliases binds the conventional variable names used by hosting platforms
// and SDKs. The first variable that is set wins.
var envAliases = map[string][]string{
	"telegram.token": {"BOT_TOKEN", "TELEGRAM_BOT_TOKEN", EnvPrefix + "_TELEGRAM_TOKEN"},
	"gemini.api_key": {"GEMINI_API_KEY", "GOOGLE_API_KEY", EnvPrefix + "_GEMINI_API_KEY"},
	"openai.api_key": {"OPENAI_API_KEY", EnvPrefix + "_OPENAI_API_KEY"},
	"http.port":      {"PORT", EnvPrefix + "_HTTP_PORT"},
}

// Load reads configuration from defaults, the YAML file at path (if it exists)
// and the environment, then validates it. An empty path skips the file.
func Load(path string) (*Config, error) {
	startTime := time.Now()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			slog.Debug("Configuration file not found, using defaults and environment", "path", path)
		} else {
			slog.Debug("Configuration file loaded", "path", v.ConfigFileUsed())
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	normalize(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("Configuration loaded",
		"provider", cfg.AI.Provider,
		"http_port", cfg.HTTP.Port,
		"journal_enabled", cfg.Database.Enabled(),
		"duration", time.Since(startTime))
	return cfg, nil
}

// normalize trims secrets so that whitespace-only values count as missing.
func normalize(cfg *Config) {
	cfg.Telegram.Token = strings.TrimSpace(cfg.Telegram.Token)
	cfg.Gemini.APIKey = strings.TrimSpace(cfg.Gemini.APIKey)
	cfg.OpenAI.APIKey = strings.TrimSpace(cfg.OpenAI.APIKey)
	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
}
