package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. AICMS_SERVER_PORT.
const EnvPrefix = "AICMS"

// DefaultModels maps a provider to the model used when llm.model_name is
// empty.
var DefaultModels = map[string]string{
	"groq":   "llama3-8b-8192",
	"gemini": "gemini-2.0-flash",
}

var defaults = map[string]any{
	"server.port":           8080,
	"server.log_level":      "info",
	"server.debug":          false,
	"server.frontend_url":   "http://localhost:3000",
	"server.max_body_bytes": int64(10 << 20),

	"database.url":                       "",
	"database.max_open_conns":            10,
	"database.max_idle_conns":            5,
	"database.conn_max_lifetime_minutes": 5,

	"auth.jwt_secret":             "",
	"auth.token_lifetime_minutes": 24 * 60,
	"auth.default_role":           "Content Creator",
	"auth.google_tokeninfo_url":   "https://oauth2.googleapis.com/tokeninfo",
	"auth.google_userinfo_url":    "https://www.googleapis.com/oauth2/v1/userinfo",
	"auth.google_client_id":       "",

	"llm.provider":            "groq",
	"llm.groq_api_key":        "",
	"llm.groq_base_url":       "https://api.groq.com/openai/v1",
	"llm.gemini_api_key":      "",
	"llm.model_name":          "",
	"llm.temperature":         0.7,
	"llm.max_output_tokens":   1024,
	"llm.timeout_seconds":     60,
	"llm.max_retries":         2,
	"llm.retry_delay_seconds": 1,

	"cache.redis_url":            "",
	"cache.template_ttl_seconds": 300,

	"bootstrap.user_email":       "",
	"bootstrap.user_name":        "",
	"bootstrap.user_profile_url": "",
}

// Load reads configuration from a .env file (if present), an optional
// config.yaml in the working directory, and AICMS_* environment variables,
// in increasing order of precedence. The result is validated.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.LLM.ModelName == "" {
		cfg.LLM.ModelName = DefaultModels[cfg.LLM.Provider]
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
