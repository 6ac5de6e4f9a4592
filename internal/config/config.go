package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// Debug adds error stacks and the request method to error responses.
	Debug        bool   `mapstructure:"debug"`
	FrontendURL  string `mapstructure:"frontend_url" validate:"required,url"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes" validate:"gt=0"`
}

// DatabaseConfig contains Postgres connection settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gt=0"`
}

// ConnMaxLifetime returns the pool connection lifetime.
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}

// AuthConfig contains session token and Google sign-in settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	// DefaultRole is assigned to users created on first Google login.
	DefaultRole        string `mapstructure:"default_role" validate:"required,oneof='Content Creator' Viewer"`
	GoogleTokenInfoURL string `mapstructure:"google_tokeninfo_url" validate:"required,url"`
	GoogleUserInfoURL  string `mapstructure:"google_userinfo_url" validate:"required,url"`
	// GoogleClientID, when set, must match the audience of Google ID tokens.
	GoogleClientID string `mapstructure:"google_client_id"`
}

// TokenLifetime returns the session token lifetime.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}

// LLMConfig selects and configures the generation provider.
type LLMConfig struct {
	Provider        string  `mapstructure:"provider" validate:"required,oneof=groq gemini"`
	GroqAPIKey      string  `mapstructure:"groq_api_key" validate:"required_if=Provider groq"`
	GroqBaseURL     string  `mapstructure:"groq_base_url" validate:"required,url"`
	GeminiAPIKey    string  `mapstructure:"gemini_api_key" validate:"required_if=Provider gemini"`
	ModelName       string  `mapstructure:"model_name"`
	Temperature     float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxOutputTokens int32   `mapstructure:"max_output_tokens" validate:"gt=0"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" validate:"gt=0"`

	// MaxRetries is the number of extra attempts after a transient failure.
	MaxRetries        int `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

// Timeout returns the per-request provider timeout.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryDelay returns the base backoff between provider attempts.
func (c LLMConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// CacheConfig configures the optional Redis template cache. An empty URL
// disables caching.
type CacheConfig struct {
	RedisURL           string `mapstructure:"redis_url" validate:"omitempty,url"`
	TemplateTTLSeconds int    `mapstructure:"template_ttl_seconds" validate:"gt=0"`
}

// TemplateTTL returns how long the template list stays cached.
func (c CacheConfig) TemplateTTL() time.Duration {
	return time.Duration(c.TemplateTTLSeconds) * time.Second
}

// BootstrapConfig describes a user created at startup if missing. Leaving
// UserEmail empty skips bootstrapping.
type BootstrapConfig struct {
	UserEmail      string `mapstructure:"user_email" validate:"omitempty,email"`
	UserName       string `mapstructure:"user_name"`
	UserProfileURL string `mapstructure:"user_profile_url" validate:"omitempty,url"`
}
