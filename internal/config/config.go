package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Classifier   ClassifierConfig
	LLM          LLMConfig
	Knowledge    KnowledgeConfig
	Chat         ChatConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `env:"APP_NAME" envDefault:"helpdesk-service"`
	Env                   string `env:"APP_ENV" envDefault:"development"`
	Host                  string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port                  string `env:"APP_PORT" envDefault:"8080"`
	Version               string `env:"APP_VERSION" envDefault:"dev"`
	RequestTimeoutSeconds int    `env:"HTTP_REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `env:"POSTGRES_DSN"`
	MaxConns       int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns       int32  `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	RunMigrations  bool   `env:"POSTGRES_RUN_MIGRATIONS" envDefault:"true"`
	ConnMaxIdleSec int32  `env:"POSTGRES_CONN_MAX_IDLE_SECONDS" envDefault:"30"`
	ConnMaxLifeSec int32  `env:"POSTGRES_CONN_MAX_LIFE_SECONDS" envDefault:"300"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string `env:"AUTH_JWT_SECRET" envDefault:"dev-secret"`
	AccessTokenTTLMinutes int    `env:"AUTH_ACCESS_TOKEN_TTL_MINUTES" envDefault:"60"`
	BcryptCost            int    `env:"AUTH_BCRYPT_COST" envDefault:"12"`
}

// ClassifierConfig selects the chat classification strategy.
type ClassifierConfig struct {
	Strategy  string `env:"CLASSIFIER_STRATEGY" envDefault:"rules"`
	RulesPath string `env:"CLASSIFIER_RULES_PATH"`
}

// LLMConfig points at an OpenAI-compatible chat completions gateway.
type LLMConfig struct {
	BaseURL        string `env:"LLM_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	APIKey         string `env:"LLM_API_KEY"`
	Model          string `env:"LLM_MODEL" envDefault:"google/gemini-2.5-flash"`
	TimeoutSeconds int    `env:"LLM_TIMEOUT_SECONDS" envDefault:"20"`
}

// KnowledgeConfig tunes the knowledge-base lookup used by the chat assistant.
type KnowledgeConfig struct {
	CacheTTLSeconds int `env:"KB_CACHE_TTL_SECONDS" envDefault:"300"`
}

// ChatConfig limits how often a single user may call the assistant.
type ChatConfig struct {
	RateLimitPerMinute int `env:"CHAT_RATE_LIMIT_PER_MINUTE" envDefault:"20"`
}

// NotificationConfig holds notification channel settings.
type NotificationConfig struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64  `env:"TELEGRAM_CHAT_ID"`
}

// Load reads configuration from environment variables, applying defaults where possible.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-request deadline for the model gateway.
func (l LLMConfig) Timeout() time.Duration {
	if l.TimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(l.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long category lookups stay cached.
func (k KnowledgeConfig) CacheTTL() time.Duration {
	if k.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(k.CacheTTLSeconds) * time.Second
}

// TelegramEnabled reports whether IT channel notifications are configured.
func (n NotificationConfig) TelegramEnabled() bool {
	return n.TelegramBotToken != "" && n.TelegramChatID != 0
}
