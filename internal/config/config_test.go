package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Addr() != "0.0.0.0:8080" {
		t.Errorf("unexpected addr %s", cfg.App.Addr())
	}
	if cfg.Classifier.Strategy != "rules" {
		t.Errorf("expected rules strategy, got %s", cfg.Classifier.Strategy)
	}
	if cfg.Postgres.MaxConns != 10 || !cfg.Postgres.RunMigrations {
		t.Errorf("unexpected postgres defaults %+v", cfg.Postgres)
	}
	if cfg.Chat.RateLimitPerMinute != 20 {
		t.Errorf("unexpected rate limit %d", cfg.Chat.RateLimitPerMinute)
	}
	if cfg.Notification.TelegramEnabled() {
		t.Error("telegram should be disabled by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_PORT", "9090")
	t.Setenv("CLASSIFIER_STRATEGY", "model")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200300")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Port != "9090" || cfg.Classifier.Strategy != "model" || cfg.Redis.DB != 3 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if !cfg.Notification.TelegramEnabled() {
		t.Error("expected telegram enabled")
	}
}

func TestLoad_InvalidNumber(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("REDIS_DB", "two")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric REDIS_DB")
	}
}

func TestDurations(t *testing.T) {
	if got := (AppConfig{RequestTimeoutSeconds: 0}).RequestTimeout(); got != 0 {
		t.Errorf("expected no timeout, got %v", got)
	}
	if got := (AppConfig{RequestTimeoutSeconds: 5}).RequestTimeout(); got != 5*time.Second {
		t.Errorf("expected 5s, got %v", got)
	}
	if got := (LLMConfig{}).Timeout(); got != 20*time.Second {
		t.Errorf("expected 20s default, got %v", got)
	}
	if got := (KnowledgeConfig{CacheTTLSeconds: 60}).CacheTTL(); got != time.Minute {
		t.Errorf("expected 1m, got %v", got)
	}
}
