package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	DeepSeekAPIKey string
	GeminiAPIKey   string

	TelegramToken    string
	TelegramChat     string
	TelegramThreadID *int

	RedisAddr     string
	RedisPassword string

	HTTPPort        string
	CronSpec        string
	PipelineTimeout time.Duration
	CORSOrigins     []string
}

const defaultOrigins = "http://localhost:3000,http://127.0.0.1:3000"

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DBHost:         envOrDefault("DB_HOST", "localhost"),
		DBPort:         envOrDefault("DB_PORT", "5432"),
		DBUser:         envOrDefault("DB_USERNAME", "postgres"),
		DBPassword:     envOrDefault("DB_PASSWORD", "postgres"),
		DBName:         envOrDefault("DB_DATABASE", "steelleads"),
		DBSSLMode:      envOrDefault("DB_SSLMODE", "disable"),
		DeepSeekAPIKey: os.Getenv("DEEPSEEK_API_KEY"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChat:   os.Getenv("TELEGRAM_CHAT_ID"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		HTTPPort:       envOrDefault("PORT", "5000"),
		CronSpec:       os.Getenv("PIPELINE_CRON"),
		CORSOrigins:    splitList(envOrDefault("CORS_ORIGINS", defaultOrigins)),
	}

	threadID, err := envOrIntPtr("TELEGRAM_CHAT_THREAD_ID")
	if err != nil {
		return cfg, err
	}
	cfg.TelegramThreadID = threadID

	timeout, err := envOrDuration("PIPELINE_TIMEOUT", 20*time.Minute)
	if err != nil {
		return cfg, err
	}
	cfg.PipelineTimeout = timeout

	if cfg.DeepSeekAPIKey == "" && cfg.GeminiAPIKey == "" {
		return cfg, errors.New("missing DEEPSEEK_API_KEY and GEMINI_API_KEY; at least one is required")
	}

	if cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBName == "" {
		return cfg, errors.New("missing database configuration")
	}

	return cfg, nil
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func (c Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChat != ""
}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func envOrIntPtr(key string) (*int, error) {
	val := os.Getenv(key)
	if val == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &parsed, nil
}

func envOrDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
