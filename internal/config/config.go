package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port              int
	LogLevel          string
	Provider          string
	AnthropicAPIKey   string
	AnthropicModel    string
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIBaseURL     string
	MaxTokens         int
	GenerationTimeout time.Duration
	SessionTTL        time.Duration
	MaxUploadBytes    int64
	SummarizeFiles    bool
	NatsURL           string
	NatsToken         string
	DatabaseURL       string
}

func Load() Config {
	return Config{
		Port:              envInt("BRIEF_PORT", 8760),
		LogLevel:          envStr("LOG_LEVEL", "info"),
		Provider:          strings.ToLower(envStr("BRIEF_PROVIDER", "anthropic")),
		AnthropicAPIKey:   envStr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:    envStr("BRIEF_ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		OpenAIAPIKey:      envStr("OPENAI_API_KEY", ""),
		OpenAIModel:       envStr("BRIEF_OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:     envStr("OPENAI_BASE_URL", ""),
		MaxTokens:         envInt("BRIEF_MAX_TOKENS", 2048),
		GenerationTimeout: envDuration("BRIEF_GENERATION_TIMEOUT", 120*time.Second),
		SessionTTL:        envDuration("BRIEF_SESSION_TTL", 2*time.Hour),
		MaxUploadBytes:    int64(envInt("BRIEF_MAX_UPLOAD_BYTES", 10<<20)),
		SummarizeFiles:    envBool("BRIEF_SUMMARIZE_FILES", false),
		NatsURL:           envStr("NATS_URL", ""),
		NatsToken:         envStr("NATS_TOKEN", ""),
		DatabaseURL:       envStr("DATABASE_URL", ""),
	}
}

// APIKey returns the credential for the configured provider.
func (c Config) APIKey() string {
	if c.Provider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.AnthropicAPIKey
}

// Model returns the model name for the configured provider.
func (c Config) Model() string {
	if c.Provider == "openai" {
		return c.OpenAIModel
	}
	return c.AnthropicModel
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
