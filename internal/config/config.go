// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port            string
	DBPath          string
	SessionTTL      time.Duration
	CleanupInterval time.Duration
	Groq            GroqConfig
	Agent           AgentConfig
	RateLimit       RateLimitConfig
}

// GroqConfig holds credentials and endpoint for the Groq model API.
type GroqConfig struct {
	APIKey         string
	BaseURL        string
	ModelID        string
	RequestTimeout time.Duration
}

// AgentConfig controls the legal assistant agent behavior.
type AgentConfig struct {
	Name          string
	Streaming     bool
	ShowToolCalls bool
	MaxToolRounds int
}

// RateLimitConfig controls per-user chat throttling.
type RateLimitConfig struct {
	RequestsPerWindow int
	WindowDuration    time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DBPath:          getEnv("DB_PATH", "./data/lawchat.db"),
		SessionTTL:      getEnvDuration("SESSION_TTL", 60*time.Minute),
		CleanupInterval: getEnvDuration("CLEANUP_INTERVAL", 5*time.Minute),
		Groq: GroqConfig{
			APIKey:         getEnv("GROQ_API_KEY", ""),
			BaseURL:        getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			ModelID:        getEnv("MODEL_ID", "llama-3.2-1b-preview"),
			RequestTimeout: getEnvDuration("AGENT_TIMEOUT", 60*time.Second),
		},
		Agent: AgentConfig{
			Name:          "Indian Law Assistant",
			Streaming:     getEnvBool("AGENT_STREAMING", true),
			ShowToolCalls: getEnvBool("AGENT_SHOW_TOOL_CALLS", true),
			MaxToolRounds: getEnvInt("AGENT_MAX_TOOL_ROUNDS", 5),
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: getEnvInt("RATE_LIMIT_REQUESTS", 10),
			WindowDuration:    getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.Groq.APIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required")
	}
	if c.Groq.BaseURL == "" {
		return fmt.Errorf("GROQ_BASE_URL cannot be empty")
	}
	if c.Groq.ModelID == "" {
		return fmt.Errorf("MODEL_ID cannot be empty")
	}
	if c.Agent.MaxToolRounds <= 0 {
		return fmt.Errorf("AGENT_MAX_TOOL_ROUNDS must be > 0")
	}
	if c.RateLimit.RequestsPerWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be > 0")
	}
	if c.RateLimit.WindowDuration <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be > 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
