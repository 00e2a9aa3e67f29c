package llmclient

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

// Config holds OpenAI-compatible client configuration, adapted from
// internal/llm/openai.Config: same env-driven shape, trimmed to the knobs
// the mobile agent loop actually uses (no function-calling mode — actions
// are parsed from plain text, never tool_calls).
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature *float32
	MaxTokens   int
	MaxRetries  int
	HTTPTimeout int // seconds
}

// NewConfigFromEnv builds a Config from MOBILEAGENT_LLM_* environment
// variables, matching the teacher's getEnvOrDefault/getEnvIntOrDefault
// idiom.
func NewConfigFromEnv() (*Config, error) {
	cfg := &Config{
		APIKey:      getEnv("MOBILEAGENT_LLM_API_KEY", ""),
		BaseURL:     getEnv("MOBILEAGENT_LLM_BASE_URL", "https://api.openai.com/v1"),
		Model:       getEnv("MOBILEAGENT_LLM_MODEL", "gpt-4o"),
		Temperature: getEnvFloat32Ptr("MOBILEAGENT_LLM_TEMPERATURE"),
		MaxTokens:   getEnvInt("MOBILEAGENT_LLM_MAX_TOKENS", 0),
		MaxRetries:  getEnvInt("MOBILEAGENT_LLM_MAX_RETRIES", 2),
		HTTPTimeout: getEnvInt("MOBILEAGENT_LLM_HTTP_TIMEOUT", 300),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration is usable before a Client is built.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("MOBILEAGENT_LLM_API_KEY is required")
	}
	if c.Model == "" {
		return fmt.Errorf("MOBILEAGENT_LLM_MODEL cannot be empty")
	}
	if c.Temperature != nil && (*c.Temperature < 0.0 || *c.Temperature > 2.0) {
		return fmt.Errorf("MOBILEAGENT_LLM_TEMPERATURE must be between 0.0 and 2.0, got %f", *c.Temperature)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("MOBILEAGENT_LLM_MAX_RETRIES cannot be negative, got %d", c.MaxRetries)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[llmclient] WARNING: invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func getEnvFloat32Ptr(key string) *float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			f32 := float32(f)
			return &f32
		}
		log.Printf("[llmclient] WARNING: invalid value for %s=%q, ignoring", key, v)
	}
	return nil
}
