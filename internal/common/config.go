package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Decode DecodeConfig
	LLM    LLMConfig
	Rules  RulesConfig
}

// DecodeConfig holds document-decoding configuration
type DecodeConfig struct {
	MaxTextBytes int // raw-text ceiling before truncation
}

// LLMConfig holds model-adapter configuration
type LLMConfig struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float32
	Timeout     time.Duration
	MaxAttempts int
	BaseBackoff time.Duration
}

// RulesConfig points at an optional external rule table.
type RulesConfig struct {
	Path string // empty -> embedded defaults
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Decode: DecodeConfig{
			MaxTextBytes: getEnvAsInt("DECODE_MAX_TEXT_BYTES", 500_000),
		},
		LLM: LLMConfig{
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 120*time.Second),
			MaxAttempts: getEnvAsInt("LLM_MAX_ATTEMPTS", 3),
			BaseBackoff: getEnvAsDuration("LLM_BASE_BACKOFF", time.Second),
		},
		Rules: RulesConfig{
			Path: getEnv("SPECPIPE_RULES", ""),
		},
	}
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", nil)
	}
	if c.Decode.MaxTextBytes <= 0 {
		return NewAppError("CONFIG_ERROR", "DECODE_MAX_TEXT_BYTES must be positive", nil)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
