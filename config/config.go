package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned when a mode that calls the LLM service starts
// without a configured key.
var ErrMissingAPIKey = errors.New("LLM_API_KEY is required")

type Config struct {
	APIKey         string
	APIBaseURL     string
	Model          string
	UserAgent      string
	RequestTimeout int // seconds
	RateLimit      int // requests per second
	DatabaseURL    string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		APIKey:         os.Getenv("LLM_API_KEY"),
		APIBaseURL:     getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		Model:          getEnv("LLM_MODEL", "gpt-4o-mini"),
		UserAgent:      getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
		RequestTimeout: getEnvInt("REQUEST_TIMEOUT", 10),
		RateLimit:      getEnvInt("RATE_LIMIT", 10),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
	}
}

// RequireAPIKey validates that an LLM key is present. Analysis modes call
// this before doing any network work.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}
