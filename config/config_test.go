package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("LLM_BASE_URL", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("RATE_LIMIT", "")

	cfg := Load()
	assert.Equal(t, "https://api.openai.com/v1", cfg.APIBaseURL)
	assert.Equal(t, 10, cfg.RequestTimeout)
	assert.Equal(t, 10, cfg.RateLimit)
	assert.ErrorIs(t, cfg.RequireAPIKey(), ErrMissingAPIKey)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("LLM_BASE_URL", "https://llm.internal.example.com/v1")
	t.Setenv("REQUEST_TIMEOUT", "30")

	cfg := Load()
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "https://llm.internal.example.com/v1", cfg.APIBaseURL)
	assert.Equal(t, 30, cfg.RequestTimeout)
	assert.NoError(t, cfg.RequireAPIKey())
}

func TestLoadRejectsInvalidNumbers(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "not-a-number")
	t.Setenv("RATE_LIMIT", "-5")

	cfg := Load()
	assert.Equal(t, 10, cfg.RequestTimeout)
	assert.Equal(t, 10, cfg.RateLimit)
}
