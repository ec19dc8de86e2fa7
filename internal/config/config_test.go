package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "file", cfg.ModelKind)
	assert.Equal(t, 500, cfg.ChatMaxReplyRunes)
	assert.Equal(t, "Petrol", cfg.ChatDefaultFuel)
	assert.Equal(t, "Automatic", cfg.ChatDefaultTransmission)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.IsDev())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MODEL_KIND", "remote")
	t.Setenv("CHAT_MAX_REPLY_RUNES", "120")
	t.Setenv("APP_ENV", "prod")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "remote", cfg.ModelKind)
	assert.Equal(t, 120, cfg.ChatMaxReplyRunes)
	assert.False(t, cfg.IsDev())
}

func TestLoad_RejectsUnknownModelKind(t *testing.T) {
	t.Setenv("MODEL_KIND", "pickle")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MODEL_KIND")
}

func TestLoad_RejectsBadWorkerConcurrency(t *testing.T) {
	t.Setenv("WORKER_CONCURRENCY", "0")
	_, err := Load()
	require.Error(t, err)
}
