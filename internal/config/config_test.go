package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Irfan-Alaam/chat-app/chat"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"CHAT_BASE_URL", "CHAT_HANDSHAKE_TIMEOUT", "CHAT_READ_TIMEOUT", "CHAT_WRITE_TIMEOUT", "CHAT_REQUEST_TIMEOUT", "CHAT_TOKEN_FILE", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}
	s, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	def := chat.DefaultConfig()
	assert.Equal(t, def.HandshakeTimeout, s.Chat.HandshakeTimeout)
	assert.Equal(t, def.WriteTimeout, s.Chat.WriteTimeout)
	assert.Equal(t, def.RequestTimeout, s.Chat.RequestTimeout)
	assert.Zero(t, s.Chat.ReadTimeout)
	assert.Equal(t, "warn", s.LogLevel)
	assert.Equal(t, "console", s.LogFormat)
	assert.Equal(t, DefaultTokenFile(), s.TokenFile)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("CHAT_BASE_URL", "https://chat.example.com")
	t.Setenv("CHAT_WRITE_TIMEOUT", "3s")
	t.Setenv("CHAT_TOKEN_FILE", "/tmp/tok")
	t.Setenv("LOG_LEVEL", "debug")

	s, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "https://chat.example.com", s.Chat.BaseURL)
	assert.Equal(t, 3*time.Second, s.Chat.WriteTimeout)
	assert.Equal(t, "/tmp/tok", s.TokenFile)
	assert.Equal(t, "debug", s.LogLevel)
}

func TestLoadDotEnvLosesToEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CHAT_BASE_URL=http://from-file:9000\nCHAT_READ_TIMEOUT=1m\nLOG_FORMAT=json\n"), 0o600))
	t.Setenv("LOG_FORMAT", "console")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-file:9000", s.Chat.BaseURL)
	assert.Equal(t, time.Minute, s.Chat.ReadTimeout)
	assert.Equal(t, "console", s.LogFormat)
}

func TestLoadRejectsBadConfig(t *testing.T) {
	t.Setenv("CHAT_BASE_URL", "ftp://example.com")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Equal(t, chat.KindInvalidConfig, chat.Classify(err))

	t.Setenv("CHAT_BASE_URL", "http://localhost:8000")
	t.Setenv("CHAT_WRITE_TIMEOUT", "soon")
	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
