package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://localhost:8000", "ws://localhost:8000/ws/token/abc%2Fdef?token=t+1%26x"},
		{"https://chat.example.com/", "wss://chat.example.com/ws/token/abc%2Fdef?token=t+1%26x"},
		{"https://chat.example.com/api", "wss://chat.example.com/api/ws/token/abc%2Fdef?token=t+1%26x"},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.BaseURL = tt.base
		got, err := cfg.RoomURL("abc/def", "t 1&x")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.BaseURL = ""
	assert.Equal(t, KindInvalidConfig, Classify(cfg.Validate()))

	cfg = DefaultConfig()
	cfg.BaseURL = "ftp://example.com"
	assert.Equal(t, KindInvalidConfig, Classify(cfg.Validate()))

	cfg = DefaultConfig()
	cfg.WriteTimeout = -1
	assert.Equal(t, KindInvalidConfig, Classify(cfg.Validate()))
}
