package chat

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config controls how the SDK reaches the chat server.
type Config struct {
	BaseURL          string        `env:"BASE_URL" envDefault:"http://localhost:8000" validate:"required,url"`
	HandshakeTimeout time.Duration `env:"HANDSHAKE_TIMEOUT" envDefault:"10s" validate:"gte=0"`
	ReadTimeout      time.Duration `env:"READ_TIMEOUT" envDefault:"0s" validate:"gte=0"`
	WriteTimeout     time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s" validate:"gte=0"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s" validate:"gte=0"`
}

// DefaultConfig returns sensible defaults.
// ReadTimeout is disabled: a quiet room is not a broken connection.
func DefaultConfig() Config {
	return Config{
		BaseURL:          "http://localhost:8000",
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     10 * time.Second,
		RequestTimeout:   30 * time.Second,
	}
}

var validate = validator.New()

// Validate checks the config before it is used to dial.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return WrapError(KindInvalidConfig, "invalid config", err)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return WrapError(KindInvalidConfig, "invalid base URL", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return NewError(KindInvalidConfig, fmt.Sprintf("base URL scheme %q: want http or https", u.Scheme))
	}
	return nil
}

// RoomURL returns the WebSocket endpoint for roomToken, authenticated with authToken.
func (c Config) RoomURL(roomToken, authToken string) (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", WrapError(KindInvalidConfig, "invalid base URL", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.RawPath = strings.TrimSuffix(u.EscapedPath(), "/") + "/ws/token/" + url.PathEscape(roomToken)
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws/token/" + roomToken
	q := url.Values{}
	q.Set("token", authToken)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
