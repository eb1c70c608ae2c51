// Package logging builds the zerolog logger used by chatctl and adapts it to chat.Logger.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Irfan-Alaam/chat-app/chat"
)

// New returns a logger writing to w. format is "console" or "json".
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	switch strings.ToLower(format) {
	case "", "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", format)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// SDK adapts a zerolog.Logger to the chat.Logger interface.
type SDK struct {
	zl zerolog.Logger
}

var _ chat.Logger = SDK{}

// NewSDK wraps zl, tagging every entry with component=chat.
func NewSDK(zl zerolog.Logger) SDK {
	return SDK{zl: zl.With().Str("component", "chat").Logger()}
}

func (l SDK) Debug(msg string, fields map[string]any) { l.zl.Debug().Fields(fields).Msg(msg) }
func (l SDK) Info(msg string, fields map[string]any)  { l.zl.Info().Fields(fields).Msg(msg) }
func (l SDK) Warn(msg string, fields map[string]any)  { l.zl.Warn().Fields(fields).Msg(msg) }
func (l SDK) Error(msg string, fields map[string]any) { l.zl.Error().Fields(fields).Msg(msg) }
