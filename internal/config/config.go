// Package config loads chatctl settings from a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/Irfan-Alaam/chat-app/chat"
)

// Settings is everything chatctl reads from its environment.
type Settings struct {
	Chat      chat.Config `envPrefix:"CHAT_"`
	TokenFile string      `env:"CHAT_TOKEN_FILE"`
	LogLevel  string      `env:"LOG_LEVEL" envDefault:"warn"`
	LogFormat string      `env:"LOG_FORMAT" envDefault:"console"`
}

// Load reads the given .env files (".env" when none are named), overlays the
// process environment and parses the result. A missing .env file is not an error.
// Variables already set in the environment win over the file.
func Load(files ...string) (Settings, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	vars := make(map[string]string)
	for _, f := range files {
		fileVars, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Settings{}, fmt.Errorf("read %s: %w", f, err)
		}
		for k, v := range fileVars {
			if _, ok := vars[k]; !ok {
				vars[k] = v
			}
		}
	}
	for k, v := range env.ToMap(os.Environ()) {
		vars[k] = v
	}

	var s Settings
	if err := env.ParseWithOptions(&s, env.Options{Environment: vars}); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if s.TokenFile == "" {
		s.TokenFile = DefaultTokenFile()
	}
	if err := s.Chat.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// DefaultTokenFile is where the bearer token lives unless CHAT_TOKEN_FILE says otherwise.
func DefaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "chatctl", "token")
}
