// Package tokenstore keeps the single bearer token chatctl logs in with.
package tokenstore

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/Irfan-Alaam/chat-app/chat/rest"
)

var (
	// ErrNoToken means nobody is logged in.
	ErrNoToken = errors.New("not logged in")
	// ErrExpired means the stored token is past its expiry. It has been removed.
	ErrExpired = errors.New("session expired, log in again")
)

// Store persists one token at a fixed path.
type Store struct {
	fs   afero.Fs
	path string
	now  func() time.Time
}

// New creates a store over fs. Use afero.NewOsFs() outside of tests.
func New(fsys afero.Fs, path string) *Store {
	return &Store{fs: fsys, path: path, now: time.Now}
}

// Path returns the file the token is kept in.
func (s *Store) Path() string { return s.path }

// Save replaces the stored token. The file is readable by the owner only.
func (s *Store) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("empty token")
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// Load returns the stored token and what it claims.
func (s *Store) Load() (string, rest.Claims, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", rest.Claims{}, ErrNoToken
	}
	if err != nil {
		return "", rest.Claims{}, fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", rest.Claims{}, ErrNoToken
	}

	claims, err := rest.ParseClaims(token)
	if err != nil {
		_ = s.Clear()
		return "", rest.Claims{}, fmt.Errorf("stored token unreadable: %w", err)
	}
	if claims.Expired(s.now()) {
		_ = s.Clear()
		return "", rest.Claims{}, ErrExpired
	}
	return token, claims, nil
}

// Clear forgets the token. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
