package tokenstore

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	s := New(fsys, "/home/bob/.config/chatctl/token")
	s.now = func() time.Time { return now }
	return s, fsys
}

func token(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "bob", "user_id": 1, "role": "user", "exp": exp.Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

func TestSaveLoad(t *testing.T) {
	s, fsys := newStore(t)
	tok := token(t, now.Add(time.Hour))

	require.NoError(t, s.Save("  "+tok+"\n"))

	info, err := fsys.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "-rw-------", info.Mode().Perm().String())

	got, claims, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, tok, got)
	assert.Equal(t, "bob", claims.Username)
}

func TestLoadEmpty(t *testing.T) {
	s, _ := newStore(t)
	_, _, err := s.Load()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestExpiredTokenIsRemoved(t *testing.T) {
	s, fsys := newStore(t)
	require.NoError(t, s.Save(token(t, now.Add(-time.Minute))))

	_, _, err := s.Load()
	assert.ErrorIs(t, err, ErrExpired)

	exists, err := afero.Exists(fsys, s.Path())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGarbageTokenIsRemoved(t *testing.T) {
	s, fsys := newStore(t)
	require.NoError(t, afero.WriteFile(fsys, s.Path(), []byte("garbage"), 0o600))

	_, _, err := s.Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoToken)

	_, _, err = s.Load()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestClear(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Clear())
	require.NoError(t, s.Save(token(t, now.Add(time.Hour))))
	require.NoError(t, s.Clear())
	_, _, err := s.Load()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestSaveRejectsEmpty(t *testing.T) {
	s, _ := newStore(t)
	assert.Error(t, s.Save(" "))
}
