package rest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-only"))
	require.NoError(t, err)
	return tok
}

func TestParseClaims(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	tok := signed(t, jwt.MapClaims{"sub": "bob", "user_id": 42, "role": "admin", "exp": exp.Unix()})

	c, err := ParseClaims(tok)
	require.NoError(t, err)
	assert.Equal(t, "bob", c.Username)
	assert.Equal(t, "42", c.UserID)
	assert.True(t, c.IsAdmin())
	assert.True(t, c.ExpiresAt.Equal(exp))
	assert.False(t, c.Expired(exp.Add(-time.Minute)))
	assert.True(t, c.Expired(exp))
}

func TestParseClaimsStringIDAndNoExpiry(t *testing.T) {
	c, err := ParseClaims(signed(t, jwt.MapClaims{"sub": "amy", "user_id": "7", "role": "user"}))
	require.NoError(t, err)
	assert.Equal(t, "7", c.UserID)
	assert.False(t, c.IsAdmin())
	assert.False(t, c.Expired(time.Now()))
}

func TestParseClaimsGarbage(t *testing.T) {
	_, err := ParseClaims("not-a-token")
	assert.Error(t, err)
}
