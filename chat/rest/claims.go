package rest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the client can learn from its own bearer token.
// The signature is not checked: only the server holds the key.
type Claims struct {
	Username  string
	UserID    string
	Role      Role
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at now.
// Tokens without an expiry never expire.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// IsAdmin reports whether the token carries the admin role.
func (c Claims) IsAdmin() bool { return c.Role == RoleAdmin }

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID json.RawMessage `json:"user_id"`
	Role   Role            `json:"role"`
}

// ParseClaims decodes the payload of a bearer token without verifying it.
func ParseClaims(token string) (Claims, error) {
	var parsed tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &parsed); err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}
	out := Claims{
		Username: parsed.Subject,
		UserID:   rawID(parsed.UserID),
		Role:     parsed.Role,
	}
	if parsed.ExpiresAt != nil {
		out.ExpiresAt = parsed.ExpiresAt.Time
	}
	return out, nil
}

// rawID accepts both numeric and string user ids.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return n.String()
	}
	return ""
}
