package domain

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID        int64     `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Token     string    `db:"token" json:"token"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	IsActive  bool      `db:"is_active" json:"is_active"`
}

// AuthSession is what a signed-in client holds: the bearer token, when it
// stops being valid and the account it belongs to.
type AuthSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user,omitempty"`
}

func (s *AuthSession) Expired(now time.Time) bool {
	return s == nil || !now.Before(s.ExpiresAt)
}

type AuthEvent string

const (
	AuthEventSignedIn     AuthEvent = "SIGNED_IN"
	AuthEventSignedOut    AuthEvent = "SIGNED_OUT"
	AuthEventTokenExpired AuthEvent = "TOKEN_EXPIRED"
)
