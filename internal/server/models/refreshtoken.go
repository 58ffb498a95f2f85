package models

import "time"

// RefreshToken is a persisted session credential. The token string is the
// credential itself and the row's identity.
type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// PasswordResetToken is a single-use credential mailed to the account owner.
type PasswordResetToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry at now.
func (t *PasswordResetToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
