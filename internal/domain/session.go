package domain

import "time"

// Session is a persisted auth session backing a refresh token.
// The refresh token itself is never stored, only its hash.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"-"`
	DeviceName       string    `json:"device_name,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	LastUsedAt       time.Time `json:"last_used_at"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// IsExpired reports whether the session can no longer be refreshed.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
