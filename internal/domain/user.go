package domain

import "time"

// User represents an authenticated account in the system.
type User struct {
	Record
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	DisplayName  string    `json:"display_name"`
	LastLoginAt  time.Time `json:"last_login_at"`
}
