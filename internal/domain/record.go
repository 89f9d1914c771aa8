// Package domain defines the core entities for the FlashLearn server.
package domain

import "time"

// Record provides common identity and timestamp fields for persisted entities.
type Record struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp to the current time.
// Call this whenever the underlying entity changes.
func (r *Record) Touch() {
	r.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
// Call this when creating a new entity.
func (r *Record) InitTimestamps() {
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
}
