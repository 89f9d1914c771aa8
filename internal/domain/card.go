package domain

import "time"

// Card is a front/back study unit with language/category metadata and
// review/learned tracking. Every card belongs to exactly one owner.
type Card struct {
	Record
	OwnerID        string     `json:"user_id"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	Language       string     `json:"language"`
	Category       string     `json:"category"`
	TimesReviewed  int        `json:"times_reviewed"`
	LastReviewedAt *time.Time `json:"last_reviewed_at"`
	Learned        bool       `json:"learned"`
	LearnedAt      *time.Time `json:"learned_at"`
}

// MarkReviewed increments the review counter and stamps the review time.
// The counter is monotonically non-decreasing; there is no way to undo a review.
func (c *Card) MarkReviewed(at time.Time) {
	c.TimesReviewed++
	c.LastReviewedAt = &at
}

// SetLearned updates the learned flag, keeping learned_at consistent:
// it is non-null exactly when the flag is true.
func (c *Card) SetLearned(learned bool, at time.Time) {
	c.Learned = learned
	if learned {
		c.LearnedAt = &at
	} else {
		c.LearnedAt = nil
	}
}
