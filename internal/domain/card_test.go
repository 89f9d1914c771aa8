package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCard_MarkReviewed(t *testing.T) {
	card := &Card{}
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	card.MarkReviewed(at)
	card.MarkReviewed(at.Add(time.Hour))

	assert.Equal(t, 2, card.TimesReviewed)
	require.NotNil(t, card.LastReviewedAt)
	assert.Equal(t, at.Add(time.Hour), *card.LastReviewedAt)
}

func TestCard_SetLearned(t *testing.T) {
	card := &Card{}
	at := time.Now()

	card.SetLearned(true, at)
	assert.True(t, card.Learned)
	require.NotNil(t, card.LearnedAt)
	assert.Equal(t, at, *card.LearnedAt)

	// learned_at must be cleared when the flag goes back to false.
	card.SetLearned(false, at.Add(time.Minute))
	assert.False(t, card.Learned)
	assert.Nil(t, card.LearnedAt)
}

func TestRecord_InitTimestamps(t *testing.T) {
	card := &Card{}
	card.InitTimestamps()

	assert.False(t, card.CreatedAt.IsZero())
	assert.Equal(t, card.CreatedAt, card.UpdatedAt)

	before := card.UpdatedAt
	time.Sleep(time.Millisecond)
	card.Touch()
	assert.True(t, card.UpdatedAt.After(before))
	assert.Equal(t, before, card.CreatedAt) // CreatedAt unchanged
}
