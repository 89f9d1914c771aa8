// Package store defines the persistence interface for the FlashLearn server.
package store

import (
	"context"
	"time"

	"github.com/flashlearn/flashlearn-server/internal/domain"
)

// CardPatch describes a partial update to a card. Nil fields are left
// unchanged. The review and learned fields travel with their companion
// timestamps: setting TimesReviewed also applies LastReviewedAt, and
// setting Learned also applies LearnedAt.
type CardPatch struct {
	Front    *string
	Back     *string
	Language *string
	Category *string

	TimesReviewed  *int
	LastReviewedAt *time.Time

	Learned   *bool
	LearnedAt *time.Time
}

// CardFilter narrows ListCards results. Nil fields match everything.
type CardFilter struct {
	Learned *bool
}

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	// Auth sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Cards. All operations are scoped to the owning user: a card that
	// exists but belongs to someone else behaves as if it does not exist.
	CreateCard(ctx context.Context, card *domain.Card) error
	CreateCards(ctx context.Context, cards []*domain.Card) error
	GetCard(ctx context.Context, ownerID, id string) (*domain.Card, error)
	ListCards(ctx context.Context, ownerID string, filter CardFilter) ([]*domain.Card, error)
	UpdateCard(ctx context.Context, ownerID, id string, patch CardPatch) (*domain.Card, error)
	DeleteCard(ctx context.Context, ownerID, id string) error
}
