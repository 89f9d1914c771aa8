package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flashlearn/flashlearn-server/internal/domain"
	apperrors "github.com/flashlearn/flashlearn-server/internal/errors"
	"github.com/flashlearn/flashlearn-server/internal/id"
	"github.com/flashlearn/flashlearn-server/internal/normalize"
	"github.com/flashlearn/flashlearn-server/internal/store"
)

// CardService handles flashcard CRUD for a card's owner.
type CardService struct {
	store  store.Store
	logger *slog.Logger
}

// NewCardService creates a new card service.
func NewCardService(store store.Store, logger *slog.Logger) *CardService {
	return &CardService{store: store, logger: logger}
}

// CreateCardRequest contains the data for a new card.
type CreateCardRequest struct {
	Front    string `json:"front" validate:"required,max=2000"`
	Back     string `json:"back" validate:"required,max=2000"`
	Language string `json:"language" validate:"max=100"`
	Category string `json:"category" validate:"max=100"`
}

// UpdateCardRequest contains a partial card update. Nil fields are left
// unchanged.
type UpdateCardRequest struct {
	Front    *string `json:"front,omitempty" validate:"omitempty,min=1,max=2000"`
	Back     *string `json:"back,omitempty" validate:"omitempty,min=1,max=2000"`
	Language *string `json:"language,omitempty" validate:"omitempty,max=100"`
	Category *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Learned  *bool   `json:"learned,omitempty"`
}

// List returns the owner's cards, newest first, optionally filtered by
// learned state.
func (s *CardService) List(ctx context.Context, ownerID string, learned *bool) ([]*domain.Card, error) {
	cards, err := s.store.ListCards(ctx, ownerID, store.CardFilter{Learned: learned})
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	if cards == nil {
		cards = []*domain.Card{}
	}
	return cards, nil
}

// Get returns one of the owner's cards.
func (s *CardService) Get(ctx context.Context, ownerID, cardID string) (*domain.Card, error) {
	card, err := s.store.GetCard(ctx, ownerID, cardID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("card not found")
		}
		return nil, fmt.Errorf("get card: %w", err)
	}
	return card, nil
}

// Create adds a new card for the owner.
func (s *CardService) Create(ctx context.Context, ownerID string, req CreateCardRequest) (*domain.Card, error) {
	req.Front = normalize.Text(req.Front)
	req.Back = normalize.Text(req.Back)
	req.Language = normalize.Language(req.Language)
	req.Category = normalize.Text(req.Category)

	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	cardID, err := id.Generate("card")
	if err != nil {
		return nil, fmt.Errorf("generate card ID: %w", err)
	}

	card := &domain.Card{
		Record:   domain.Record{ID: cardID},
		OwnerID:  ownerID,
		Front:    req.Front,
		Back:     req.Back,
		Language: req.Language,
		Category: req.Category,
	}
	card.InitTimestamps()

	if err := s.store.CreateCard(ctx, card); err != nil {
		return nil, fmt.Errorf("create card: %w", err)
	}

	return card, nil
}

// Update applies a partial update to one of the owner's cards and returns
// the updated card. Toggling learned stamps or clears learned_at.
func (s *CardService) Update(ctx context.Context, ownerID, cardID string, req UpdateCardRequest) (*domain.Card, error) {
	if req.Front != nil {
		*req.Front = normalize.Text(*req.Front)
	}
	if req.Back != nil {
		*req.Back = normalize.Text(*req.Back)
	}
	if req.Language != nil {
		*req.Language = normalize.Language(*req.Language)
	}
	if req.Category != nil {
		*req.Category = normalize.Text(*req.Category)
	}

	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	patch := store.CardPatch{
		Front:    req.Front,
		Back:     req.Back,
		Language: req.Language,
		Category: req.Category,
	}
	if req.Learned != nil {
		patch.Learned = req.Learned
		if *req.Learned {
			now := time.Now()
			patch.LearnedAt = &now
		}
	}

	card, err := s.store.UpdateCard(ctx, ownerID, cardID, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("card not found")
		}
		return nil, fmt.Errorf("update card: %w", err)
	}
	return card, nil
}

// Delete removes one of the owner's cards permanently.
func (s *CardService) Delete(ctx context.Context, ownerID, cardID string) error {
	if err := s.store.DeleteCard(ctx, ownerID, cardID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("card not found")
		}
		return fmt.Errorf("delete card: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("Card deleted", "card_id", cardID, "owner_id", ownerID)
	}
	return nil
}
