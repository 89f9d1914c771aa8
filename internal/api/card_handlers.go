package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flashlearn/flashlearn-server/internal/domain"
	"github.com/flashlearn/flashlearn-server/internal/service"
)

func (s *Server) registerCardRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCards",
		Method:      http.MethodGet,
		Path:        "/api/v1/cards",
		Summary:     "List cards",
		Description: "Returns the current user's cards, newest first",
		Tags:        []string{"Cards"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCards)

	huma.Register(s.api, huma.Operation{
		OperationID: "createCard",
		Method:      http.MethodPost,
		Path:        "/api/v1/cards",
		Summary:     "Create card",
		Description: "Creates a new flashcard",
		Tags:        []string{"Cards"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCard",
		Method:      http.MethodGet,
		Path:        "/api/v1/cards/{id}",
		Summary:     "Get card",
		Description: "Returns a card by ID",
		Tags:        []string{"Cards"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCard",
		Method:      http.MethodPatch,
		Path:        "/api/v1/cards/{id}",
		Summary:     "Update card",
		Description: "Partially updates a card",
		Tags:        []string{"Cards"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCard",
		Method:      http.MethodDelete,
		Path:        "/api/v1/cards/{id}",
		Summary:     "Delete card",
		Description: "Deletes a card",
		Tags:        []string{"Cards"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteCard)
}

// === DTOs ===

// ListCardsInput contains parameters for listing cards.
type ListCardsInput struct {
	Authorization string `header:"Authorization"`
	Learned       string `query:"learned" doc:"Filter by learned state (true or false)"`
}

// CardResponse contains card data in API responses.
type CardResponse struct {
	ID             string     `json:"id" doc:"Card ID"`
	Front          string     `json:"front" doc:"Front side text"`
	Back           string     `json:"back" doc:"Back side text"`
	Language       string     `json:"language,omitempty" doc:"Language label"`
	Category       string     `json:"category,omitempty" doc:"Category label"`
	TimesReviewed  int        `json:"times_reviewed" doc:"Total review count"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty" doc:"Last review time"`
	Learned        bool       `json:"learned" doc:"Whether the card is marked learned"`
	LearnedAt      *time.Time `json:"learned_at,omitempty" doc:"When the card was marked learned"`
	CreatedAt      time.Time  `json:"created_at" doc:"Creation time"`
	UpdatedAt      time.Time  `json:"updated_at" doc:"Last update time"`
}

// ListCardsResponse contains a list of cards.
type ListCardsResponse struct {
	Cards []CardResponse `json:"cards" doc:"List of cards"`
	Total int            `json:"total" doc:"Number of cards returned"`
}

// ListCardsOutput wraps the list cards response for Huma.
type ListCardsOutput struct {
	Body ListCardsResponse
}

// CreateCardRequest is the request body for creating a card.
type CreateCardRequest struct {
	Front    string `json:"front" validate:"required,max=2000" doc:"Front side text"`
	Back     string `json:"back" validate:"required,max=2000" doc:"Back side text"`
	Language string `json:"language,omitempty" validate:"omitempty,max=100" doc:"Language label"`
	Category string `json:"category,omitempty" validate:"omitempty,max=100" doc:"Category label"`
}

// CreateCardInput wraps the create card request for Huma.
type CreateCardInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateCardRequest
}

// CardOutput wraps the card response for Huma.
type CardOutput struct {
	Body CardResponse
}

// GetCardInput contains parameters for getting a card.
type GetCardInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Card ID"`
}

// UpdateCardRequest is the request body for updating a card.
type UpdateCardRequest struct {
	Front    *string `json:"front,omitempty" validate:"omitempty,min=1,max=2000" doc:"Front side text"`
	Back     *string `json:"back,omitempty" validate:"omitempty,min=1,max=2000" doc:"Back side text"`
	Language *string `json:"language,omitempty" validate:"omitempty,max=100" doc:"Language label"`
	Category *string `json:"category,omitempty" validate:"omitempty,max=100" doc:"Category label"`
	Learned  *bool   `json:"learned,omitempty" doc:"Learned state"`
}

// UpdateCardInput wraps the update card request for Huma.
type UpdateCardInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Card ID"`
	Body          UpdateCardRequest
}

// DeleteCardInput contains parameters for deleting a card.
type DeleteCardInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Card ID"`
}

// === Handlers ===

func (s *Server) handleListCards(ctx context.Context, input *ListCardsInput) (*ListCardsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	var learned *bool
	switch input.Learned {
	case "true":
		v := true
		learned = &v
	case "false":
		v := false
		learned = &v
	}

	cards, err := s.services.Card.List(ctx, userID, learned)
	if err != nil {
		return nil, err
	}

	resp := make([]CardResponse, len(cards))
	for i, c := range cards {
		resp[i] = mapCardResponse(c)
	}

	return &ListCardsOutput{Body: ListCardsResponse{Cards: resp, Total: len(resp)}}, nil
}

func (s *Server) handleCreateCard(ctx context.Context, input *CreateCardInput) (*CardOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	card, err := s.services.Card.Create(ctx, userID, service.CreateCardRequest{
		Front:    input.Body.Front,
		Back:     input.Body.Back,
		Language: input.Body.Language,
		Category: input.Body.Category,
	})
	if err != nil {
		return nil, err
	}

	return &CardOutput{Body: mapCardResponse(card)}, nil
}

func (s *Server) handleGetCard(ctx context.Context, input *GetCardInput) (*CardOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	card, err := s.services.Card.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &CardOutput{Body: mapCardResponse(card)}, nil
}

func (s *Server) handleUpdateCard(ctx context.Context, input *UpdateCardInput) (*CardOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	card, err := s.services.Card.Update(ctx, userID, input.ID, service.UpdateCardRequest{
		Front:    input.Body.Front,
		Back:     input.Body.Back,
		Language: input.Body.Language,
		Category: input.Body.Category,
		Learned:  input.Body.Learned,
	})
	if err != nil {
		return nil, err
	}

	return &CardOutput{Body: mapCardResponse(card)}, nil
}

func (s *Server) handleDeleteCard(ctx context.Context, input *DeleteCardInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Card.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Card deleted"}}, nil
}

// === Helpers ===

func mapCardResponse(c *domain.Card) CardResponse {
	return CardResponse{
		ID:             c.ID,
		Front:          c.Front,
		Back:           c.Back,
		Language:       c.Language,
		Category:       c.Category,
		TimesReviewed:  c.TimesReviewed,
		LastReviewedAt: c.LastReviewedAt,
		Learned:        c.Learned,
		LearnedAt:      c.LearnedAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
