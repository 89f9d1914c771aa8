package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flashlearn/flashlearn-server/internal/color"
	"github.com/flashlearn/flashlearn-server/internal/domain"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)
}

// GetCurrentUserInput contains parameters for the current user lookup.
type GetCurrentUserInput struct {
	Authorization string `header:"Authorization"`
}

// UserOutput wraps the user response for Huma.
type UserOutput struct {
	Body UserResponse
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *GetCurrentUserInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Auth.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func mapUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarColor: color.ForUser(u.ID),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
