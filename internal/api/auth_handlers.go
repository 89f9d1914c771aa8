package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	apperrors "github.com/flashlearn/flashlearn-server/internal/errors"
	"github.com/flashlearn/flashlearn-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/register",
		Summary:     "Register new user",
		Description: "Creates a new user account and logs it in",
		Tags:        []string{"Authentication"},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "User login",
		Description: "Authenticates a user and returns access and refresh tokens",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "refresh",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/refresh",
		Summary:     "Refresh tokens",
		Description: "Exchanges a refresh token for new tokens",
		Tags:        []string{"Authentication"},
	}, s.handleRefresh)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/logout",
		Summary:     "Logout",
		Description: "Revokes the session behind the given refresh token",
		Tags:        []string{"Authentication"},
	}, s.handleLogout)
}

// === DTOs ===

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email" doc:"User email address"`
	Password    string `json:"password" validate:"required,min=8,max=1024" doc:"User password"`
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,max=100" doc:"Display name, defaults to email"`
	DeviceName  string `json:"device_name,omitempty" validate:"omitempty,max=100" doc:"Human-readable device name"`
}

// RegisterInput wraps the register request with headers for Huma.
type RegisterInput struct {
	Body          RegisterRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email" doc:"User email"`
	Password   string `json:"password" validate:"required,max=1024" doc:"User password"`
	DeviceName string `json:"device_name,omitempty" validate:"omitempty,max=100" doc:"Human-readable device name"`
}

// LoginInput wraps the login request with headers for Huma.
type LoginInput struct {
	Body          LoginRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// RefreshRequest is the request body for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required" doc:"Refresh token"`
}

// RefreshInput wraps the refresh request with headers for Huma.
type RefreshInput struct {
	Body          RefreshRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// LogoutRequest is the request body for logout.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required" doc:"Refresh token of the session to revoke"`
}

// LogoutInput wraps the logout request for Huma.
type LogoutInput struct {
	Body LogoutRequest
}

// UserResponse contains user information in API responses.
type UserResponse struct {
	ID          string    `json:"id" doc:"User ID"`
	Email       string    `json:"email" doc:"User email"`
	DisplayName string    `json:"display_name" doc:"Display name"`
	AvatarColor string    `json:"avatar_color" doc:"Stable hex color for the user's avatar"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update timestamp"`
	LastLoginAt time.Time `json:"last_login_at" doc:"Last login timestamp"`
}

// AuthResponse contains authentication tokens and user info.
type AuthResponse struct {
	AccessToken  string       `json:"access_token" doc:"PASETO access token"`
	RefreshToken string       `json:"refresh_token" doc:"Refresh token"`
	SessionID    string       `json:"session_id" doc:"Session identifier"`
	TokenType    string       `json:"token_type" doc:"Token type (Bearer)"`
	ExpiresIn    int          `json:"expires_in" doc:"Access token expiry in seconds"`
	User         UserResponse `json:"user" doc:"Authenticated user"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// MessageResponse contains a simple message.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*AuthOutput, error) {
	if err := s.allowAuthAttempt(input.XForwardedFor, input.XRealIP); err != nil {
		return nil, err
	}

	resp, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		Email:       input.Body.Email,
		Password:    input.Body.Password,
		DisplayName: input.Body.DisplayName,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: mapAuthResponse(resp)}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	if err := s.allowAuthAttempt(input.XForwardedFor, input.XRealIP); err != nil {
		return nil, err
	}

	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Email:      input.Body.Email,
		Password:   input.Body.Password,
		DeviceName: input.Body.DeviceName,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: mapAuthResponse(resp)}, nil
}

func (s *Server) handleRefresh(ctx context.Context, input *RefreshInput) (*AuthOutput, error) {
	if err := s.allowAuthAttempt(input.XForwardedFor, input.XRealIP); err != nil {
		return nil, err
	}

	resp, err := s.services.Auth.RefreshTokens(ctx, input.Body.RefreshToken)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: mapAuthResponse(resp)}, nil
}

func (s *Server) handleLogout(ctx context.Context, input *LogoutInput) (*MessageOutput, error) {
	if err := s.services.Auth.Logout(ctx, input.Body.RefreshToken); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Logged out successfully"}}, nil
}

// === Helpers ===

// allowAuthAttempt applies the per-IP rate limit shared by the auth endpoints.
func (s *Server) allowAuthAttempt(xForwardedFor, xRealIP string) error {
	ip := extractIP(xForwardedFor, xRealIP)
	if ip == "" {
		ip = "unknown"
	}

	if !s.authRateLimiter.Allow(ip) {
		s.logger.Warn("Auth rate limit exceeded", "ip", ip)
		return apperrors.RateLimited("Too many attempts. Please try again later.")
	}

	return nil
}

func mapAuthResponse(resp *service.AuthResponse) AuthResponse {
	return AuthResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		SessionID:    resp.SessionID,
		TokenType:    resp.TokenType,
		ExpiresIn:    resp.ExpiresIn,
		User:         mapUserResponse(resp.User),
	}
}
