package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flashlearn/flashlearn-server/internal/auth"
	"github.com/flashlearn/flashlearn-server/internal/domain"
	apperrors "github.com/flashlearn/flashlearn-server/internal/errors"
	"github.com/flashlearn/flashlearn-server/internal/id"
	"github.com/flashlearn/flashlearn-server/internal/store"
)

// AuthService handles user registration, login and token verification.
// Session lifecycle is delegated to SessionService.
type AuthService struct {
	store          store.Store
	tokenService   *auth.TokenService
	sessionService *SessionService
	logger         *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.Store,
	tokenService *auth.TokenService,
	sessionService *SessionService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:          store,
		tokenService:   tokenService,
		sessionService: sessionService,
		logger:         logger,
	}
}

// RegisterRequest contains user registration data. Registration is open;
// anyone with the server address can create an account.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=1024"`
	DisplayName string `json:"display_name" validate:"max=100"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	DeviceName string `json:"device_name" validate:"max=100"`
}

// AuthResponse contains authentication tokens and user data.
type AuthResponse struct {
	User *domain.User `json:"user"`
	SessionResponse
}

// Register creates a new user account and logs it in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Email
	}

	user := &domain.User{
		Record:       domain.Record{ID: userID},
		Email:        req.Email,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		LastLoginAt:  time.Now(),
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, apperrors.AlreadyExists("email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, "")
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User registered",
			"user_id", userID,
			"email", user.Email,
		)
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// Login authenticates a user and creates a new session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Don't leak whether the email exists.
			return nil, apperrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, apperrors.InvalidCredentials("invalid email or password")
	}

	user.LastLoginAt = time.Now()
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		// Login still succeeds; the stamp is best effort.
		if s.logger != nil {
			s.logger.Warn("Failed to update last login time",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, req.DeviceName)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User logged in", "user_id", user.ID)
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// RefreshTokens generates new tokens using a refresh token. The old
// refresh token is invalidated (token rotation).
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, apperrors.Validation("refresh_token is required")
	}

	sessionResp, user, err := s.sessionService.RefreshSession(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// Logout revokes the session behind a refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.sessionService.RevokeSession(ctx, refreshToken)
}

// VerifyAccessToken validates a token and returns the associated user.
// Used by the request authentication helper.
func (s *AuthService) VerifyAccessToken(ctx context.Context, tokenString string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokenService.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, nil, apperrors.Unauthorized("invalid or expired token").WithCause(err)
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, apperrors.Unauthorized("user no longer exists")
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	return user, claims, nil
}

// GetUser returns a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
