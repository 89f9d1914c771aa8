package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/flashlearn/flashlearn-server/internal/auth"
	"github.com/flashlearn/flashlearn-server/internal/domain"
	apperrors "github.com/flashlearn/flashlearn-server/internal/errors"
	"github.com/flashlearn/flashlearn-server/internal/id"
	"github.com/flashlearn/flashlearn-server/internal/store"
)

// SessionService handles auth session lifecycle: token issuance, rotation
// and revocation.
type SessionService struct {
	store        store.Store
	tokenService *auth.TokenService
	logger       *slog.Logger
}

// NewSessionService creates a new session management service.
func NewSessionService(store store.Store, tokenService *auth.TokenService, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:        store,
		tokenService: tokenService,
		logger:       logger,
	}
}

// SessionResponse contains the tokens issued for a session.
type SessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"` // access token lifetime in seconds
	SessionID    string `json:"session_id"`
}

// CreateSession generates tokens and creates a new session for a user.
func (s *SessionService) CreateSession(ctx context.Context, user *domain.User, deviceName string) (*SessionResponse, error) {
	accessToken, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.tokenService.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	sessionID, err := id.Generate("sess")
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		ID:               sessionID,
		UserID:           user.ID,
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
		DeviceName:       deviceName,
		CreatedAt:        now,
		LastUsedAt:       now,
		ExpiresAt:        now.Add(s.tokenService.RefreshTokenDuration()),
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &SessionResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.tokenService.AccessTokenDuration().Seconds()),
		SessionID:    sessionID,
	}, nil
}

// RefreshSession rotates tokens for an existing session. The old refresh
// token is invalidated.
func (s *SessionService) RefreshSession(ctx context.Context, refreshToken string) (*SessionResponse, *domain.User, error) {
	tokenHash := auth.HashRefreshToken(refreshToken)
	session, err := s.store.GetSessionByRefreshToken(ctx, tokenHash)
	if err != nil {
		return nil, nil, apperrors.TokenExpired("invalid or expired refresh token").WithCause(err)
	}

	if session.IsExpired(time.Now()) {
		_ = s.store.DeleteSession(ctx, session.ID)
		return nil, nil, apperrors.TokenExpired("invalid or expired refresh token")
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		// User was deleted; clean up the orphaned session.
		_ = s.store.DeleteSession(ctx, session.ID)
		return nil, nil, apperrors.NotFound("user not found").WithCause(err)
	}

	accessToken, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}

	newRefreshToken, err := s.tokenService.GenerateRefreshToken()
	if err != nil {
		return nil, nil, fmt.Errorf("generate refresh token: %w", err)
	}

	session.RefreshTokenHash = auth.HashRefreshToken(newRefreshToken)
	session.LastUsedAt = time.Now()

	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("update session: %w", err)
	}

	return &SessionResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.tokenService.AccessTokenDuration().Seconds()),
		SessionID:    session.ID,
	}, user, nil
}

// RevokeSession deletes the session identified by a refresh token.
// Revoking an unknown token is not an error; logout is idempotent.
func (s *SessionService) RevokeSession(ctx context.Context, refreshToken string) error {
	tokenHash := auth.HashRefreshToken(refreshToken)
	session, err := s.store.GetSessionByRefreshToken(ctx, tokenHash)
	if err != nil {
		return nil
	}
	if err := s.store.DeleteSession(ctx, session.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CleanupExpired removes expired sessions. Run periodically.
func (s *SessionService) CleanupExpired(ctx context.Context) error {
	n, err := s.store.DeleteExpiredSessions(ctx)
	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	if n > 0 && s.logger != nil {
		s.logger.Debug("Cleaned up expired sessions", "count", n)
	}
	return nil
}
