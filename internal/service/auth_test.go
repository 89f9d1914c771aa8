package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/flashlearn/flashlearn-server/internal/errors"
)

func TestRegister(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	resp, err := ts.auth.Register(ctx, RegisterRequest{
		Email:       "alice@example.com",
		Password:    "password123",
		DisplayName: "Alice",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, "Alice", resp.User.DisplayName)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)

	// The password hash never equals the plaintext and is stored hashed.
	assert.NotEqual(t, "password123", resp.User.PasswordHash)
	assert.Contains(t, resp.User.PasswordHash, "$argon2id$")
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing email", RegisterRequest{Password: "password123"}},
		{"invalid email", RegisterRequest{Email: "not-an-email", Password: "password123"}},
		{"short password", RegisterRequest{Email: "a@example.com", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.auth.Register(ctx, tt.req)
			require.Error(t, err)

			var appErr *apperrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.CodeValidation, appErr.Code)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	registerTestUser(t, ts, "alice@example.com")

	_, err := ts.auth.Register(ctx, RegisterRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.Error(t, err)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeAlreadyExists, appErr.Code)
}

func TestRegisterDefaultsDisplayNameToEmail(t *testing.T) {
	ts := newTestServices(t)

	user := registerTestUser(t, ts, "bob@example.com")
	assert.Equal(t, "bob@example.com", user.DisplayName)
}

func TestLogin(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	registerTestUser(t, ts, "alice@example.com")

	resp, err := ts.auth.Login(ctx, LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	// The access token resolves back to the user.
	user, claims, err := ts.auth.VerifyAccessToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	registerTestUser(t, ts, "alice@example.com")

	for _, req := range []LoginRequest{
		{Email: "alice@example.com", Password: "wrong-password"},
		{Email: "nobody@example.com", Password: "password123"},
	} {
		_, err := ts.auth.Login(ctx, req)
		require.Error(t, err)

		// Unknown email and wrong password are indistinguishable.
		var appErr *apperrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeInvalidCredentials, appErr.Code)
		assert.Equal(t, "invalid email or password", appErr.Message)
	}
}

func TestRefreshTokensRotates(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	registerTestUser(t, ts, "alice@example.com")

	login, err := ts.auth.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := ts.auth.RefreshTokens(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, login.SessionID, refreshed.SessionID)

	// The old refresh token is dead after rotation.
	_, err = ts.auth.RefreshTokens(ctx, login.RefreshToken)
	require.Error(t, err)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeTokenExpired, appErr.Code)
}

func TestLogout(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	registerTestUser(t, ts, "alice@example.com")

	login, err := ts.auth.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, ts.auth.Logout(ctx, login.RefreshToken))

	// The revoked token can't refresh anymore.
	_, err = ts.auth.RefreshTokens(ctx, login.RefreshToken)
	assert.Error(t, err)

	// Logout is idempotent.
	assert.NoError(t, ts.auth.Logout(ctx, login.RefreshToken))
}

func TestVerifyAccessTokenGarbage(t *testing.T) {
	ts := newTestServices(t)

	_, _, err := ts.auth.VerifyAccessToken(context.Background(), "v4.local.garbage")
	require.Error(t, err)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)
}
