package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flashlearn/flashlearn-server/internal/auth"
	"github.com/flashlearn/flashlearn-server/internal/domain"
	"github.com/flashlearn/flashlearn-server/internal/store"
	"github.com/flashlearn/flashlearn-server/internal/store/sqlite"
)

// testServices bundles the services under test with their backing store.
type testServices struct {
	store    store.Store
	auth     *AuthService
	session  *SessionService
	cards    *CardService
	transfer *TransferService
	study    *StudyService
}

// newTestServices creates services with temporary storage for testing.
func newTestServices(t *testing.T) *testServices {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	keyHex, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	tokenService, err := auth.NewTokenService(keyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	sessionService := NewSessionService(s, tokenService, logger)
	return &testServices{
		store:    s,
		auth:     NewAuthService(s, tokenService, sessionService, logger),
		session:  sessionService,
		cards:    NewCardService(s, logger),
		transfer: NewTransferService(s, logger),
		study:    NewStudyService(s, logger),
	}
}

// registerTestUser creates a user via the auth service and returns it.
func registerTestUser(t *testing.T, ts *testServices, email string) *domain.User {
	t.Helper()
	resp, err := ts.auth.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: "password123",
	})
	require.NoError(t, err)
	return resp.User
}
