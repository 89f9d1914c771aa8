package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flashlearn/flashlearn-server/internal/domain"
	"github.com/flashlearn/flashlearn-server/internal/store"
)

func makeTestSession(id, userID, tokenHash string, ttl time.Duration) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:               id,
		UserID:           userID,
		RefreshTokenHash: tokenHash,
		DeviceName:       "test device",
		CreatedAt:        now,
		LastUsedAt:       now,
		ExpiresAt:        now.Add(ttl),
	}
}

func TestCreateAndGetSessionByRefreshToken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "alice@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	sess := makeTestSession("sess-1", "user-1", "hash-abc", time.Hour)
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.GetSessionByRefreshToken(ctx, "hash-abc")
	if err != nil {
		t.Fatalf("GetSessionByRefreshToken: %v", err)
	}
	if got.ID != "sess-1" {
		t.Errorf("ID: got %q, want sess-1", got.ID)
	}
	if got.UserID != "user-1" {
		t.Errorf("UserID: got %q, want user-1", got.UserID)
	}
	if got.DeviceName != "test device" {
		t.Errorf("DeviceName: got %q, want %q", got.DeviceName, "test device")
	}

	_, err = s.GetSessionByRefreshToken(ctx, "hash-unknown")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateSessionRotatesToken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "alice@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	sess := makeTestSession("sess-1", "user-1", "hash-old", time.Hour)
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	sess.RefreshTokenHash = "hash-new"
	sess.LastUsedAt = time.Now()
	if err := s.UpdateSession(ctx, sess); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	if _, err := s.GetSessionByRefreshToken(ctx, "hash-old"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("old token still resolves: %v", err)
	}
	got, err := s.GetSessionByRefreshToken(ctx, "hash-new")
	if err != nil {
		t.Fatalf("GetSessionByRefreshToken: %v", err)
	}
	if got.ID != "sess-1" {
		t.Errorf("ID: got %q, want sess-1", got.ID)
	}
}

func TestDeleteSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "alice@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.CreateSession(ctx, makeTestSession("sess-1", "user-1", "hash-1", time.Hour)); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if err := s.DeleteSession(ctx, "sess-1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if err := s.DeleteSession(ctx, "sess-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteAllUserSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "alice@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.CreateUser(ctx, makeTestUser("user-2", "bob@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	for i, tt := range []struct{ id, userID, hash string }{
		{"sess-1", "user-1", "hash-1"},
		{"sess-2", "user-1", "hash-2"},
		{"sess-3", "user-2", "hash-3"},
	} {
		if err := s.CreateSession(ctx, makeTestSession(tt.id, tt.userID, tt.hash, time.Hour)); err != nil {
			t.Fatalf("CreateSession %d: %v", i, err)
		}
	}

	if err := s.DeleteAllUserSessions(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteAllUserSessions: %v", err)
	}

	if _, err := s.GetSessionByRefreshToken(ctx, "hash-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("user-1 session survived: %v", err)
	}
	if _, err := s.GetSessionByRefreshToken(ctx, "hash-3"); err != nil {
		t.Errorf("user-2 session was deleted: %v", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "alice@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.CreateSession(ctx, makeTestSession("sess-live", "user-1", "hash-live", time.Hour)); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := s.CreateSession(ctx, makeTestSession("sess-dead", "user-1", "hash-dead", -time.Hour)); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	n, err := s.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted count: got %d, want 1", n)
	}
	if _, err := s.GetSessionByRefreshToken(ctx, "hash-live"); err != nil {
		t.Errorf("live session was deleted: %v", err)
	}
}
