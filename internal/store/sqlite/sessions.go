package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/flashlearn/flashlearn-server/internal/domain"
	"github.com/flashlearn/flashlearn-server/internal/store"
)

// sessionColumns is the ordered list of columns selected in session queries.
// Must match the scan order in scanSession.
const sessionColumns = `id, user_id, refresh_token_hash, device_name, created_at, last_used_at, expires_at`

// scanSession scans a sql.Row (or sql.Rows via its Scan method) into a domain.Session.
func scanSession(scanner interface{ Scan(dest ...any) error }) (*domain.Session, error) {
	var sess domain.Session

	var (
		deviceName sql.NullString
		createdAt  string
		lastUsedAt string
		expiresAt  string
	)

	err := scanner.Scan(
		&sess.ID,
		&sess.UserID,
		&sess.RefreshTokenHash,
		&deviceName,
		&createdAt,
		&lastUsedAt,
		&expiresAt,
	)
	if err != nil {
		return nil, err
	}

	if deviceName.Valid {
		sess.DeviceName = deviceName.String
	}

	sess.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	sess.LastUsedAt, err = parseTime(lastUsedAt)
	if err != nil {
		return nil, err
	}
	sess.ExpiresAt, err = parseTime(expiresAt)
	if err != nil {
		return nil, err
	}

	return &sess, nil
}

// CreateSession inserts a new session into the database.
// Returns store.ErrAlreadyExists if the session ID or token hash already exists.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (
			id, user_id, refresh_token_hash, device_name,
			created_at, last_used_at, expires_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		session.RefreshTokenHash,
		nullString(session.DeviceName),
		formatTime(session.CreatedAt),
		formatTime(session.LastUsedAt),
		formatTime(session.ExpiresAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetSessionByRefreshToken retrieves a session by its refresh token hash.
// Returns store.ErrNotFound if no session matches.
func (s *Store) GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE refresh_token_hash = ?`, tokenHash)

	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// UpdateSession updates an existing session, typically after token rotation.
// Returns store.ErrNotFound if the session does not exist.
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET
			refresh_token_hash = ?, device_name = ?,
			last_used_at = ?, expires_at = ?
		WHERE id = ?`,
		session.RefreshTokenHash,
		nullString(session.DeviceName),
		formatTime(session.LastUsedAt),
		formatTime(session.ExpiresAt),
		session.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteSession removes a session by ID.
// Returns store.ErrNotFound if the session does not exist.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteAllUserSessions removes every session belonging to a user.
func (s *Store) DeleteAllUserSessions(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

// DeleteExpiredSessions removes sessions whose expiry has passed and
// returns the number deleted.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, formatTime(time.Now()))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
