package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/flashlearn/flashlearn-server/internal/domain"
	"github.com/flashlearn/flashlearn-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, created_at, updated_at, email, password_hash, display_name, last_login_at`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User

	var (
		createdAt   string
		updatedAt   string
		lastLoginAt string
	)

	err := scanner.Scan(
		&u.ID,
		&createdAt,
		&updatedAt,
		&u.Email,
		&u.PasswordHash,
		&u.DisplayName,
		&lastLoginAt,
	)
	if err != nil {
		return nil, err
	}

	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	u.LastLoginAt, err = parseTime(lastLoginAt)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// CreateUser inserts a new user into the database.
// Returns store.ErrAlreadyExists if the user ID or email already exists.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	emailLower := strings.ToLower(strings.TrimSpace(user.Email))

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (
			id, created_at, updated_at, email, email_lower,
			password_hash, display_name, last_login_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
		user.Email,
		emailLower,
		user.PasswordHash,
		user.DisplayName,
		formatTime(user.LastLoginAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetUser retrieves a user by ID.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email, matched case-insensitively.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	lower := strings.ToLower(strings.TrimSpace(email))
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email_lower = ?`, lower)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUser updates an existing user.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	emailLower := strings.ToLower(strings.TrimSpace(user.Email))

	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			updated_at = ?, email = ?, email_lower = ?,
			password_hash = ?, display_name = ?, last_login_at = ?
		WHERE id = ?`,
		formatTime(user.UpdatedAt),
		user.Email,
		emailLower,
		user.PasswordHash,
		user.DisplayName,
		formatTime(user.LastLoginAt),
		user.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
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
