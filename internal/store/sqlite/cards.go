package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/flashlearn/flashlearn-server/internal/domain"
	"github.com/flashlearn/flashlearn-server/internal/store"
)

// cardColumns is the ordered list of columns selected in card queries.
// Must match the scan order in scanCard.
const cardColumns = `id, created_at, updated_at, owner_id, front, back, language, category,
	times_reviewed, last_reviewed_at, learned, learned_at`

// scanCard scans a sql.Row (or sql.Rows via its Scan method) into a domain.Card.
func scanCard(scanner interface{ Scan(dest ...any) error }) (*domain.Card, error) {
	var c domain.Card

	var (
		createdAt      string
		updatedAt      string
		lastReviewedAt sql.NullString
		learned        int
		learnedAt      sql.NullString
	)

	err := scanner.Scan(
		&c.ID,
		&createdAt,
		&updatedAt,
		&c.OwnerID,
		&c.Front,
		&c.Back,
		&c.Language,
		&c.Category,
		&c.TimesReviewed,
		&lastReviewedAt,
		&learned,
		&learnedAt,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	c.LastReviewedAt, err = parseNullableTime(lastReviewedAt)
	if err != nil {
		return nil, err
	}
	c.LearnedAt, err = parseNullableTime(learnedAt)
	if err != nil {
		return nil, err
	}
	c.Learned = learned != 0

	return &c, nil
}

// cardInsertArgs returns the insert arguments for a card, matching cardColumns order.
func cardInsertArgs(card *domain.Card) []any {
	return []any{
		card.ID,
		formatTime(card.CreatedAt),
		formatTime(card.UpdatedAt),
		card.OwnerID,
		card.Front,
		card.Back,
		card.Language,
		card.Category,
		card.TimesReviewed,
		nullTimeString(card.LastReviewedAt),
		boolToInt(card.Learned),
		nullTimeString(card.LearnedAt),
	}
}

const insertCardSQL = `
	INSERT INTO cards (
		id, created_at, updated_at, owner_id, front, back, language, category,
		times_reviewed, last_reviewed_at, learned, learned_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// CreateCard inserts a new card into the database.
// Returns store.ErrAlreadyExists if the card ID already exists.
func (s *Store) CreateCard(ctx context.Context, card *domain.Card) error {
	_, err := s.db.ExecContext(ctx, insertCardSQL, cardInsertArgs(card)...)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// CreateCards inserts a batch of cards in a single transaction.
// Either every card is inserted or none are.
func (s *Store) CreateCards(ctx context.Context, cards []*domain.Card) error {
	if len(cards) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertCardSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, card := range cards {
		if _, err := stmt.ExecContext(ctx, cardInsertArgs(card)...); err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return store.ErrAlreadyExists
			}
			return err
		}
	}

	return tx.Commit()
}

// GetCard retrieves a card by ID, scoped to its owner.
// Returns store.ErrNotFound if the card does not exist or belongs to another user.
func (s *Store) GetCard(ctx context.Context, ownerID, id string) (*domain.Card, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE id = ? AND owner_id = ?`, id, ownerID)

	c, err := scanCard(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCards returns a user's cards, newest first.
func (s *Store) ListCards(ctx context.Context, ownerID string, filter store.CardFilter) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE owner_id = ?`
	args := []any{ownerID}

	if filter.Learned != nil {
		query += ` AND learned = ?`
		args = append(args, boolToInt(*filter.Learned))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*domain.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// UpdateCard applies a partial update to a card, scoped to its owner, and
// returns the updated card. UpdatedAt is always refreshed.
// Returns store.ErrNotFound if the card does not exist or belongs to another user.
func (s *Store) UpdateCard(ctx context.Context, ownerID, id string, patch store.CardPatch) (*domain.Card, error) {
	sets := []string{"updated_at = ?"}
	args := []any{formatTime(time.Now())}

	if patch.Front != nil {
		sets = append(sets, "front = ?")
		args = append(args, *patch.Front)
	}
	if patch.Back != nil {
		sets = append(sets, "back = ?")
		args = append(args, *patch.Back)
	}
	if patch.Language != nil {
		sets = append(sets, "language = ?")
		args = append(args, *patch.Language)
	}
	if patch.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *patch.Category)
	}
	if patch.TimesReviewed != nil {
		sets = append(sets, "times_reviewed = ?", "last_reviewed_at = ?")
		args = append(args, *patch.TimesReviewed, nullTimeString(patch.LastReviewedAt))
	}
	if patch.Learned != nil {
		sets = append(sets, "learned = ?", "learned_at = ?")
		args = append(args, boolToInt(*patch.Learned), nullTimeString(patch.LearnedAt))
	}

	args = append(args, id, ownerID)
	res, err := s.db.ExecContext(ctx,
		`UPDATE cards SET `+strings.Join(sets, ", ")+` WHERE id = ? AND owner_id = ?`,
		args...)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, store.ErrNotFound
	}

	return s.GetCard(ctx, ownerID, id)
}

// DeleteCard removes a card, scoped to its owner.
// Returns store.ErrNotFound if the card does not exist or belongs to another user.
func (s *Store) DeleteCard(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM cards WHERE id = ? AND owner_id = ?`, id, ownerID)
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
