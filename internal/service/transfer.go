package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/flashlearn/flashlearn-server/internal/domain"
	apperrors "github.com/flashlearn/flashlearn-server/internal/errors"
	"github.com/flashlearn/flashlearn-server/internal/id"
	"github.com/flashlearn/flashlearn-server/internal/normalize"
	"github.com/flashlearn/flashlearn-server/internal/store"
	"github.com/flashlearn/flashlearn-server/internal/transfer"
)

// Format identifies an interchange format.
type Format string

const (
	FormatDelimited  Format = "csv"
	FormatStructured Format = "json"
)

// Valid reports whether the format is supported.
func (f Format) Valid() bool {
	return f == FormatDelimited || f == FormatStructured
}

// TransferService imports and exports a user's cards.
type TransferService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTransferService creates a new transfer service.
func NewTransferService(store store.Store, logger *slog.Logger) *TransferService {
	return &TransferService{store: store, logger: logger}
}

// ImportRequest contains an import payload.
type ImportRequest struct {
	Format   Format `json:"format" validate:"required,oneof=csv json"`
	Text     string `json:"text" validate:"required"`
	Language string `json:"language" validate:"max=100"` // default for entries without one
	Category string `json:"category" validate:"max=100"` // default for entries without one
}

// Import parses the payload and creates the resulting cards for the owner
// in a single batch. Returns the number of cards imported.
// A payload that parses but yields no cards is an EMPTY_BATCH error; no
// store call is made.
func (s *TransferService) Import(ctx context.Context, ownerID string, req ImportRequest) (int, error) {
	if err := validate.Struct(req); err != nil {
		return 0, formatValidationError(err)
	}

	var entries []transfer.Entry
	var err error
	switch req.Format {
	case FormatDelimited:
		entries = transfer.ParseDelimited(req.Text, req.Language, req.Category)
	case FormatStructured:
		entries, err = transfer.ParseStructured(req.Text, req.Language, req.Category)
		if err != nil {
			return 0, err
		}
	}

	if len(entries) == 0 {
		return 0, apperrors.EmptyBatch("no valid cards found in the file")
	}

	cards := make([]*domain.Card, 0, len(entries))
	for _, e := range entries {
		cardID, err := id.Generate("card")
		if err != nil {
			return 0, fmt.Errorf("generate card ID: %w", err)
		}
		card := &domain.Card{
			Record:   domain.Record{ID: cardID},
			OwnerID:  ownerID,
			Front:    normalize.Text(e.Front),
			Back:     normalize.Text(e.Back),
			Language: normalize.Language(e.Language),
			Category: normalize.Text(e.Category),
		}
		card.InitTimestamps()
		cards = append(cards, card)
	}

	if err := s.store.CreateCards(ctx, cards); err != nil {
		return 0, fmt.Errorf("import cards: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Cards imported",
			"owner_id", ownerID,
			"count", len(cards),
			"format", req.Format,
		)
	}

	return len(cards), nil
}

// ExportResult is a rendered export payload.
type ExportResult struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Export renders all of the owner's cards in the given format. An owner
// with no cards gets a valid empty document.
func (s *TransferService) Export(ctx context.Context, ownerID string, format Format) (*ExportResult, error) {
	if !format.Valid() {
		return nil, apperrors.Validationf("format must be one of: csv json")
	}

	cards, err := s.store.ListCards(ctx, ownerID, store.CardFilter{})
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	datestamp := time.Now().Format("2006-01-02")
	switch format {
	case FormatDelimited:
		return &ExportResult{
			Data:        transfer.MarshalDelimited(cards),
			ContentType: "text/csv; charset=utf-8",
			Filename:    fmt.Sprintf("flashcards-%s.csv", datestamp),
		}, nil
	default:
		data, err := transfer.MarshalStructured(cards)
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			Data:        data,
			ContentType: "application/json; charset=utf-8",
			Filename:    fmt.Sprintf("flashcards-%s.json", datestamp),
		}, nil
	}
}
