package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flashlearn/flashlearn-server/internal/service"
)

func (s *Server) registerTransferRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "importCards",
		Method:      http.MethodPost,
		Path:        "/api/v1/cards/import",
		Summary:     "Import cards",
		Description: "Parses a CSV or JSON payload and creates the resulting cards in one batch",
		Tags:        []string{"Transfer"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleImportCards)

	huma.Register(s.api, huma.Operation{
		OperationID: "exportCards",
		Method:      http.MethodGet,
		Path:        "/api/v1/cards/export",
		Summary:     "Export cards",
		Description: "Downloads all of the current user's cards as a CSV or JSON file",
		Tags:        []string{"Transfer"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleExportCards)
}

// === DTOs ===

// ImportCardsRequest is the request body for a card import.
type ImportCardsRequest struct {
	Format   string `json:"format" validate:"required,oneof=csv json" doc:"Payload format (csv or json)"`
	Text     string `json:"text" validate:"required" doc:"Raw file contents"`
	Language string `json:"language,omitempty" validate:"omitempty,max=100" doc:"Default language for entries without one"`
	Category string `json:"category,omitempty" validate:"omitempty,max=100" doc:"Default category for entries without one"`
}

// ImportCardsInput wraps the import request for Huma.
type ImportCardsInput struct {
	Authorization string `header:"Authorization"`
	Body          ImportCardsRequest
}

// ImportCardsResponse contains the result of an import.
type ImportCardsResponse struct {
	Imported int `json:"imported" doc:"Number of cards created"`
}

// ImportCardsOutput wraps the import response for Huma.
type ImportCardsOutput struct {
	Body ImportCardsResponse
}

// ExportCardsInput contains parameters for exporting cards.
type ExportCardsInput struct {
	Authorization string `header:"Authorization"`
	Format        string `query:"format" doc:"Export format (csv or json), defaults to json"`
}

// ExportCardsOutput is a raw file download. The byte body skips the
// response envelope.
type ExportCardsOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// === Handlers ===

func (s *Server) handleImportCards(ctx context.Context, input *ImportCardsInput) (*ImportCardsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	count, err := s.services.Transfer.Import(ctx, userID, service.ImportRequest{
		Format:   service.Format(input.Body.Format),
		Text:     input.Body.Text,
		Language: input.Body.Language,
		Category: input.Body.Category,
	})
	if err != nil {
		return nil, err
	}

	return &ImportCardsOutput{Body: ImportCardsResponse{Imported: count}}, nil
}

func (s *Server) handleExportCards(ctx context.Context, input *ExportCardsInput) (*ExportCardsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	format := service.Format(input.Format)
	if input.Format == "" {
		format = service.FormatStructured
	}

	result, err := s.services.Transfer.Export(ctx, userID, format)
	if err != nil {
		return nil, err
	}

	return &ExportCardsOutput{
		ContentType:        result.ContentType,
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", result.Filename),
		Body:               result.Data,
	}, nil
}
