package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flashlearn/flashlearn-server/internal/study"
)

func (s *Server) registerStudyRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "startStudySession",
		Method:      http.MethodPost,
		Path:        "/api/v1/study/session",
		Summary:     "Start study session",
		Description: "Starts a new study session over the user's cards, replacing any existing one",
		Tags:        []string{"Study"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleStartStudySession)

	huma.Register(s.api, huma.Operation{
		OperationID: "getStudyState",
		Method:      http.MethodGet,
		Path:        "/api/v1/study/session",
		Summary:     "Get study state",
		Description: "Returns the current state of the active study session",
		Tags:        []string{"Study"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetStudyState)

	huma.Register(s.api, huma.Operation{
		OperationID: "closeStudySession",
		Method:      http.MethodDelete,
		Path:        "/api/v1/study/session",
		Summary:     "Close study session",
		Description: "Discards the active study session",
		Tags:        []string{"Study"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCloseStudySession)

	huma.Register(s.api, huma.Operation{
		OperationID: "flipCard",
		Method:      http.MethodPost,
		Path:        "/api/v1/study/session/flip",
		Summary:     "Flip card",
		Description: "Flips the current card. The first reveal per visit counts as a review",
		Tags:        []string{"Study"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFlipCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "nextCard",
		Method:      http.MethodPost,
		Path:        "/api/v1/study/session/next",
		Summary:     "Next card",
		Description: "Advances to the next card in the pool",
		Tags:        []string{"Study"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleNextCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "previousCard",
		Method:      http.MethodPost,
		Path:        "/api/v1/study/session/previous",
		Summary:     "Previous card",
		Description: "Steps back to the previous card in the pool",
		Tags:        []string{"Study"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handlePreviousCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "shuffleStudySession",
		Method:      http.MethodPost,
		Path:        "/api/v1/study/session/shuffle",
		Summary:     "Shuffle pool",
		Description: "Reshuffles the session pool and restarts from the beginning",
		Tags:        []string{"Study"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleShuffleStudySession)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleCardLearned",
		Method:      http.MethodPost,
		Path:        "/api/v1/study/session/learned",
		Summary:     "Toggle learned",
		Description: "Toggles the learned flag on the current card",
		Tags:        []string{"Study"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleCardLearned)

	huma.Register(s.api, huma.Operation{
		OperationID: "switchStudyMode",
		Method:      http.MethodPut,
		Path:        "/api/v1/study/session/mode",
		Summary:     "Switch study mode",
		Description: "Rebuilds the session pool for a different mode",
		Tags:        []string{"Study"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSwitchStudyMode)
}

// === DTOs ===

// StartStudySessionRequest is the request body for starting a session.
type StartStudySessionRequest struct {
	Mode string `json:"mode" validate:"required,oneof=all unlearned learned" doc:"Which cards to study"`
}

// StartStudySessionInput wraps the start request for Huma.
type StartStudySessionInput struct {
	Authorization string `header:"Authorization"`
	Body          StartStudySessionRequest
}

// StudyStateResponse describes the study session as seen by the client.
type StudyStateResponse struct {
	SessionID      string        `json:"session_id" doc:"Handle of the active session; changes when the session is replaced"`
	Mode           string        `json:"mode" doc:"Active study mode"`
	Card           *CardResponse `json:"card,omitempty" doc:"Current card, absent when the pool is empty"`
	Revealed       bool          `json:"revealed" doc:"Whether the back side is showing"`
	Position       int           `json:"position" doc:"Zero-based position in the pool"`
	PoolSize       int           `json:"pool_size" doc:"Number of cards in the pool"`
	SourceSize     int           `json:"source_size" doc:"Number of cards in the source snapshot"`
	AtStart        bool          `json:"at_start" doc:"Whether the session is at the first card"`
	AtEnd          bool          `json:"at_end" doc:"Whether the session is at the last card"`
	SuggestLearned bool          `json:"suggest_learned" doc:"Set when unlearned mode is exhausted but learned cards exist"`
}

// StudyStateOutput wraps the study state for Huma.
type StudyStateOutput struct {
	Body StudyStateResponse
}

// StudySessionInput contains parameters for operations on the active session.
type StudySessionInput struct {
	Authorization string `header:"Authorization"`
}

// SwitchStudyModeRequest is the request body for switching modes.
type SwitchStudyModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=all unlearned learned" doc:"New study mode"`
}

// SwitchStudyModeInput wraps the mode switch request for Huma.
type SwitchStudyModeInput struct {
	Authorization string `header:"Authorization"`
	Body          SwitchStudyModeRequest
}

// === Handlers ===

func (s *Server) handleStartStudySession(ctx context.Context, input *StartStudySessionInput) (*StudyStateOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	state, err := s.services.Study.Start(ctx, userID, study.Mode(input.Body.Mode))
	if err != nil {
		return nil, err
	}

	return mapStudyState(state), nil
}

func (s *Server) handleGetStudyState(ctx context.Context, input *StudySessionInput) (*StudyStateOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	state, err := s.services.Study.State(userID)
	if err != nil {
		return nil, err
	}

	return mapStudyState(state), nil
}

func (s *Server) handleCloseStudySession(ctx context.Context, input *StudySessionInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	s.services.Study.Close(userID)

	return &MessageOutput{Body: MessageResponse{Message: "Study session closed"}}, nil
}

func (s *Server) handleFlipCard(ctx context.Context, input *StudySessionInput) (*StudyStateOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	state, err := s.services.Study.Flip(userID)
	if err != nil {
		return nil, err
	}

	return mapStudyState(state), nil
}

func (s *Server) handleNextCard(ctx context.Context, input *StudySessionInput) (*StudyStateOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	state, err := s.services.Study.Advance(userID, 1)
	if err != nil {
		return nil, err
	}

	return mapStudyState(state), nil
}

func (s *Server) handlePreviousCard(ctx context.Context, input *StudySessionInput) (*StudyStateOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	state, err := s.services.Study.Advance(userID, -1)
	if err != nil {
		return nil, err
	}

	return mapStudyState(state), nil
}

func (s *Server) handleShuffleStudySession(ctx context.Context, input *StudySessionInput) (*StudyStateOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	state, err := s.services.Study.Reshuffle(userID)
	if err != nil {
		return nil, err
	}

	return mapStudyState(state), nil
}

func (s *Server) handleToggleCardLearned(ctx context.Context, input *StudySessionInput) (*StudyStateOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	state, err := s.services.Study.ToggleLearned(userID)
	if err != nil {
		return nil, err
	}

	return mapStudyState(state), nil
}

func (s *Server) handleSwitchStudyMode(ctx context.Context, input *SwitchStudyModeInput) (*StudyStateOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	state, err := s.services.Study.SwitchMode(userID, study.Mode(input.Body.Mode))
	if err != nil {
		return nil, err
	}

	return mapStudyState(state), nil
}

// === Helpers ===

func mapStudyState(state study.State) *StudyStateOutput {
	resp := StudyStateResponse{
		SessionID:      state.SessionID,
		Mode:           string(state.Mode),
		Revealed:       state.Revealed,
		Position:       state.Position,
		PoolSize:       state.PoolSize,
		SourceSize:     state.SourceSize,
		AtStart:        state.AtStart,
		AtEnd:          state.AtEnd,
		SuggestLearned: state.SuggestLearned,
	}

	if state.Card != nil {
		card := mapCardResponse(state.Card)
		resp.Card = &card
	}

	return &StudyStateOutput{Body: resp}
}
