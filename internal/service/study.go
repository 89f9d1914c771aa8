package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/flashlearn/flashlearn-server/internal/domain"
	apperrors "github.com/flashlearn/flashlearn-server/internal/errors"
	"github.com/flashlearn/flashlearn-server/internal/store"
	"github.com/flashlearn/flashlearn-server/internal/study"
)

// writeThroughTimeout bounds each background card persist.
const writeThroughTimeout = 5 * time.Second

// StudyService manages live study sessions, one per user. All operations
// on a user's session are serialized; card mutations made while studying
// are persisted in the background and never block or roll back the
// session.
type StudyService struct {
	store  store.Store
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*study.Session
}

// NewStudyService creates a new study service.
func NewStudyService(store store.Store, logger *slog.Logger) *StudyService {
	return &StudyService{
		store:    store,
		logger:   logger,
		sessions: make(map[string]*study.Session),
	}
}

// recorder persists session card mutations for one user, fire and forget.
// Callbacks run under the service lock, so the patch snapshots the card's
// values here; the background write must not share memory with the live
// card, which later session calls keep mutating.
type recorder struct {
	svc     *StudyService
	ownerID string
}

func (r recorder) CardReviewed(card *domain.Card) {
	times := card.TimesReviewed
	patch := store.CardPatch{TimesReviewed: &times}
	if card.LastReviewedAt != nil {
		at := *card.LastReviewedAt
		patch.LastReviewedAt = &at
	}
	r.svc.writeThrough(r.ownerID, card.ID, patch)
}

func (r recorder) CardLearnedChanged(card *domain.Card) {
	learned := card.Learned
	patch := store.CardPatch{Learned: &learned}
	if card.LearnedAt != nil {
		at := *card.LearnedAt
		patch.LearnedAt = &at
	}
	r.svc.writeThrough(r.ownerID, card.ID, patch)
}

// writeThrough persists a patch in the background. Failures are logged;
// the in-memory session state is already updated and stays that way.
// Writes for the same card are not ordered, so a revisit's counter can
// land after a later one; each patch is internally consistent and the
// live session remains the source of truth until it closes.
func (s *StudyService) writeThrough(ownerID, cardID string, patch store.CardPatch) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeThroughTimeout)
		defer cancel()

		if _, err := s.store.UpdateCard(ctx, ownerID, cardID, patch); err != nil {
			if s.logger != nil {
				s.logger.Warn("Failed to persist study mutation",
					"owner_id", ownerID,
					"card_id", cardID,
					"error", err,
				)
			}
		}
	}()
}

// Start begins a new study session for the user, replacing any existing
// one. The session snapshots the user's cards at start time.
func (s *StudyService) Start(ctx context.Context, ownerID string, mode study.Mode) (study.State, error) {
	if !mode.Valid() {
		return study.State{}, apperrors.Validationf("mode must be one of: all unlearned learned")
	}

	cards, err := s.store.ListCards(ctx, ownerID, store.CardFilter{})
	if err != nil {
		return study.State{}, fmt.Errorf("list cards: %w", err)
	}

	session, err := study.New(cards, mode, study.WithRecorder(recorder{svc: s, ownerID: ownerID}))
	if err != nil {
		if errors.Is(err, study.ErrNoCards) {
			return study.State{}, apperrors.Validation("no cards to study; create or import cards first")
		}
		return study.State{}, err
	}

	s.mu.Lock()
	s.sessions[ownerID] = session
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("Study session started", "owner_id", ownerID, "mode", mode)
	}

	return session.State(), nil
}

// withSession runs fn against the user's live session under the service
// lock and returns the resulting state.
func (s *StudyService) withSession(ownerID string, fn func(*study.Session) error) (study.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[ownerID]
	if !ok {
		return study.State{}, apperrors.NotFound("no active study session")
	}
	if err := fn(session); err != nil {
		return study.State{}, err
	}
	return session.State(), nil
}

// State returns the current session state.
func (s *StudyService) State(ownerID string) (study.State, error) {
	return s.withSession(ownerID, func(*study.Session) error { return nil })
}

// Flip toggles the answer face of the current card.
func (s *StudyService) Flip(ownerID string) (study.State, error) {
	return s.withSession(ownerID, func(sess *study.Session) error {
		sess.Flip()
		return nil
	})
}

// Advance moves through the pool by delta, clamped to its bounds.
func (s *StudyService) Advance(ownerID string, delta int) (study.State, error) {
	return s.withSession(ownerID, func(sess *study.Session) error {
		sess.Advance(delta)
		return nil
	})
}

// Reshuffle re-permutes the current pool.
func (s *StudyService) Reshuffle(ownerID string) (study.State, error) {
	return s.withSession(ownerID, func(sess *study.Session) error {
		sess.Reshuffle()
		return nil
	})
}

// ToggleLearned flips the learned flag of the current card.
func (s *StudyService) ToggleLearned(ownerID string) (study.State, error) {
	return s.withSession(ownerID, func(sess *study.Session) error {
		sess.ToggleLearned()
		return nil
	})
}

// SwitchMode rebuilds the session pool under a new mode.
func (s *StudyService) SwitchMode(ownerID string, mode study.Mode) (study.State, error) {
	return s.withSession(ownerID, func(sess *study.Session) error {
		if !mode.Valid() {
			return apperrors.Validationf("mode must be one of: all unlearned learned")
		}
		return sess.SwitchMode(mode)
	})
}

// Close ends the user's study session. Closing without a session is not
// an error.
func (s *StudyService) Close(ownerID string) {
	s.mu.Lock()
	delete(s.sessions, ownerID)
	s.mu.Unlock()
}
