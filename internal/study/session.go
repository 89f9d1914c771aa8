// Package study implements the in-memory flashcard study session.
//
// A session takes a snapshot of a user's cards, filters it by mode, and
// walks a shuffled pool one card at a time. Review and learned mutations
// are applied to the in-memory cards immediately and reported to a
// Recorder for persistence; the session never waits on or rolls back
// those writes.
package study

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/flashlearn/flashlearn-server/internal/domain"
)

// ErrNoCards is returned when a session is started with no cards at all.
// An empty filtered pool is not an error; only an empty source set is.
var ErrNoCards = errors.New("no cards to study")

// Mode selects which cards make up the study pool.
type Mode string

const (
	ModeAll       Mode = "all"
	ModeUnlearned Mode = "unlearned"
	ModeLearned   Mode = "learned"
)

// Valid reports whether the mode is one of the known values.
func (m Mode) Valid() bool {
	switch m {
	case ModeAll, ModeUnlearned, ModeLearned:
		return true
	}
	return false
}

// matches reports whether a card belongs in this mode's pool.
func (m Mode) matches(c *domain.Card) bool {
	switch m {
	case ModeUnlearned:
		return !c.Learned
	case ModeLearned:
		return c.Learned
	default:
		return true
	}
}

// Recorder receives card mutations made during a session. Implementations
// decide how (and whether) to persist them; the session does not inspect
// the outcome.
type Recorder interface {
	CardReviewed(card *domain.Card)
	CardLearnedChanged(card *domain.Card)
}

// noopRecorder discards all mutations.
type noopRecorder struct{}

func (noopRecorder) CardReviewed(*domain.Card)       {}
func (noopRecorder) CardLearnedChanged(*domain.Card) {}

// Session is a single user's study session. It is not safe for concurrent
// use; callers serialize access.
type Session struct {
	id       string
	mode     Mode
	source   []*domain.Card
	pool     []*domain.Card
	position int
	revealed bool

	// reviewRecorded guards the per-visit review increment: flipping the
	// same card back and forth counts one review, not one per flip.
	reviewRecorded bool

	rng      *rand.Rand
	recorder Recorder
	now      func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithRand sets the random source used for shuffling. Tests inject a
// seeded source for deterministic pools.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithRecorder sets the recorder notified of card mutations.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithClock sets the time source. Tests use a fixed clock.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New starts a session over a snapshot of the given cards.
// Returns ErrNoCards when the source set is empty; a mode whose filtered
// pool is empty is a valid session.
func New(cards []*domain.Card, mode Mode, opts ...Option) (*Session, error) {
	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	if !mode.Valid() {
		return nil, errors.New("invalid study mode: " + string(mode))
	}

	// Snapshot card values so later edits elsewhere don't leak in.
	source := lo.Map(cards, func(c *domain.Card, _ int) *domain.Card {
		clone := *c
		return &clone
	})

	s := &Session{
		id:       uuid.NewString(),
		mode:     mode,
		source:   source,
		recorder: noopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	s.derivePool()
	return s, nil
}

// derivePool rebuilds and shuffles the pool from the source snapshot.
func (s *Session) derivePool() {
	s.pool = lo.Filter(s.source, func(c *domain.Card, _ int) bool {
		return s.mode.matches(c)
	})
	s.rng.Shuffle(len(s.pool), func(i, j int) {
		s.pool[i], s.pool[j] = s.pool[j], s.pool[i]
	})
	s.position = 0
	s.revealed = false
	s.reviewRecorded = false
}

// Current returns the card at the current position, or nil when the pool
// is empty.
func (s *Session) Current() *domain.Card {
	if len(s.pool) == 0 {
		return nil
	}
	return s.pool[s.position]
}

// Flip toggles the answer face of the current card. The first reveal of a
// card visit records a review: the counter increments, last-reviewed is
// stamped, and the recorder is notified. Further flips on the same visit
// only toggle the face.
func (s *Session) Flip() {
	card := s.Current()
	if card == nil {
		return
	}

	s.revealed = !s.revealed
	if s.revealed && !s.reviewRecorded {
		card.MarkReviewed(s.now())
		card.Touch()
		s.reviewRecorded = true
		s.recorder.CardReviewed(card)
	}
}

// Advance moves the position by delta, clamped to the pool bounds; there
// is no wraparound. Moving to a new card hides the answer and arms the
// review counter for the next reveal.
func (s *Session) Advance(delta int) {
	if len(s.pool) == 0 {
		return
	}

	next := s.position + delta
	if next < 0 {
		next = 0
	}
	if next > len(s.pool)-1 {
		next = len(s.pool) - 1
	}
	if next == s.position {
		return
	}

	s.position = next
	s.revealed = false
	s.reviewRecorded = false
}

// Reshuffle re-permutes the current pool without refiltering, and resets
// position and reveal state.
func (s *Session) Reshuffle() {
	s.rng.Shuffle(len(s.pool), func(i, j int) {
		s.pool[i], s.pool[j] = s.pool[j], s.pool[i]
	})
	s.position = 0
	s.revealed = false
	s.reviewRecorded = false
}

// ToggleLearned flips the learned flag of the current card and notifies
// the recorder. The card keeps its place in the pool even when the mode
// filter would now exclude it; the pool only refilters on SwitchMode.
func (s *Session) ToggleLearned() {
	card := s.Current()
	if card == nil {
		return
	}

	card.SetLearned(!card.Learned, s.now())
	card.Touch()
	s.recorder.CardLearnedChanged(card)
}

// SwitchMode rebuilds the pool from the retained source snapshot under a
// new mode.
func (s *Session) SwitchMode(mode Mode) error {
	if !mode.Valid() {
		return errors.New("invalid study mode: " + string(mode))
	}
	s.mode = mode
	s.derivePool()
	return nil
}

// ID returns the session's unique handle. A replaced session gets a new
// handle, so clients can detect that their view is stale.
func (s *Session) ID() string {
	return s.id
}

// State is a point-in-time view of the session for presentation.
type State struct {
	SessionID  string       `json:"session_id"`
	Mode       Mode         `json:"mode"`
	Card       *domain.Card `json:"card,omitempty"`
	Revealed   bool         `json:"revealed"`
	Position   int          `json:"position"`
	PoolSize   int          `json:"pool_size"`
	SourceSize int          `json:"source_size"`
	AtStart    bool         `json:"at_start"`
	AtEnd      bool         `json:"at_end"`

	// SuggestLearned is set when an unlearned-mode pool is empty but
	// learned cards exist, so the client can offer switching modes.
	SuggestLearned bool `json:"suggest_learned"`
}

// State returns the current session state.
func (s *Session) State() State {
	st := State{
		SessionID:  s.id,
		Mode:       s.mode,
		Card:       s.Current(),
		Revealed:   s.revealed,
		Position:   s.position,
		PoolSize:   len(s.pool),
		SourceSize: len(s.source),
		AtStart:    s.position == 0,
		AtEnd:      s.position >= len(s.pool)-1,
	}
	if len(s.pool) == 0 {
		st.AtStart = true
		st.AtEnd = true
		if s.mode == ModeUnlearned {
			st.SuggestLearned = lo.SomeBy(s.source, func(c *domain.Card) bool {
				return c.Learned
			})
		}
	}
	return st
}

// Mode returns the session's current mode.
func (s *Session) Mode() Mode {
	return s.mode
}
