package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// studyState posts to a session operation and decodes the state envelope.
func (ts *testServer) studyState(t *testing.T, path, token string) StudyStateResponse {
	t.Helper()

	resp := ts.api.Post(path, bearer(token), map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code, "%s failed: %s", path, resp.Body.String())

	var envelope testEnvelope[StudyStateResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestStartStudySession(t *testing.T) {
	ts := setupTestServer(t)
	data := ts.registerTestUser(t, "alice@example.com")

	ts.createTestCard(t, data.AccessToken, map[string]any{"front": "uno", "back": "one"})
	ts.createTestCard(t, data.AccessToken, map[string]any{"front": "dos", "back": "two"})

	resp := ts.api.Post("/api/v1/study/session", bearer(data.AccessToken), map[string]any{
		"mode": "all",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[StudyStateResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	state := envelope.Data
	assert.Equal(t, "all", state.Mode)
	assert.Equal(t, 2, state.PoolSize)
	assert.Equal(t, 2, state.SourceSize)
	assert.NotNil(t, state.Card)
	assert.False(t, state.Revealed)
	assert.True(t, state.AtStart)
	assert.NotEmpty(t, state.SessionID)
}

func TestStartStudySession_NoCards(t *testing.T) {
	ts := setupTestServer(t)
	data := ts.registerTestUser(t, "alice@example.com")

	resp := ts.api.Post("/api/v1/study/session", bearer(data.AccessToken), map[string]any{
		"mode": "all",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestStudyState_RequiresActiveSession(t *testing.T) {
	ts := setupTestServer(t)
	data := ts.registerTestUser(t, "alice@example.com")

	resp := ts.api.Get("/api/v1/study/session", bearer(data.AccessToken))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestFlipCountsReview(t *testing.T) {
	ts := setupTestServer(t)
	data := ts.registerTestUser(t, "alice@example.com")

	ts.createTestCard(t, data.AccessToken, map[string]any{"front": "uno", "back": "one"})

	start := ts.api.Post("/api/v1/study/session", bearer(data.AccessToken), map[string]any{"mode": "all"})
	require.Equal(t, http.StatusOK, start.Code)

	flipped := ts.studyState(t, "/api/v1/study/session/flip", data.AccessToken)
	assert.True(t, flipped.Revealed)
	require.NotNil(t, flipped.Card)
	assert.Equal(t, 1, flipped.Card.TimesReviewed)

	// Flipping back does not count again on the same visit.
	hidden := ts.studyState(t, "/api/v1/study/session/flip", data.AccessToken)
	assert.False(t, hidden.Revealed)
	require.NotNil(t, hidden.Card)
	assert.Equal(t, 1, hidden.Card.TimesReviewed)
}

func TestNextAndPrevious(t *testing.T) {
	ts := setupTestServer(t)
	data := ts.registerTestUser(t, "alice@example.com")

	ts.createTestCard(t, data.AccessToken, map[string]any{"front": "uno", "back": "one"})
	ts.createTestCard(t, data.AccessToken, map[string]any{"front": "dos", "back": "two"})

	start := ts.api.Post("/api/v1/study/session", bearer(data.AccessToken), map[string]any{"mode": "all"})
	require.Equal(t, http.StatusOK, start.Code)

	next := ts.studyState(t, "/api/v1/study/session/next", data.AccessToken)
	assert.Equal(t, 1, next.Position)
	assert.True(t, next.AtEnd)

	// Clamped at the end.
	clamped := ts.studyState(t, "/api/v1/study/session/next", data.AccessToken)
	assert.Equal(t, 1, clamped.Position)

	prev := ts.studyState(t, "/api/v1/study/session/previous", data.AccessToken)
	assert.Equal(t, 0, prev.Position)
	assert.True(t, prev.AtStart)
}

func TestToggleLearnedKeepsCardInPool(t *testing.T) {
	ts := setupTestServer(t)
	data := ts.registerTestUser(t, "alice@example.com")

	ts.createTestCard(t, data.AccessToken, map[string]any{"front": "uno", "back": "one"})

	start := ts.api.Post("/api/v1/study/session", bearer(data.AccessToken), map[string]any{"mode": "unlearned"})
	require.Equal(t, http.StatusOK, start.Code)

	state := ts.studyState(t, "/api/v1/study/session/learned", data.AccessToken)
	require.NotNil(t, state.Card)
	assert.True(t, state.Card.Learned)
	assert.Equal(t, 1, state.PoolSize)
}

func TestSwitchStudyMode(t *testing.T) {
	ts := setupTestServer(t)
	data := ts.registerTestUser(t, "alice@example.com")

	card := ts.createTestCard(t, data.AccessToken, map[string]any{"front": "uno", "back": "one"})
	ts.createTestCard(t, data.AccessToken, map[string]any{"front": "dos", "back": "two"})

	patch := ts.api.Patch("/api/v1/cards/"+card.ID, bearer(data.AccessToken), map[string]any{"learned": true})
	require.Equal(t, http.StatusOK, patch.Code)

	start := ts.api.Post("/api/v1/study/session", bearer(data.AccessToken), map[string]any{"mode": "all"})
	require.Equal(t, http.StatusOK, start.Code)

	resp := ts.api.Put("/api/v1/study/session/mode", bearer(data.AccessToken), map[string]any{
		"mode": "learned",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[StudyStateResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "learned", envelope.Data.Mode)
	assert.Equal(t, 1, envelope.Data.PoolSize)
}

func TestSuggestLearnedWhenUnlearnedExhausted(t *testing.T) {
	ts := setupTestServer(t)
	data := ts.registerTestUser(t, "alice@example.com")

	card := ts.createTestCard(t, data.AccessToken, map[string]any{"front": "uno", "back": "one"})
	patch := ts.api.Patch("/api/v1/cards/"+card.ID, bearer(data.AccessToken), map[string]any{"learned": true})
	require.Equal(t, http.StatusOK, patch.Code)

	resp := ts.api.Post("/api/v1/study/session", bearer(data.AccessToken), map[string]any{"mode": "unlearned"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[StudyStateResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Zero(t, envelope.Data.PoolSize)
	assert.Nil(t, envelope.Data.Card)
	assert.True(t, envelope.Data.SuggestLearned)
}

func TestCloseStudySession(t *testing.T) {
	ts := setupTestServer(t)
	data := ts.registerTestUser(t, "alice@example.com")

	ts.createTestCard(t, data.AccessToken, map[string]any{"front": "uno", "back": "one"})

	start := ts.api.Post("/api/v1/study/session", bearer(data.AccessToken), map[string]any{"mode": "all"})
	require.Equal(t, http.StatusOK, start.Code)

	closed := ts.api.Delete("/api/v1/study/session", bearer(data.AccessToken))
	assert.Equal(t, http.StatusOK, closed.Code)

	state := ts.api.Get("/api/v1/study/session", bearer(data.AccessToken))
	assert.Equal(t, http.StatusNotFound, state.Code)
}

func TestStudySessions_PerUser(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.registerTestUser(t, "alice@example.com")
	bob := ts.registerTestUser(t, "bob@example.com")

	ts.createTestCard(t, alice.AccessToken, map[string]any{"front": "uno", "back": "one"})

	start := ts.api.Post("/api/v1/study/session", bearer(alice.AccessToken), map[string]any{"mode": "all"})
	require.Equal(t, http.StatusOK, start.Code)

	// Bob has no session of his own.
	resp := ts.api.Get("/api/v1/study/session", bearer(bob.AccessToken))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
