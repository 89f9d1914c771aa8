package transfer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashlearn/flashlearn-server/internal/domain"
	apperrors "github.com/flashlearn/flashlearn-server/internal/errors"
)

func TestParseDelimited(t *testing.T) {
	text := `Word,Meaning,Language,Category
"Hello","Hola","English","Greetings"
"Goodbye","Adiós","English","Greetings"`

	entries := ParseDelimited(text, "Spanish", "General")
	require.Len(t, entries, 2)
	assert.Equal(t, "Hello", entries[0].Front)
	assert.Equal(t, "Hola", entries[0].Back)
	// Row columns beyond front/back are ignored; defaults apply.
	assert.Equal(t, "Spanish", entries[0].Language)
	assert.Equal(t, "General", entries[0].Category)
	assert.Equal(t, "Goodbye", entries[1].Front)
}

func TestParseDelimitedHeaderAlwaysDiscarded(t *testing.T) {
	// Even a data-looking first line is treated as the header.
	entries := ParseDelimited("\"perro\",\"dog\"\n\"gato\",\"cat\"", "", "")
	require.Len(t, entries, 1)
	assert.Equal(t, "gato", entries[0].Front)
}

func TestParseDelimitedBareFields(t *testing.T) {
	entries := ParseDelimited("header\nperro, dog \ngato,cat", "", "")
	require.Len(t, entries, 2)
	assert.Equal(t, "perro", entries[0].Front)
	assert.Equal(t, "dog", entries[0].Back)
}

func TestParseDelimitedSkipsBadRows(t *testing.T) {
	text := `Word,Meaning
"only one field"
"","empty front"
"empty back",""
valid,row

"ok","fine"`

	entries := ParseDelimited(text, "", "")
	require.Len(t, entries, 2)
	assert.Equal(t, "valid", entries[0].Front)
	assert.Equal(t, "ok", entries[1].Front)
}

func TestParseDelimitedEmptyInput(t *testing.T) {
	assert.Empty(t, ParseDelimited("", "", ""))
	assert.Empty(t, ParseDelimited("just a header", "", ""))
}

func TestParseStructured(t *testing.T) {
	text := `[
  {"front": "Hello", "back": "Hola", "language": "English", "category": "Greetings"},
  {"front": "Bread", "back": "Pan"}
]`

	entries, err := ParseStructured(text, "Spanish", "Food")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Per-entry values win over batch defaults.
	assert.Equal(t, "English", entries[0].Language)
	assert.Equal(t, "Greetings", entries[0].Category)

	// Missing values fall back to the defaults.
	assert.Equal(t, "Spanish", entries[1].Language)
	assert.Equal(t, "Food", entries[1].Category)
}

func TestParseStructuredInvalidJSON(t *testing.T) {
	_, err := ParseStructured("{not json", "", "")
	require.Error(t, err)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeParse, appErr.Code)
}

func TestParseStructuredNonArray(t *testing.T) {
	// A valid JSON object is simply not a card batch.
	entries, err := ParseStructured(`{"front": "a", "back": "b"}`, "", "")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseStructuredSkipsIncompleteEntries(t *testing.T) {
	text := `[
  {"front": "", "back": "x"},
  {"front": "y"},
  {"back": "z"},
  42,
  {"front": "ok", "back": "vale"}
]`

	entries, err := ParseStructured(text, "", "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ok", entries[0].Front)
}

func makeExportCard(front, back string, reviewed int) *domain.Card {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Card{
		Record:        domain.Record{ID: "card-" + front, CreatedAt: now, UpdatedAt: now},
		OwnerID:       "user-1",
		Front:         front,
		Back:          back,
		Language:      "Spanish",
		Category:      "General",
		TimesReviewed: reviewed,
	}
}

func TestMarshalDelimited(t *testing.T) {
	cards := []*domain.Card{
		makeExportCard("perro", "dog", 3),
		makeExportCard("gato", "cat", 0),
	}

	out := string(MarshalDelimited(cards))
	want := "Word,Meaning,Language,Category,TimesReviewed\n" +
		`"perro","dog","Spanish","General","3"` + "\n" +
		`"gato","cat","Spanish","General","0"`
	assert.Equal(t, want, out)
}

func TestMarshalDelimitedEmpty(t *testing.T) {
	assert.Equal(t, "Word,Meaning,Language,Category,TimesReviewed", string(MarshalDelimited(nil)))
}

func TestMarshalStructuredEmpty(t *testing.T) {
	out, err := MarshalStructured(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}

func TestStructuredRoundTrip(t *testing.T) {
	cards := []*domain.Card{
		makeExportCard("perro", "dog", 3),
		makeExportCard("sol", "sun", 1),
	}

	out, err := MarshalStructured(cards)
	require.NoError(t, err)

	entries, err := ParseStructured(string(out), "fallback-lang", "fallback-cat")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for i, e := range entries {
		assert.Equal(t, cards[i].Front, e.Front)
		assert.Equal(t, cards[i].Back, e.Back)
		assert.Equal(t, cards[i].Language, e.Language)
		assert.Equal(t, cards[i].Category, e.Category)
	}
}
