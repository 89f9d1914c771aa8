// Package transfer converts cards to and from interchange formats.
//
// Two formats are supported: a forgiving delimited (CSV-like) format for
// imports from spreadsheets, and a structured JSON format that round-trips
// full card data. Parsing is lenient by design: malformed rows are skipped,
// not fatal.
package transfer

import (
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/flashlearn/flashlearn-server/internal/domain"
	apperrors "github.com/flashlearn/flashlearn-server/internal/errors"
)

// Entry is a single card parsed from an import file. Only content fields
// are carried; identity and ownership are stamped at import time.
type Entry struct {
	Front    string `json:"front"`
	Back     string `json:"back"`
	Language string `json:"language,omitempty"`
	Category string `json:"category,omitempty"`
}

// fieldPattern tokenizes a delimited row into quoted or bare comma fields.
var fieldPattern = regexp.MustCompile(`"([^"]*)"|([^,]+)`)

// ParseDelimited parses CSV-like text into entries. The first line is
// always treated as a header and discarded. Rows with fewer than two
// usable fields, or with an empty front or back, are skipped silently.
// Language and category come from the batch defaults; extra row columns
// are ignored. An empty result is not an error.
func ParseDelimited(text, defaultLanguage, defaultCategory string) []Entry {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	var entries []Entry
	for i, line := range lines {
		if i == 0 {
			continue
		}

		matches := fieldPattern.FindAllStringSubmatch(line, -1)
		if len(matches) < 2 {
			continue
		}

		front := cleanField(matches[0])
		back := cleanField(matches[1])
		if front == "" || back == "" {
			continue
		}

		entries = append(entries, Entry{
			Front:    front,
			Back:     back,
			Language: defaultLanguage,
			Category: defaultCategory,
		})
	}

	return entries
}

// cleanField extracts the field value from a tokenizer match.
func cleanField(match []string) string {
	if match[1] != "" || strings.HasPrefix(match[0], `"`) {
		return strings.TrimSpace(match[1])
	}
	return strings.TrimSpace(match[2])
}

// ParseStructured parses a JSON array of card objects into entries.
// Invalid JSON is a PARSE error; a valid non-array document yields an
// empty result without error. Entries need a non-empty front and back;
// per-entry language and category override the batch defaults.
func ParseStructured(text, defaultLanguage, defaultCategory string) ([]Entry, error) {
	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, apperrors.Parse("invalid JSON").WithCause(err)
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, nil
	}

	var entries []Entry
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}

		front, _ := obj["front"].(string)
		back, _ := obj["back"].(string)
		if front == "" || back == "" {
			continue
		}

		language, _ := obj["language"].(string)
		if language == "" {
			language = defaultLanguage
		}
		category, _ := obj["category"].(string)
		if category == "" {
			category = defaultCategory
		}

		entries = append(entries, Entry{
			Front:    front,
			Back:     back,
			Language: language,
			Category: category,
		})
	}

	return entries, nil
}

// MarshalStructured renders cards as a pretty-printed JSON array with full
// fidelity; the output round-trips through ParseStructured. An empty set
// renders as "[]".
func MarshalStructured(cards []*domain.Card) ([]byte, error) {
	if cards == nil {
		cards = []*domain.Card{}
	}
	out, err := json.Marshal(cards, jsontext.WithIndent("  "))
	if err != nil {
		return nil, fmt.Errorf("marshal cards: %w", err)
	}
	return out, nil
}

// delimitedHeader is the fixed header row of the delimited export.
const delimitedHeader = "Word,Meaning,Language,Category,TimesReviewed"

// MarshalDelimited renders cards in the delimited export format: a fixed
// header row, then one row per card with every field quote-wrapped.
// Quotes inside values are not escaped; the format is documented as lossy.
// An empty set renders as the header alone.
func MarshalDelimited(cards []*domain.Card) []byte {
	rows := lo.Map(cards, func(c *domain.Card, _ int) string {
		fields := []string{c.Front, c.Back, c.Language, c.Category, fmt.Sprintf("%d", c.TimesReviewed)}
		quoted := lo.Map(fields, func(f string, _ int) string {
			return `"` + f + `"`
		})
		return strings.Join(quoted, ",")
	})

	lines := append([]string{delimitedHeader}, rows...)
	return []byte(strings.Join(lines, "\n"))
}
