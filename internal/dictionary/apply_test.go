package dictionary

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lekkas/callbridge/internal/domain"
)

func storeWith(entries ...domain.DictionaryEntry) *Store {
	s := NewStore("")
	for _, e := range entries {
		_ = s.Add(e)
	}
	return s
}

func TestApplyLongestMatchFirst(t *testing.T) {
	s := storeWith(
		domain.DictionaryEntry{English: "color", Localized: map[string]string{"en": "colour"}},
		domain.DictionaryEntry{English: "colorful", Localized: map[string]string{"en": "colourful"}},
	)

	out := s.Apply("a colourful colour chart", "en")
	require.Equal(t, "a colorful color chart", out,
		"the longer localized form must win before the shorter one touches it")
}

func TestApplyWholeWordBoundary(t *testing.T) {
	s := storeWith(
		domain.DictionaryEntry{English: "invoice", Localized: map[string]string{"de": "Rechnung"}},
	)

	require.Equal(t, "die invoice bitte", s.Apply("die Rechnung bitte", "de"))
	// word-boundary match leaves compounds alone when a boundary hit exists elsewhere
	require.Equal(t, "invoice und Rechnungswesen", s.Apply("Rechnung und Rechnungswesen", "de"))
}

func TestApplySubstringFallback(t *testing.T) {
	// Devanagari has no ASCII word boundaries; the substring pass covers it.
	s := storeWith(
		domain.DictionaryEntry{English: "dashboard", Localized: map[string]string{"hi": "डैशबोर्ड"}},
	)
	require.Equal(t, "dashboard खोलें", s.Apply("डैशबोर्ड खोलें", "hi"))
}

func TestApplyCaseInsensitive(t *testing.T) {
	s := storeWith(
		domain.DictionaryEntry{English: "ledger", Localized: map[string]string{"es": "libro mayor"}},
	)
	require.Equal(t, "el ledger", s.Apply("el Libro Mayor", "es"))
}

func TestApplyIdempotentWhenNothingMatches(t *testing.T) {
	s := storeWith(
		domain.DictionaryEntry{English: "color", Localized: map[string]string{"en": "colour"}},
	)
	once := s.Apply("a colour chart", "en")
	require.Equal(t, once, s.Apply(once, "en"))

	untouched := "no localized terms here"
	require.Equal(t, untouched, s.Apply(untouched, "en"))
}

func TestApplySkipsEntriesWithoutForms(t *testing.T) {
	s := storeWith(
		domain.DictionaryEntry{English: "color", Localized: map[string]string{"fr": "couleur"}},
		domain.DictionaryEntry{English: "", Localized: map[string]string{"en": "ghost"}},
	)
	require.Equal(t, "colour and ghost", s.Apply("colour and ghost", "en"),
		"entries without a form for the target language, or without an English term, are ignored")
}

func TestApplyRegionSuffixOnTarget(t *testing.T) {
	s := storeWith(
		domain.DictionaryEntry{English: "color", Localized: map[string]string{"en": "colour"}},
	)
	require.Equal(t, "color", s.Apply("colour", "en-GB"))
}
