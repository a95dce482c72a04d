package dictionary

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lekkas/callbridge/internal/domain"
)

func TestStorePersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "dictionary.json")

	s := NewStore(path)
	require.NoError(t, s.Load(), "missing file is an empty table")
	require.NoError(t, s.Add(domain.DictionaryEntry{
		English:   "invoice",
		Localized: map[string]string{"de": "Rechnung", "hi": "चालान"},
	}))
	require.NoError(t, s.Add(domain.DictionaryEntry{
		English:   "ledger",
		Localized: map[string]string{"es": "libro mayor"},
	}))

	reloaded := NewStore(path)
	require.NoError(t, reloaded.Load())
	entries := reloaded.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, "invoice", entries[0].English)
	require.Equal(t, "Rechnung", entries[0].Form("de"))
}

func TestStoreUpsertCaseInsensitive(t *testing.T) {
	s := NewStore("")
	require.NoError(t, s.Add(domain.DictionaryEntry{English: "Invoice", Localized: map[string]string{"de": "Rechnung"}}))
	require.NoError(t, s.Add(domain.DictionaryEntry{English: "invoice", Localized: map[string]string{"de": "Faktura"}}))

	entries := s.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "Faktura", entries[0].Form("de"))
}

func TestStoreDeleteAndClear(t *testing.T) {
	s := NewStore("")
	require.NoError(t, s.Add(domain.DictionaryEntry{English: "a", Localized: map[string]string{"de": "x"}}))
	require.NoError(t, s.Add(domain.DictionaryEntry{English: "b", Localized: map[string]string{"de": "y"}}))

	require.ErrorIs(t, s.Delete(5), ErrBadIndex)
	require.ErrorIs(t, s.Delete(-1), ErrBadIndex)

	require.NoError(t, s.Delete(0))
	entries := s.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "b", entries[0].English)

	require.NoError(t, s.Clear())
	require.Empty(t, s.Entries())
}

func TestStoreRejectsEmptyTerm(t *testing.T) {
	s := NewStore("")
	require.Error(t, s.Add(domain.DictionaryEntry{English: "  "}))
}
