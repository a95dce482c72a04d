// Package dictionary holds the enterprise terminology table and the
// post-translation substitution pass that normalizes localized terms back
// to canonical English.
package dictionary

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/lekkas/callbridge/internal/domain"
)

var ErrBadIndex = errors.New("dictionary index out of range")

// Store is the mutable terminology table. Every mutation persists the full
// table synchronously before reporting success.
type Store struct {
	mu      sync.RWMutex
	path    string
	entries []domain.DictionaryEntry
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted table. A missing file is an empty table, not an
// error.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read dictionary: %w", err)
	}
	var entries []domain.DictionaryEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return fmt.Errorf("parse dictionary: %w", err)
	}
	s.entries = entries
	log.Info().Str("module", "dictionary").Int("entries", len(entries)).Msg("loaded dictionary")
	return nil
}

// Add upserts, keyed on the case-insensitive canonical English term.
func (s *Store) Add(e domain.DictionaryEntry) error {
	if strings.TrimSpace(e.English) == "" {
		return errors.New("empty english term")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(e.English)
	for i := range s.entries {
		if strings.ToLower(s.entries[i].English) == key {
			s.entries[i] = e
			return s.persistLocked()
		}
	}
	s.entries = append(s.entries, e)
	return s.persistLocked()
}

func (s *Store) Delete(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.entries) {
		return ErrBadIndex
	}
	s.entries = append(s.entries[:index], s.entries[index+1:]...)
	return s.persistLocked()
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return s.persistLocked()
}

func (s *Store) Entries() []domain.DictionaryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DictionaryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}
	b, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dictionary: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("persist dictionary: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("persist dictionary: %w", err)
	}
	return nil
}
