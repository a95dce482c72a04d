package translate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// logTailSize bounds the in-memory tail served by /api/translation-logs.
const logTailSize = 500

// LogEntry is one translation call, success or failure.
type LogEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	RoomID     string    `json:"roomId"`
	SourceLang string    `json:"sourceLang"`
	TargetLang string    `json:"targetLang"`
	Input      string    `json:"input"`
	Output     string    `json:"output,omitempty"`
	DurationMs int64     `json:"durationMs"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	Accuracy   *float64  `json:"accuracy,omitempty"`
}

// LogStore keeps a bounded in-memory tail of call records and appends each
// one to a JSONL file. Write failures are logged and swallowed: durability
// is best-effort and must never block the live call.
type LogStore struct {
	mu      sync.Mutex
	path    string
	entries []LogEntry
}

func NewLogStore(path string) *LogStore {
	return &LogStore{path: path}
}

func (s *LogStore) Append(e LogEntry) {
	s.mu.Lock()
	s.entries = append(s.entries, e)
	if len(s.entries) > logTailSize {
		s.entries = s.entries[len(s.entries)-logTailSize:]
	}
	s.mu.Unlock()

	if s.path == "" {
		return
	}
	b, err := json.Marshal(e)
	if err != nil {
		log.Error().Err(err).Str("module", "translate.log").Msg("marshal log entry")
		return
	}
	if err := appendLine(s.path, b); err != nil {
		log.Error().Err(err).Str("module", "translate.log").Str("path", s.path).Msg("append log entry")
	}
}

// Tail returns the retained entries, oldest first.
func (s *LogStore) Tail() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LogEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func appendLine(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(b, '\n'))
	return err
}
