// Package transcript buffers spoken-utterance and translation events per
// room and flushes them to durable, human-readable log files.
package transcript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lekkas/callbridge/internal/domain"
)

// Aggregator owns the per-room ordered buffers. Events are appended only,
// never mutated; a flush serializes the buffer to disk and clears it.
type Aggregator struct {
	mu        sync.Mutex
	dir       string
	retention time.Duration
	buffers   map[domain.RoomID][]domain.TranscriptEvent
}

func NewAggregator(dir string, retention time.Duration) *Aggregator {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &Aggregator{
		dir:       dir,
		retention: retention,
		buffers:   make(map[domain.RoomID][]domain.TranscriptEvent),
	}
}

// Append buffers the event under its room. Events without a room id are
// dropped.
func (a *Aggregator) Append(ev domain.TranscriptEvent) {
	if ev.RoomID == "" {
		log.Debug().Str("module", "transcript").Msg("dropped event without room id")
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	a.mu.Lock()
	a.buffers[ev.RoomID] = append(a.buffers[ev.RoomID], ev)
	a.mu.Unlock()
}

// Len reports the buffered event count for a room.
func (a *Aggregator) Len(roomID domain.RoomID) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.buffers[roomID])
}

// Flush writes the room's buffer to a transcript file and clears it. A
// no-op when the buffer is empty. The buffer is detached under the lock
// and written outside it, so a flush happens at most once per window.
func (a *Aggregator) Flush(roomID domain.RoomID) error {
	a.mu.Lock()
	events := a.buffers[roomID]
	delete(a.buffers, roomID)
	a.mu.Unlock()

	if len(events) == 0 {
		return nil
	}
	return a.write(roomID, events)
}

// FlushAll flushes every buffered room, for graceful shutdown.
func (a *Aggregator) FlushAll() {
	a.mu.Lock()
	detached := a.buffers
	a.buffers = make(map[domain.RoomID][]domain.TranscriptEvent)
	a.mu.Unlock()

	for roomID, events := range detached {
		if len(events) == 0 {
			continue
		}
		if err := a.write(roomID, events); err != nil {
			log.Error().Err(err).Str("module", "transcript").Str("room", string(roomID)).Msg("flush failed")
		}
	}
}

// Sweep flushes any room whose oldest buffered event exceeds the retention
// horizon, even while the room is still active. Subsequent events open a
// fresh buffer under a new file.
func (a *Aggregator) Sweep() {
	// Detach the expired buffers in one critical section so events appended
	// while writing land in the next window, not the one being closed.
	a.mu.Lock()
	cutoff := time.Now().Add(-a.retention)
	expired := make(map[domain.RoomID][]domain.TranscriptEvent)
	for roomID, events := range a.buffers {
		if len(events) > 0 && events[0].Timestamp.Before(cutoff) {
			expired[roomID] = events
			delete(a.buffers, roomID)
		}
	}
	a.mu.Unlock()

	for roomID, events := range expired {
		log.Info().Str("module", "transcript").Str("room", string(roomID)).Msg("retention flush")
		if err := a.write(roomID, events); err != nil {
			log.Error().Err(err).Str("module", "transcript").Str("room", string(roomID)).Msg("retention flush failed")
		}
	}
}

// Run sweeps on a fixed interval until ctx is done.
func (a *Aggregator) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Sweep()
		}
	}
}

func (a *Aggregator) write(roomID domain.RoomID, events []domain.TranscriptEvent) error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("transcript dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s.log", sanitize(string(roomID)), time.Now().UTC().Format("20060102T150405Z"))
	path := filepath.Join(a.dir, name)

	var b strings.Builder
	fmt.Fprintf(&b, "# transcript room=%s events=%d\n", roomID, len(events))
	for _, ev := range events {
		marker := ""
		if ev.Kind == domain.TranscriptTranslation {
			marker = fmt.Sprintf(" [translated %s->%s]", ev.SourceLang, ev.TargetLang)
		}
		fmt.Fprintf(&b, "%s [%s]%s %s\n", ev.Timestamp.UTC().Format(time.RFC3339), ev.Sender, marker, ev.Text)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	log.Info().Str("module", "transcript").Str("room", string(roomID)).Str("file", path).Int("events", len(events)).Msg("flushed transcript")
	return nil
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
