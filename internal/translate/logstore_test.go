package translate

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLogStoreAppendsJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "calls.jsonl")
	s := NewLogStore(path)

	s.Append(LogEntry{Timestamp: time.Now().UTC(), RoomID: "room42", Status: "ok", Input: "hello"})
	s.Append(LogEntry{Timestamp: time.Now().UTC(), RoomID: "room42", Status: "timeout"})

	require.Len(t, s.Tail(), 2)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []LogEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e LogEntry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		lines = append(lines, e)
	}
	require.Len(t, lines, 2)
	require.Equal(t, "ok", lines[0].Status)
	require.Equal(t, "timeout", lines[1].Status)
}

func TestLogStoreTailBounded(t *testing.T) {
	s := NewLogStore("")
	for i := 0; i < logTailSize+25; i++ {
		s.Append(LogEntry{Status: "ok"})
	}
	require.Len(t, s.Tail(), logTailSize)
}
