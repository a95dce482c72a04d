package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lekkas/callbridge/internal/core"
	"github.com/lekkas/callbridge/internal/domain"
	"github.com/lekkas/callbridge/internal/translate"
)

type fakeSignal struct {
	mu     sync.Mutex
	frames []core.Frame
}

func (f *fakeSignal) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeSignal) Close() {}

func (f *fakeSignal) countType(t *testing.T, typ string) int {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, fr := range f.frames {
		var env struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(fr, &env))
		if env.Type == typ {
			n++
		}
	}
	return n
}

type fakeSink struct {
	mu      sync.Mutex
	events  []domain.TranscriptEvent
	flushes map[domain.RoomID]int
}

func newFakeSink() *fakeSink {
	return &fakeSink{flushes: make(map[domain.RoomID]int)}
}

func (s *fakeSink) Append(ev domain.TranscriptEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *fakeSink) Flush(roomID domain.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushes[roomID]++
	return nil
}

func (s *fakeSink) flushCount(roomID domain.RoomID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushes[roomID]
}

func (s *fakeSink) kinds() []domain.TranscriptKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.TranscriptKind, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Kind)
	}
	return out
}

type fakeTranslator struct {
	out   string
	err   error
	calls atomic.Int32
}

func (f *fakeTranslator) Translate(_ context.Context, req translate.Request) (translate.Result, error) {
	f.calls.Add(1)
	if f.err != nil {
		return translate.Result{}, f.err
	}
	return translate.Result{Text: f.out, Duration: time.Millisecond}, nil
}

type upperRewriter struct{}

func (upperRewriter) Apply(text, _ string) string { return "[dict]" + text }

func newTestOrchestrator(sink TranscriptSink) (*Orchestrator, *Registry) {
	registry := NewRegistry()
	rooms := NewRoomStore(2)
	return &Orchestrator{
		Registry:    registry,
		Rooms:       rooms,
		Relay:       &Relay{Rooms: rooms, Registry: registry},
		Presence:    &Presence{Registry: registry, Rooms: rooms},
		Transcripts: sink,
	}, registry
}

func bind(reg *Registry, cid domain.ConnID) *fakeSignal {
	sig := &fakeSignal{}
	reg.Bind(cid, sig, func() {})
	return sig
}

func TestPairingEndToEnd(t *testing.T) {
	sink := newFakeSink()
	orch, reg := newTestOrchestrator(sink)
	sigA := bind(reg, "A")
	sigB := bind(reg, "B")

	require.Equal(t, core.JoinCreated, orch.Join("A", "r1", true, true, "hi"))
	require.Equal(t, core.JoinJoined, orch.Join("B", "r1", false, true, ""))

	require.Equal(t, 1, sigA.countType(t, "user-joined"), "creator gets the peer-joined signal exactly once")
	require.Equal(t, 0, sigB.countType(t, "user-joined"))

	// offer relayed to B and only B
	offer := core.Frame(`{"type":"offer","roomId":"r1","sdp":"v=0"}`)
	orch.OnSignal("A", "r1", "offer", offer)
	require.Equal(t, 1, sigB.countType(t, "offer"))
	require.Equal(t, 0, sigA.countType(t, "offer"))

	orch.OnDisconnect("B")
	require.Equal(t, 1, sigA.countType(t, "user-left"))
	require.Empty(t, orch.Presence.ActiveMeetings())

	orch.OnDisconnect("A")
	require.Equal(t, 0, orch.Rooms.Count())
}

func TestDisconnectCancelsConnectionContext(t *testing.T) {
	sink := newFakeSink()
	orch, reg := newTestOrchestrator(sink)

	ctx, cancel := context.WithCancel(context.Background())
	reg.Bind("A", &fakeSignal{}, cancel)

	orch.OnDisconnect("A")

	select {
	case <-ctx.Done():
	default:
		t.Fatal("connection context still live after disconnect")
	}
	_, ok := reg.Get("A")
	require.False(t, ok)
}

func TestLeaveFlushesOnce(t *testing.T) {
	sink := newFakeSink()
	orch, reg := newTestOrchestrator(sink)
	bind(reg, "A")
	bind(reg, "B")

	orch.Join("A", "r1", true, true, "")
	orch.Join("B", "r1", false, true, "")
	orch.OnTranscript("A", domain.TranscriptEvent{RoomID: "r1", Sender: "agent", Kind: domain.TranscriptSpoken, Text: "hi"}, core.Frame(`{"type":"transcript","roomId":"r1"}`))

	orch.Leave("A", "r1")
	require.Equal(t, 0, sink.flushCount("r1"))

	orch.Leave("B", "r1")
	require.Equal(t, 1, sink.flushCount("r1"))

	// leave after deletion stays a no-op
	orch.Leave("B", "r1")
	require.Equal(t, 1, sink.flushCount("r1"))
}

func TestTranscriptWithoutRoomDropped(t *testing.T) {
	sink := newFakeSink()
	orch, reg := newTestOrchestrator(sink)
	bind(reg, "A")

	orch.OnTranscript("A", domain.TranscriptEvent{Sender: "agent", Text: "lost"}, core.Frame(`{"type":"transcript"}`))
	require.Empty(t, sink.kinds())
}

func TestTranslationFanout(t *testing.T) {
	sink := newFakeSink()
	orch, reg := newTestOrchestrator(sink)
	tr := &fakeTranslator{out: "namaste"}
	orch.Translator = tr
	orch.Rewriter = upperRewriter{}

	bind(reg, "A")
	sigB := bind(reg, "B")

	orch.Join("A", "r1", true, true, "hi")
	orch.Join("B", "r1", false, true, "")

	frame := core.Frame(`{"type":"transcript","roomId":"r1","sender":"agent","text":"hello","language":"en-US"}`)
	orch.OnTranscript("A", domain.TranscriptEvent{
		RoomID:     "r1",
		Sender:     "agent",
		Kind:       domain.TranscriptSpoken,
		Text:       "hello",
		SourceLang: "en-US",
	}, frame)

	// the spoken utterance reaches the peer immediately
	require.Equal(t, 1, sigB.countType(t, "transcript"))

	// the translation arrives out of band
	require.Eventually(t, func() bool {
		return sigB.countType(t, "transcript") == 2
	}, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return len(sink.kinds()) == 2
	}, time.Second, 10*time.Millisecond)

	require.Equal(t, []domain.TranscriptKind{domain.TranscriptSpoken, domain.TranscriptTranslation}, sink.kinds())

	sink.mu.Lock()
	translated := sink.events[1]
	sink.mu.Unlock()
	require.Equal(t, "[dict]namaste", translated.Text, "dictionary pass applies to orchestrator output")
	require.Equal(t, "en", translated.SourceLang)
	require.Equal(t, "hi", translated.TargetLang)
	require.Equal(t, int32(1), tr.calls.Load())
}

func TestNoTranslationWhenLanguagesMatch(t *testing.T) {
	sink := newFakeSink()
	orch, reg := newTestOrchestrator(sink)
	tr := &fakeTranslator{out: "x"}
	orch.Translator = tr

	bind(reg, "A")
	bind(reg, "B")
	orch.Join("A", "r1", true, true, "en")
	orch.Join("B", "r1", false, true, "")

	orch.OnTranscript("A", domain.TranscriptEvent{
		RoomID: "r1", Sender: "agent", Kind: domain.TranscriptSpoken,
		Text: "hello", SourceLang: "en-GB",
	}, core.Frame(`{"type":"transcript","roomId":"r1"}`))

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(0), tr.calls.Load(), "region variants of the room language are not translated")
}

func TestTranslationEchoNotRebroadcast(t *testing.T) {
	sink := newFakeSink()
	orch, reg := newTestOrchestrator(sink)
	bind(reg, "A")
	sigB := bind(reg, "B")

	orch.Join("A", "r1", true, true, "")
	orch.Join("B", "r1", false, true, "")

	orch.OnTranscript("A", domain.TranscriptEvent{
		RoomID: "r1", Sender: "agent", Kind: domain.TranscriptTranslation, Text: "echo",
	}, core.Frame(`{"type":"transcript","roomId":"r1","kind":"translation"}`))

	require.Equal(t, 0, sigB.countType(t, "transcript"))
	require.Equal(t, []domain.TranscriptKind{domain.TranscriptTranslation}, sink.kinds())
}

func TestTranslationFailureDoesNotReachPeer(t *testing.T) {
	sink := newFakeSink()
	orch, reg := newTestOrchestrator(sink)
	orch.Translator = &fakeTranslator{err: errors.New("backend down")}

	bind(reg, "A")
	sigB := bind(reg, "B")
	orch.Join("A", "r1", true, true, "hi")
	orch.Join("B", "r1", false, true, "")

	orch.OnTranscript("A", domain.TranscriptEvent{
		RoomID: "r1", Sender: "agent", Kind: domain.TranscriptSpoken,
		Text: "hello", SourceLang: "en",
	}, core.Frame(`{"type":"transcript","roomId":"r1"}`))

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 1, sigB.countType(t, "transcript"), "only the spoken event is delivered")
	require.Equal(t, []domain.TranscriptKind{domain.TranscriptSpoken}, sink.kinds())
}

func TestRelaySilentDropWithoutPeer(t *testing.T) {
	sink := newFakeSink()
	orch, reg := newTestOrchestrator(sink)
	sigA := bind(reg, "A")
	orch.Join("A", "r1", true, true, "")

	orch.OnSignal("A", "r1", "offer", core.Frame(`{"type":"offer","roomId":"r1"}`))
	orch.OnSignal("A", "ghost", "offer", core.Frame(`{"type":"offer","roomId":"ghost"}`))
	require.Equal(t, 0, sigA.countType(t, "offer"))
}

func TestRelayRejectsNonMember(t *testing.T) {
	sink := newFakeSink()
	orch, reg := newTestOrchestrator(sink)
	sigA := bind(reg, "A")
	sigB := bind(reg, "B")
	bind(reg, "C")

	orch.Join("A", "r1", true, true, "")
	orch.Join("B", "r1", false, true, "")

	// C never joined r1; nothing it sends may reach either member.
	orch.OnSignal("C", "r1", "offer", core.Frame(`{"type":"offer","roomId":"r1"}`))
	require.Equal(t, 0, sigA.countType(t, "offer"))
	require.Equal(t, 0, sigB.countType(t, "offer"))
}
