package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lekkas/callbridge/internal/core"
	"github.com/lekkas/callbridge/internal/domain"
	"github.com/lekkas/callbridge/internal/translate"
)

// Translator is the translation pipeline consumed by the orchestrator.
type Translator interface {
	Translate(ctx context.Context, req translate.Request) (translate.Result, error)
}

// TermRewriter is the dictionary post-processing pass applied to
// translation output before it is broadcast.
type TermRewriter interface {
	Apply(text, targetLang string) string
}

// TranscriptSink receives transcript events and flushes them on room
// teardown.
type TranscriptSink interface {
	Append(ev domain.TranscriptEvent)
	Flush(roomID domain.RoomID) error
}

// Orchestrator wires the registry, room store, relay, presence broadcaster
// and the translation pipeline behind the connection event handlers.
type Orchestrator struct {
	Registry    *Registry
	Rooms       *RoomStore
	Relay       *Relay
	Presence    *Presence
	Transcripts TranscriptSink
	Translator  Translator
	Rewriter    TermRewriter
}

// CreateRoom pre-registers an empty public room.
func (o *Orchestrator) CreateRoom(roomID domain.RoomID, lang string) error {
	return o.Rooms.Create(roomID, lang, true)
}

// Join runs the join transition and fans out its consequences: the peer of
// a completed pair gets exactly one user-joined signal, and the public-room
// snapshot is republished.
func (o *Orchestrator) Join(cid domain.ConnID, roomID domain.RoomID, isCreator, isPublic bool, lang string) core.JoinOutcome {
	outcome, peer := o.Rooms.Join(roomID, cid, isCreator, isPublic, lang)
	switch outcome {
	case core.JoinCreated, core.JoinJoined:
		o.Registry.UpdateRoom(cid, roomID)
		if peer != "" {
			// The original creator initiates the offer off this signal.
			o.notify(peer, struct {
				Type   string        `json:"type"`
				RoomID domain.RoomID `json:"roomId"`
			}{"user-joined", roomID})
		}
		o.Presence.PushMeetings()
	case core.JoinFull, core.JoinNotFound:
	}
	return outcome
}

// Leave removes the connection from the room, notifies the remaining peer
// and, when the room empties, flushes its transcript and deletes it.
// Idempotent: a second leave for the same pair is a no-op.
func (o *Orchestrator) Leave(cid domain.ConnID, roomID domain.RoomID) {
	res := o.Rooms.Leave(roomID, cid)
	if !res.Removed {
		return
	}
	o.Registry.ClearRoom(cid)
	if res.HasPeer {
		o.notify(res.Peer, struct {
			Type   string        `json:"type"`
			RoomID domain.RoomID `json:"roomId"`
		}{"user-left", roomID})
	}
	if res.Deleted {
		if err := o.Transcripts.Flush(roomID); err != nil {
			log.Error().Err(err).Str("module", "app.orch").Str("room", string(roomID)).Msg("transcript flush failed")
		}
	}
	o.Presence.PushMeetings()
}

// OnDisconnect tears down everything the connection owned.
func (o *Orchestrator) OnDisconnect(cid domain.ConnID) {
	if roomID, ok := o.Registry.RoomOf(cid); ok {
		o.Leave(cid, roomID)
	}
	o.Registry.Unbind(cid)
	o.Presence.PushAgents()
}

// OnSignal relays a negotiation payload to the room's other participant.
func (o *Orchestrator) OnSignal(cid domain.ConnID, roomID domain.RoomID, kind string, frame core.Frame) {
	o.Relay.Forward(roomID, cid, kind, frame)
}

// OnTranscript buffers the event, forwards spoken utterances to the peer
// verbatim (translation echoes are buffered only) and kicks off the
// out-of-band translation pipeline.
func (o *Orchestrator) OnTranscript(cid domain.ConnID, ev domain.TranscriptEvent, frame core.Frame) {
	if ev.RoomID == "" {
		log.Debug().Str("module", "app.orch").Str("cid", string(cid)).Msg("transcript without room id dropped")
		return
	}
	o.Transcripts.Append(ev)
	if ev.Kind == domain.TranscriptTranslation {
		return
	}
	o.Relay.Forward(ev.RoomID, cid, "transcript", frame)
	o.maybeTranslate(cid, ev)
}

// maybeTranslate launches translation when the utterance language and the
// room's language tag differ. The call runs off the event loop and holds no
// room-state lock while the backend is in flight.
func (o *Orchestrator) maybeTranslate(cid domain.ConnID, ev domain.TranscriptEvent) {
	if o.Translator == nil {
		return
	}
	roomLang, ok := o.Rooms.Lang(ev.RoomID)
	if !ok {
		return
	}
	src := translate.BaseLang(ev.SourceLang)
	dst := translate.BaseLang(roomLang)
	if src == "" || dst == "" || src == dst {
		return
	}
	go o.translateAndDeliver(cid, ev, src, dst)
}

func (o *Orchestrator) translateAndDeliver(cid domain.ConnID, ev domain.TranscriptEvent, src, dst string) {
	res, err := o.Translator.Translate(context.Background(), translate.Request{
		Text:       ev.Text,
		SourceLang: src,
		TargetLang: dst,
		RoomID:     string(ev.RoomID),
	})
	if err != nil {
		// Already classified and logged by the translation orchestrator;
		// a failed translation never tears down the live call.
		return
	}
	text := res.Text
	if o.Rewriter != nil {
		text = o.Rewriter.Apply(text, dst)
	}

	tev := domain.TranscriptEvent{
		RoomID:     ev.RoomID,
		Sender:     ev.Sender,
		Kind:       domain.TranscriptTranslation,
		Text:       text,
		Timestamp:  time.Now().UTC(),
		SourceLang: src,
		TargetLang: dst,
	}
	frame, err := json.Marshal(struct {
		Type string `json:"type"`
		domain.TranscriptEvent
	}{"transcript", tev})
	if err != nil {
		log.Error().Err(err).Str("module", "app.orch").Msg("marshal translation event")
		return
	}
	o.Relay.Forward(ev.RoomID, cid, "transcript", core.Frame(frame))
	o.Transcripts.Append(tev)
}

func (o *Orchestrator) notify(cid domain.ConnID, v any) {
	sig, ok := o.Registry.Signal(cid)
	if !ok {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.orch").Msg("marshal notify")
		return
	}
	if err := sig.TrySend(core.Frame(b)); err != nil {
		log.Warn().Err(err).Str("module", "app.orch").Str("cid", string(cid)).Msg("notify failed")
	}
}
