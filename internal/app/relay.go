package app

import (
	"github.com/rs/zerolog/log"

	"github.com/lekkas/callbridge/internal/core"
	"github.com/lekkas/callbridge/internal/domain"
)

// Relay forwards negotiation payloads between the two members of a room.
// It holds no state of its own; correctness rests on the RoomStore's
// two-slot invariant.
type Relay struct {
	Rooms    *RoomStore
	Registry *Registry
}

// Forward delivers the frame as-is to the participant that is not sender.
// A missing room or absent peer is a silent drop, not an error: the peer
// may simply not have joined yet.
func (r *Relay) Forward(roomID domain.RoomID, sender domain.ConnID, kind string, frame core.Frame) {
	peer, ok := r.Rooms.Peer(roomID, sender)
	if !ok {
		log.Debug().Str("module", "app.relay").Str("room", string(roomID)).Str("kind", kind).Msg("relay dropped: no peer")
		return
	}
	sig, ok := r.Registry.Signal(peer)
	if !ok {
		log.Debug().Str("module", "app.relay").Str("room", string(roomID)).Str("kind", kind).Msg("relay dropped: peer has no signal")
		return
	}
	if err := sig.TrySend(frame); err != nil {
		log.Warn().Err(err).Str("module", "app.relay").Str("room", string(roomID)).Str("kind", kind).Msg("relay send failed")
	}
}
