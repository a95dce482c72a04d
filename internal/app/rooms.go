package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/lekkas/callbridge/internal/core"
	"github.com/lekkas/callbridge/internal/domain"
)

// LeaveResult reports what a leave did, so the caller can notify the
// remaining peer and flush transcripts when the room died.
type LeaveResult struct {
	Removed bool
	Peer    domain.ConnID
	HasPeer bool
	Deleted bool
}

// RoomStore is the authoritative map of room-id to room state. All room
// lifecycle transitions go through it; a single mutex serializes them
// (room cardinality is expected to stay low).
type RoomStore struct {
	mu       sync.RWMutex
	rooms    map[domain.RoomID]*domain.Room
	capacity int
}

func NewRoomStore(capacity int) *RoomStore {
	if capacity <= 0 || capacity > domain.RoomCapacity {
		// Slot structure is fixed at two; the offer/answer pairing assumes it.
		capacity = domain.RoomCapacity
	}
	return &RoomStore{
		rooms:    make(map[domain.RoomID]*domain.Room),
		capacity: capacity,
	}
}

// Create pre-registers an empty room. Fails when the id is taken.
func (s *RoomStore) Create(id domain.RoomID, lang string, public bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; ok {
		return domain.ErrRoomExists
	}
	s.rooms[id] = domain.NewRoom(id, public, lang)
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("lang", lang).Msg("room created")
	return nil
}

// Join adds cid to the room. When the room is absent it is created only if
// isCreator is set; otherwise the outcome is JoinNotFound. A join beyond
// capacity yields JoinFull and leaves the room untouched. On JoinJoined the
// returned peer is the participant that must be signaled that its peer
// arrived.
func (s *RoomStore) Join(id domain.RoomID, cid domain.ConnID, isCreator, isPublic bool, lang string) (core.JoinOutcome, domain.ConnID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		if !isCreator {
			return core.JoinNotFound, ""
		}
		room = domain.NewRoom(id, isPublic, lang)
		s.rooms[id] = room
	}

	if room.Has(cid) {
		// Repeated join from the same connection is not a state change and
		// must not re-signal the peer.
		if room.Count() == 1 {
			return core.JoinCreated, ""
		}
		return core.JoinJoined, ""
	}

	if room.Count() >= s.capacity {
		return core.JoinFull, ""
	}

	if err := room.Add(cid); err != nil {
		return core.JoinFull, ""
	}
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("cid", string(cid)).Int("count", room.Count()).Msg("joined room")

	if room.Count() == 1 {
		return core.JoinCreated, ""
	}
	peer, _ := room.Other(cid)
	return core.JoinJoined, peer
}

// Leave removes cid from the room, idempotently. When the room empties it
// is deleted from the store.
func (s *RoomStore) Leave(id domain.RoomID, cid domain.ConnID) LeaveResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		return LeaveResult{}
	}
	if !room.Has(cid) {
		return LeaveResult{}
	}
	room.Remove(cid)

	res := LeaveResult{Removed: true}
	if peer, ok := room.Other(cid); ok {
		res.Peer = peer
		res.HasPeer = true
	}
	if room.Count() == 0 {
		delete(s.rooms, id)
		res.Deleted = true
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room deleted")
	} else {
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("cid", string(cid)).Msg("left room")
	}
	return res
}

// Peer returns the participant of the room that is not sender. The relay
// depends on this accessor and on the two-slot invariant.
func (s *RoomStore) Peer(id domain.RoomID, sender domain.ConnID) (domain.ConnID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return "", false
	}
	if !room.Has(sender) {
		// A connection outside the room gets nothing relayed into it.
		return "", false
	}
	return room.Other(sender)
}

// Lang returns the language tag of the room, if it exists.
func (s *RoomStore) Lang(id domain.RoomID) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return "", false
	}
	return room.Lang, true
}

// ListPublicActive snapshots all public rooms with at least one
// participant, for the presence broadcast.
func (s *RoomStore) ListPublicActive() []core.RoomInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(s.rooms))
	for id, room := range s.rooms {
		if !room.Public || room.Count() == 0 {
			continue
		}
		out = append(out, core.RoomInfo{
			RoomID:           id,
			ParticipantCount: room.Count(),
			Lang:             room.Lang,
		})
	}
	return out
}

func (s *RoomStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}
