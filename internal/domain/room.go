// Package domain contains the entities shared across the server: rooms,
// connections, transcript events and dictionary entries. No transport or
// lifecycle logic here.
package domain

import "errors"

type RoomID string

// RoomCapacity is the number of participant slots in a room. The pairing
// logic (offer initiation, peer lookup) assumes exactly two roles.
const RoomCapacity = 2

var (
	ErrRoomExists   = errors.New("room already exists")
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room full")
)

// Room is a two-party session. Participants live in a fixed ordered slot
// pair: slot 0 is the creator/initiator, slot 1 the joiner.
type Room struct {
	ID     RoomID
	Public bool
	Lang   string

	slots [RoomCapacity]ConnID
	count int
}

func NewRoom(id RoomID, public bool, lang string) *Room {
	return &Room{ID: id, Public: public, Lang: lang}
}

func (r *Room) Count() int { return r.count }

func (r *Room) Has(id ConnID) bool {
	for i := 0; i < r.count; i++ {
		if r.slots[i] == id {
			return true
		}
	}
	return false
}

// Add appends the connection to the first free slot. Returns ErrRoomFull
// without mutation when both slots are taken.
func (r *Room) Add(id ConnID) error {
	if r.Has(id) {
		return nil
	}
	if r.count >= RoomCapacity {
		return ErrRoomFull
	}
	r.slots[r.count] = id
	r.count++
	return nil
}

// Remove drops the connection and compacts the slots, keeping order.
// Idempotent: removing an absent connection is a no-op.
func (r *Room) Remove(id ConnID) {
	for i := 0; i < r.count; i++ {
		if r.slots[i] == id {
			copy(r.slots[i:], r.slots[i+1:r.count])
			r.count--
			r.slots[r.count] = ""
			return
		}
	}
}

// Other returns the one participant that is not id. The zero value and
// false mean id is alone in the room (or not in it at all).
func (r *Room) Other(id ConnID) (ConnID, bool) {
	for i := 0; i < r.count; i++ {
		if r.slots[i] != id {
			return r.slots[i], true
		}
	}
	return "", false
}

// Participants returns the occupied slots in join order.
func (r *Room) Participants() []ConnID {
	out := make([]ConnID, r.count)
	copy(out, r.slots[:r.count])
	return out
}
