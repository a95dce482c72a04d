package core

import "github.com/lekkas/callbridge/internal/domain"

// Frame is a raw serialized event payload sent over a signal connection.
type Frame []byte

// SignalConnection abstracts the bidirectional messaging transport for one
// connection. Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// JoinOutcome is the result of a join attempt against the room store.
type JoinOutcome int

const (
	JoinCreated JoinOutcome = iota // first participant, room created or pre-registered empty
	JoinJoined                     // second participant, peer must be signaled
	JoinFull                       // capacity reached, room untouched
	JoinNotFound                   // absent room, no creator intent
)

func (o JoinOutcome) String() string {
	switch o {
	case JoinCreated:
		return "created"
	case JoinJoined:
		return "joined"
	case JoinFull:
		return "full"
	case JoinNotFound:
		return "no-room"
	}
	return "unknown"
}

// RoomInfo is a read-only view of one public active room for presence
// snapshots.
type RoomInfo struct {
	RoomID           domain.RoomID `json:"roomId"`
	ParticipantCount int           `json:"participantCount"`
	Lang             string        `json:"language,omitempty"`
}
