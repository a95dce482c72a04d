package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/lekkas/callbridge/internal/core"
)

// Presence pushes the agents-online count and the public-room snapshot to
// every live connection. Pushes are untargeted: any connection may be
// browsing for an open room or watching agent availability.
type Presence struct {
	Registry *Registry
	Rooms    *RoomStore
}

func (p *Presence) AgentsOnline() int {
	return p.Registry.AvailableCount()
}

func (p *Presence) ActiveMeetings() []core.RoomInfo {
	return p.Rooms.ListPublicActive()
}

// PushAgents broadcasts the current agents-online count to all connections.
func (p *Presence) PushAgents() {
	p.pushAll(struct {
		Type  string `json:"type"`
		Count int    `json:"count"`
	}{
		Type:  "agents-online",
		Count: p.AgentsOnline(),
	})
}

// PushMeetings broadcasts the public active-room snapshot to all
// connections.
func (p *Presence) PushMeetings() {
	p.pushAll(struct {
		Type     string          `json:"type"`
		Meetings []core.RoomInfo `json:"meetings"`
	}{
		Type:     "active-meetings",
		Meetings: p.ActiveMeetings(),
	})
}

func (p *Presence) pushAll(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.presence").Msg("marshal push")
		return
	}
	for _, sig := range p.Registry.Signals() {
		// Slow consumers just miss this push; the next state change
		// resends the full snapshot anyway.
		_ = sig.TrySend(core.Frame(b))
	}
}
