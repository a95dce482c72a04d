package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/lekkas/callbridge/internal/core"
	"github.com/lekkas/callbridge/internal/domain"
)

func (ctl *Controller) handleGetActiveMeetings(c *wsConn) {
	ctl.sendJSON(c, struct {
		Type     string          `json:"type"`
		Meetings []core.RoomInfo `json:"meetings"`
	}{"active-meetings", ctl.Orch.Presence.ActiveMeetings()})
}

func (ctl *Controller) handleGetAgentsOnline(c *wsConn) {
	ctl.sendJSON(c, struct {
		Type  string `json:"type"`
		Count int    `json:"count"`
	}{"agents-online", ctl.Orch.Presence.AgentsOnline()})
}

func (ctl *Controller) handleAvailability(cid domain.ConnID, data []byte) {
	var p struct {
		Type      string `json:"type"`
		Email     string `json:"email"`
		Available bool   `json:"available"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad availability payload")
		return
	}
	ctl.Orch.Registry.SetAvailability(cid, p.Email, p.Available)
	ctl.Orch.Presence.PushAgents()
}

func (ctl *Controller) handlePing(c *wsConn) {
	ctl.sendJSON(c, struct {
		Type string `json:"type"`
	}{"pong"})
}
