package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/lekkas/callbridge/internal/domain"
)

const maxRoomIDLen = 64

func (ctl *Controller) handleCreateRoom(cid domain.ConnID, c *wsConn, data []byte) {
	var p struct {
		Type   string `json:"type"`
		RoomID string `json:"roomId"`
		Lang   string `json:"language,omitempty"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" || len(p.RoomID) > maxRoomIDLen {
		ctl.sendJSON(c, map[string]any{
			"type":    "create-room-result",
			"success": false,
			"error":   "bad_payload",
		})
		return
	}

	if err := ctl.Orch.CreateRoom(domain.RoomID(p.RoomID), p.Lang); err != nil {
		msg := "internal"
		if errors.Is(err, domain.ErrRoomExists) {
			msg = "room already exists"
		}
		ctl.sendJSON(c, map[string]any{
			"type":    "create-room-result",
			"success": false,
			"roomId":  p.RoomID,
			"error":   msg,
		})
		return
	}
	ctl.sendJSON(c, map[string]any{
		"type":    "create-room-result",
		"success": true,
		"roomId":  p.RoomID,
	})
}

func (ctl *Controller) handleJoin(cid domain.ConnID, c *wsConn, data []byte) {
	var p struct {
		Type      string `json:"type"`
		RoomID    string `json:"roomId"`
		IsCreator bool   `json:"isCreator"`
		IsPublic  *bool  `json:"isPublic,omitempty"`
		Lang      string `json:"language,omitempty"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" || len(p.RoomID) > maxRoomIDLen {
		ctl.sendJSON(c, map[string]any{"type": "error", "error": "bad_payload"})
		return
	}

	if ctl.Limiter != nil && !ctl.Limiter.Allow(cid) {
		log.Warn().Str("module", "signal").Str("cid", string(cid)).Msg("join rate limited")
		ctl.sendJSON(c, map[string]any{"type": "error", "error": "too many join attempts"})
		return
	}

	// Visibility defaults to public unless explicitly private.
	public := true
	if p.IsPublic != nil {
		public = *p.IsPublic
	}

	outcome := ctl.Orch.Join(cid, domain.RoomID(p.RoomID), p.IsCreator, public, p.Lang)
	ctl.sendJSON(c, struct {
		Type   string `json:"type"`
		RoomID string `json:"roomId"`
	}{outcome.String(), p.RoomID})
}

func (ctl *Controller) handleLeave(cid domain.ConnID, c *wsConn, data []byte) {
	var p struct {
		Type   string `json:"type"`
		RoomID string `json:"roomId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.sendJSON(c, map[string]any{"type": "error", "error": "bad_payload"})
		return
	}

	roomID := domain.RoomID(p.RoomID)
	if roomID == "" {
		if current, ok := ctl.Orch.Registry.RoomOf(cid); ok {
			roomID = current
		}
	}
	if roomID == "" {
		return
	}
	log.Info().Str("module", "signal").Str("cid", string(cid)).Str("room", string(roomID)).Msg("leave")
	ctl.Orch.Leave(cid, roomID)
	ctl.sendJSON(c, map[string]any{"type": "left", "roomId": string(roomID)})
}
