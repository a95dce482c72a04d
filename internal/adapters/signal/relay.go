package signal

import (
	"encoding/json"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/lekkas/callbridge/internal/core"
	"github.com/lekkas/callbridge/internal/domain"
)

// handleRelay forwards a negotiation payload to the room's other
// participant, verbatim and under the same event name. The payload shape
// is checked against the pion types before forwarding; the contents are
// never interpreted.
func (ctl *Controller) handleRelay(cid domain.ConnID, kind string, data []byte) {
	var env struct {
		Type      string          `json:"type"`
		RoomID    string          `json:"roomId"`
		Payload   json.RawMessage `json:"payload"`
		SDP       string          `json:"sdp,omitempty"`
		Candidate json.RawMessage `json:"candidate,omitempty"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("kind", kind).Msg("bad relay payload")
		return
	}
	if env.RoomID == "" {
		log.Debug().Str("module", "signal").Str("kind", kind).Msg("relay without room id dropped")
		return
	}

	switch kind {
	case "offer", "answer":
		if env.SDP == "" && len(env.Payload) > 0 {
			var sd webrtc.SessionDescription
			if err := json.Unmarshal(env.Payload, &sd); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("kind", kind).Msg("malformed session description")
				return
			}
		}
	case "ice-candidate":
		raw := env.Candidate
		if len(raw) == 0 {
			raw = env.Payload
		}
		if len(raw) > 0 {
			var ci webrtc.ICECandidateInit
			if err := json.Unmarshal(raw, &ci); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("malformed ice candidate")
				return
			}
		}
	}

	ctl.Orch.OnSignal(cid, domain.RoomID(env.RoomID), kind, core.Frame(data))
}
