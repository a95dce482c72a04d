package signal

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lekkas/callbridge/internal/core"
	"github.com/lekkas/callbridge/internal/domain"
)

func (ctl *Controller) handleTranscript(cid domain.ConnID, data []byte) {
	var p struct {
		Type      string `json:"type"`
		RoomID    string `json:"roomId"`
		Sender    string `json:"sender"`
		Kind      string `json:"kind,omitempty"`
		Text      string `json:"text"`
		Timestamp string `json:"timestamp,omitempty"`
		Language  string `json:"language,omitempty"`
		Target    string `json:"targetLanguage,omitempty"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad transcript payload")
		return
	}

	kind := domain.TranscriptSpoken
	if p.Kind == string(domain.TranscriptTranslation) {
		kind = domain.TranscriptTranslation
	}

	ts := time.Now().UTC()
	if p.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, p.Timestamp); err == nil {
			ts = parsed
		}
	}

	ev := domain.TranscriptEvent{
		RoomID:     domain.RoomID(p.RoomID),
		Sender:     p.Sender,
		Kind:       kind,
		Text:       p.Text,
		Timestamp:  ts,
		SourceLang: p.Language,
		TargetLang: p.Target,
	}
	ctl.Orch.OnTranscript(cid, ev, core.Frame(data))
}
