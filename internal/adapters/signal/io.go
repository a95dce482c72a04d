package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/lekkas/callbridge/internal/domain"
)

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, cid domain.ConnID, c *wsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("readPump closing")
		ctl.Orch.OnDisconnect(cid)
		if ctl.Limiter != nil {
			ctl.Limiter.Forget(cid)
		}
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("readPump read error")
				return
			}
			ctl.dispatch(cid, c, data)
		}
	}
}

// dispatch routes one inbound event. Events for a connection are handled
// to completion in arrival order; only the translation fanout leaves this
// loop.
func (ctl *Controller) dispatch(cid domain.ConnID, c *wsConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	switch env.Type {
	case "create-room":
		ctl.handleCreateRoom(cid, c, data)
	case "join":
		ctl.handleJoin(cid, c, data)
	case "leave":
		ctl.handleLeave(cid, c, data)
	case "offer", "answer", "ice-candidate":
		ctl.handleRelay(cid, env.Type, data)
	case "transcript":
		ctl.handleTranscript(cid, data)
	case "get-active-meetings":
		ctl.handleGetActiveMeetings(c)
	case "agent-availability-changed":
		ctl.handleAvailability(cid, data)
	case "get-agents-online":
		ctl.handleGetAgentsOnline(c)
	case "ping":
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
	}
}

func (ctl *Controller) sendJSON(c *wsConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}
