// Package signal is the WebSocket adapter for the connection-facing event
// channel: one upgraded connection per participant, JSON envelopes with a
// "type" discriminator, buffered writes with backpressure.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/lekkas/callbridge/internal/app"
	"github.com/lekkas/callbridge/internal/core"
	"github.com/lekkas/callbridge/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Orch      *app.Orchestrator
	Limiter   *app.JoinRateLimiter
	ReadLimit int64
}

func NewController(orch *app.Orchestrator, limiter *app.JoinRateLimiter, readLimit int64) *Controller {
	return &Controller{Orch: orch, Limiter: limiter, ReadLimit: readLimit}
}

type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the request and starts the pumps. The client token from
// the cookie middleware is the connection's opaque identity.
func (ctl *Controller) Handle(ctx context.Context, c *gin.Context) {
	cid := domain.ConnID(c.GetString("client_token"))
	log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.ReadLimit > 0 {
		ws.SetReadLimit(ctl.ReadLimit)
	}

	conn := &wsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	ctx, cancel := context.WithCancel(ctx)
	ctl.Orch.Registry.Bind(cid, conn, cancel)
	ctl.Orch.Presence.PushAgents()

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cid, conn)
}
