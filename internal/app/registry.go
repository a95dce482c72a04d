package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/lekkas/callbridge/internal/core"
	"github.com/lekkas/callbridge/internal/domain"
)

type connEntry struct {
	Conn   *domain.Connection
	Signal core.SignalConnection
	RoomID domain.RoomID
	Cancel context.CancelFunc
}

// Registry tracks every live connection and its ephemeral attributes.
// Entries are destroyed on disconnect.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[domain.ConnID]*connEntry)}
}

func (r *Registry) Bind(cid domain.ConnID, sig core.SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[cid] = &connEntry{
		Conn:   domain.NewConnection(cid),
		Signal: sig,
		Cancel: cancel,
	}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("bound connection")
}

// Unbind destroys the entry and cancels the connection's derived context,
// releasing it from the server root context.
func (r *Registry) Unbind(cid domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[cid]
	if !ok {
		return
	}
	delete(r.conns, cid)
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("unbound connection")
}

func (r *Registry) Get(cid domain.ConnID) (*domain.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[cid]; ok {
		return e.Conn, true
	}
	return nil, false
}

func (r *Registry) Signal(cid domain.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[cid]; ok && e.Signal != nil {
		return e.Signal, true
	}
	return nil, false
}

// SetAvailability records the declared email and availability flag for an
// agent connection.
func (r *Registry) SetAvailability(cid domain.ConnID, email string, available bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[cid]
	if !ok {
		return
	}
	if err := e.Conn.SetEmail(email); err != nil {
		log.Warn().Err(err).Str("module", "app.registry").Str("cid", string(cid)).Msg("rejected email")
	}
	e.Conn.Available = available
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Bool("available", available).Msg("availability changed")
}

// AvailableCount is the number of connections currently flagged available.
func (r *Registry) AvailableCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, e := range r.conns {
		if e.Conn.Available {
			n++
		}
	}
	return n
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

func (r *Registry) RoomOf(cid domain.ConnID) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[cid]
	if !ok || e.RoomID == "" {
		return "", false
	}
	return e.RoomID, true
}

func (r *Registry) UpdateRoom(cid domain.ConnID, roomID domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.conns[cid]; ok {
		e.RoomID = roomID
	}
}

func (r *Registry) ClearRoom(cid domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.conns[cid]; ok {
		e.RoomID = ""
	}
}

// Signals snapshots every live signal connection, for untargeted pushes.
func (r *Registry) Signals() []core.SignalConnection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.SignalConnection, 0, len(r.conns))
	for _, e := range r.conns {
		if e.Signal != nil {
			out = append(out, e.Signal)
		}
	}
	return out
}
