package translate

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// Gate is the circuit breaker in front of the backend: a process-wide
// liveness flag refreshed by a periodic probe and re-checked on demand when
// a call arrives while the flag is down. It never queues or retries.
type Gate struct {
	backend      Backend
	interval     time.Duration
	probeTimeout time.Duration
	healthy      atomic.Bool
}

func NewGate(backend Backend, interval time.Duration) *Gate {
	g := &Gate{
		backend:      backend,
		interval:     interval,
		probeTimeout: 5 * time.Second,
	}
	return g
}

func (g *Gate) Healthy() bool { return g.healthy.Load() }

// Allow reports whether a call may proceed. When the flag is down it
// probes once on demand; a failed probe keeps the gate shut.
func (g *Gate) Allow(ctx context.Context) bool {
	if g.healthy.Load() {
		return true
	}
	return g.probe(ctx)
}

func (g *Gate) probe(ctx context.Context) bool {
	pctx, cancel := withTimeout(ctx, g.probeTimeout)
	defer cancel()
	up := g.backend.Health(pctx)
	was := g.healthy.Swap(up)
	if was != up {
		log.Info().Str("module", "translate.gate").Bool("healthy", up).Msg("backend health changed")
	}
	return up
}

// Run probes on a fixed interval until ctx is done. Runs on its own timer,
// outside any connection's event handling.
func (g *Gate) Run(ctx context.Context) {
	g.probe(ctx)
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.probe(ctx)
		}
	}
}
