package state

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Factory builds the container of a session. The id doubles as the storage
// namespace of the persisted user.
type Factory func(sessionID string) *Container

// Gauge is the part of a prometheus gauge the registry reports its size to.
type Gauge interface {
	Set(float64)
}

// restoreTimeout bounds loading a persisted session on first use.
const restoreTimeout = 5 * time.Second

type entry struct {
	c        *Container
	lastSeen time.Time

	startMu sync.Mutex
	started bool
}

// Registry keeps one container per portal session and forgets idle ones.
type Registry struct {
	factory Factory
	idle    time.Duration
	gauge   Gauge
	log     zerolog.Logger

	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

func NewRegistry(factory Factory, idle time.Duration, gauge Gauge, log zerolog.Logger) *Registry {
	return &Registry{
		factory: factory,
		idle:    idle,
		gauge:   gauge,
		log:     log,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Get returns the container of sessionID, building it and restoring its
// persisted user on first use. A restore that failed is tried again on the
// next Get. It outlives ctx so a cancelled request cannot spoil it.
func (r *Registry) Get(ctx context.Context, sessionID string) *Container {
	r.mu.Lock()
	e, ok := r.entries[sessionID]
	if !ok {
		e = &entry{c: r.factory(sessionID)}
		r.entries[sessionID] = e
		r.report()
	}
	e.lastSeen = r.now()
	r.mu.Unlock()

	r.start(ctx, sessionID, e)
	return e.c
}

func (r *Registry) start(ctx context.Context, sessionID string, e *entry) {
	e.startMu.Lock()
	defer e.startMu.Unlock()
	if e.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), restoreTimeout)
	defer cancel()
	if err := e.c.Start(ctx); err != nil {
		r.log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to restore session, will retry")
		return
	}
	e.started = true
}

// Drop forgets sessionID.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	delete(r.entries, sessionID)
	r.report()
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep drops every container unused for longer than the idle timeout and
// returns how many it dropped. The persisted sessions stay, so a returning
// browser is restored transparently.
func (r *Registry) Sweep() int {
	if r.idle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			n++
		}
	}
	if n > 0 {
		r.report()
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.log.Debug().Int("dropped", n).Msg("idle sessions swept")
			}
		}
	}
}

// report must be called with mu held.
func (r *Registry) report() {
	if r.gauge != nil {
		r.gauge.Set(float64(len(r.entries)))
	}
}
