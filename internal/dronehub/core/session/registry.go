package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skyfleet-io/dronehub/internal/dronehub/core/sim"
)

// Config carries the simulation parameters shared by all sessions.
type Config struct {
	// MaxX is the horizontal position bound.
	MaxX int

	// SensorClassification enables the wind/dust threshold classification.
	SensorClassification bool

	// NewRand supplies a randomness source per session. nil sources are
	// replaced with time-seeded ones; tests inject deterministic sources.
	NewRand func() sim.Rand

	// Now is the clock, defaulting to time.Now.
	Now func() time.Time
}

// Registry is the concurrency-safe map from connection identifier to
// Session. Its critical sections never perform I/O or simulation work.
type Registry struct {
	cfg Config

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewRegistry creates an empty Registry.
func NewRegistry(cfg Config) *Registry {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Registry{
		cfg:      cfg,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create allocates a Session with a fresh identifier and default telemetry
// and tracks it.
func (r *Registry) Create() *Session {
	var rnd sim.Rand
	if r.cfg.NewRand != nil {
		rnd = r.cfg.NewRand()
	}
	env := sim.NewEnvironment(rnd, r.cfg.SensorClassification)

	s := newSession(uuid.New(), env, r.cfg.MaxX, r.cfg.Now)

	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()

	return s
}

// Get returns the tracked Session for id, if any.
func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove drops the Session for id. Removing an unknown id is a no-op.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
