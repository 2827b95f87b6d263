// Package session owns the per-connection simulator state: one Session per
// connected client, tracked by a concurrency-safe Registry.
package session

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skyfleet-io/dronehub/internal/dronehub/core/model"
	"github.com/skyfleet-io/dronehub/internal/dronehub/core/sim"
)

// Status is the lifecycle state of a session.
type Status string

const (
	// StatusActive accepts commands.
	StatusActive Status = "Active"

	// StatusCrashed is terminal: a physical invariant was violated.
	StatusCrashed Status = "Crashed"

	// StatusClosed is terminal: the connection went away or timed out.
	StatusClosed Status = "Closed"
)

// OutcomeKind classifies the result of applying one command.
type OutcomeKind int

const (
	// OutcomeRejected means the command was invalid or the session is
	// terminal; nothing was mutated.
	OutcomeRejected OutcomeKind = iota

	// OutcomeAdvanced means the command was applied and the drone flies on.
	OutcomeAdvanced

	// OutcomeCrashed means the command was applied and its physical
	// consequence was fatal. The session is terminal.
	OutcomeCrashed
)

// Outcome is the result of Session.Apply. Telemetry and Metrics are only
// populated for Advanced and Crashed outcomes.
type Outcome struct {
	Kind      OutcomeKind
	Message   string
	Telemetry model.Telemetry
	Metrics   model.Metrics
}

// RejectedTerminated is the rejection message for commands arriving after
// the session reached a terminal state.
const RejectedTerminated = "session terminated"

// Session is the server-side state for one client connection. It is owned
// by the connection's protocol engine and liveness monitor; all access is
// serialized by an internal mutex.
type Session struct {
	id uuid.UUID

	mu           sync.Mutex
	telemetry    model.Telemetry
	metrics      model.Metrics
	status       Status
	crashReason  string
	lastActivity time.Time

	env  *sim.Environment
	maxX int
	now  func() time.Time
}

func newSession(id uuid.UUID, env *sim.Environment, maxX int, now func() time.Time) *Session {
	return &Session{
		id:           id,
		telemetry:    model.NewTelemetry(),
		status:       StatusActive,
		lastActivity: now(),
		env:          env,
		maxX:         maxX,
		now:          now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Apply validates and applies one decoded command, updating telemetry and
// metrics, and classifies the result. input is a JSON value decoded with
// json.Number enabled.
func (s *Session) Apply(input any) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusActive {
		return Outcome{Kind: OutcomeRejected, Message: RejectedTerminated}
	}

	cmd, rej := sim.Validate(input)
	if rej != nil {
		return Outcome{Kind: OutcomeRejected, Message: rej.Message}
	}

	prevX := s.telemetry.X
	s.telemetry = sim.Advance(s.telemetry, cmd, s.env)

	s.metrics.TotalDistance += math.Abs(float64(s.telemetry.X - prevX))
	if cmd.Speed != 0 {
		s.metrics.Iterations++
	}

	if reason, crashed := sim.ClassifyCrash(&s.telemetry, s.maxX); crashed {
		s.status = StatusCrashed
		s.crashReason = reason
		return Outcome{
			Kind:      OutcomeCrashed,
			Message:   reason,
			Telemetry: s.telemetry,
			Metrics:   s.metrics,
		}
	}

	return Outcome{
		Kind:      OutcomeAdvanced,
		Telemetry: s.telemetry,
		Metrics:   s.metrics,
	}
}

// Touch records client activity for the inactivity check.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = s.now()
}

// IdleFor returns how long ago the client was last active.
func (s *Session) IdleFor() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().Sub(s.lastActivity)
}

// Close transitions an active session to Closed and reports whether the
// transition happened. Closing a crashed or already-closed session is a no-op.
func (s *Session) Close() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive {
		return false
	}
	s.status = StatusClosed
	return true
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// CrashReason returns the stored crash reason, empty unless crashed.
func (s *Session) CrashReason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.crashReason
}

// Snapshot returns a copy of the current telemetry and metrics.
func (s *Session) Snapshot() (model.Telemetry, model.Metrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.telemetry, s.metrics
}
