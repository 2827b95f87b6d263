package topic

import (
	"fmt"
)

// Topic segments shared between the hub and any consumer of its event stream.
// Changing these values breaks existing subscribers.
const (
	// SuffixSessionConnected announces a new simulator session.
	// Structure: {root}/session/connected/{sessionID}
	SuffixSessionConnected = "session/connected"

	// SuffixSessionCrashed announces a crashed session, payload carries the
	// crash reason and final telemetry.
	// Structure: {root}/session/crashed/{sessionID}
	SuffixSessionCrashed = "session/crashed"

	// SuffixSessionClosed announces an orderly or liveness-driven close.
	// Structure: {root}/session/closed/{sessionID}
	SuffixSessionClosed = "session/closed"

	// SuffixTelemetry carries periodic telemetry snapshots.
	// Structure: {root}/telemetry/{sessionID}
	SuffixTelemetry = "telemetry"

	// SuffixHubStatus is the hub's own availability topic (also its last will).
	// Structure: {root}/hub/status
	SuffixHubStatus = "hub/status"
)

// Builder constructs topic strings under a fixed root namespace so every
// component publishes and subscribes consistently.
type Builder struct {
	root string
}

// NewBuilder creates a Builder with the specified root namespace.
func NewBuilder(root string) *Builder {
	return &Builder{root: root}
}

// SessionConnected returns the topic announcing a new session.
func (b *Builder) SessionConnected(sessionID string) string {
	return b.build(SuffixSessionConnected, sessionID)
}

// SessionCrashed returns the topic announcing a crashed session.
func (b *Builder) SessionCrashed(sessionID string) string {
	return b.build(SuffixSessionCrashed, sessionID)
}

// SessionClosed returns the topic announcing a closed session.
func (b *Builder) SessionClosed(sessionID string) string {
	return b.build(SuffixSessionClosed, sessionID)
}

// Telemetry returns the telemetry snapshot topic for one session.
func (b *Builder) Telemetry(sessionID string) string {
	return b.build(SuffixTelemetry, sessionID)
}

// TelemetryWildcard subscribes to telemetry of all sessions.
// Result: {root}/telemetry/+
func (b *Builder) TelemetryWildcard() string {
	return b.build(SuffixTelemetry, Wildcard)
}

// HubStatus returns the hub availability topic.
func (b *Builder) HubStatus() string {
	return fmt.Sprintf("%s/%s", b.root, SuffixHubStatus)
}

// build constructs the final topic string: {root}/{suffix}/{identifier}.
func (b *Builder) build(suffix, id string) string {
	return fmt.Sprintf("%s/%s/%s", b.root, suffix, id)
}
