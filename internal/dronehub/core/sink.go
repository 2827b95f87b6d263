// Package core declares the outbound ports of the hub: interfaces the
// protocol layer calls and the infrastructure adapters implement.
package core

import (
	"context"

	"github.com/skyfleet-io/dronehub/internal/dronehub/core/model"
)

// EventSink receives session lifecycle events. Implementations must be
// fast or hand off asynchronously; sinks are called from the connection
// teardown path.
type EventSink interface {
	// SessionConnected fires once a session is registered and welcomed.
	SessionConnected(ctx context.Context, sessionID string)

	// SessionCrashed fires when a command's physical consequence was fatal.
	SessionCrashed(ctx context.Context, sessionID, reason string, final model.Telemetry, metrics model.Metrics)

	// SessionClosed fires when the connection ends for any non-crash reason.
	SessionClosed(ctx context.Context, sessionID, reason string)
}

// NopSink discards all events.
type NopSink struct{}

var _ EventSink = NopSink{}

func (NopSink) SessionConnected(context.Context, string) {}
func (NopSink) SessionCrashed(context.Context, string, string, model.Telemetry, model.Metrics) {
}
func (NopSink) SessionClosed(context.Context, string, string) {}

// MultiSink fans events out to several sinks in order.
type MultiSink []EventSink

var _ EventSink = MultiSink{}

func (m MultiSink) SessionConnected(ctx context.Context, id string) {
	for _, s := range m {
		s.SessionConnected(ctx, id)
	}
}

func (m MultiSink) SessionCrashed(ctx context.Context, id, reason string, final model.Telemetry, metrics model.Metrics) {
	for _, s := range m {
		s.SessionCrashed(ctx, id, reason, final, metrics)
	}
}

func (m MultiSink) SessionClosed(ctx context.Context, id, reason string) {
	for _, s := range m {
		s.SessionClosed(ctx, id, reason)
	}
}
