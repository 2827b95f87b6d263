// Package storage persists the final state of ended sessions. Persistence
// is best effort; a failed write never affects the session outcome.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/skyfleet-io/dronehub/internal/dronehub/core/model"
	"github.com/skyfleet-io/dronehub/pkg/options"
)

// Snapshot is the persisted record of one ended session.
type Snapshot struct {
	SessionID   string          `json:"session_id"`
	Telemetry   model.Telemetry `json:"telemetry"`
	Metrics     model.Metrics   `json:"metrics"`
	CrashReason string          `json:"crash_reason,omitempty"`
	EndedAt     time.Time       `json:"ended_at"`
}

// objectName is the canonical name of a snapshot, shared by all backends.
func (s Snapshot) objectName() string {
	return fmt.Sprintf("telemetry_%s.json", s.SessionID)
}

// Provider is a snapshot store backend.
type Provider interface {
	// PutSnapshot stores the snapshot, replacing any previous one for the
	// same session.
	PutSnapshot(ctx context.Context, snap Snapshot) error
}

// NewProvider selects the backend configured by the snapshot mode.
func NewProvider(opts *options.SnapshotOptions, s3opts *options.S3Options) (Provider, error) {
	switch opts.Mode {
	case options.SnapshotModeNone:
		return nopProvider{}, nil
	case options.SnapshotModeFile:
		return NewFileProvider(opts.Dir)
	case options.SnapshotModeS3:
		return NewMinIOProvider(s3opts)
	}
	return nil, fmt.Errorf("unknown snapshot mode %q", opts.Mode)
}

type nopProvider struct{}

func (nopProvider) PutSnapshot(context.Context, Snapshot) error { return nil }
