package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfleet-io/dronehub/internal/dronehub/core/model"
	"github.com/skyfleet-io/dronehub/pkg/options"
)

func TestFileProviderPutSnapshot(t *testing.T) {
	dir := t.TempDir()
	p, err := NewFileProvider(dir)
	require.NoError(t, err)

	snap := Snapshot{
		SessionID: "0d9f2a44-1111-2222-3333-444455556666",
		Telemetry: model.Telemetry{
			X:            42,
			Y:            7,
			Battery:      88.5,
			SensorStatus: model.SensorGreen,
		},
		Metrics:     model.Metrics{Iterations: 9, TotalDistance: 42},
		CrashReason: "Drone has crashed due to exceeding max x position.",
		EndedAt:     time.Now().UTC(),
	}
	require.NoError(t, p.PutSnapshot(context.Background(), snap))

	data, err := os.ReadFile(filepath.Join(dir, "telemetry_0d9f2a44-1111-2222-3333-444455556666.json"))
	require.NoError(t, err)

	var got Snapshot
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, snap.SessionID, got.SessionID)
	assert.Equal(t, snap.Telemetry, got.Telemetry)
	assert.Equal(t, snap.Metrics, got.Metrics)
	assert.Equal(t, snap.CrashReason, got.CrashReason)

	// No leftover temp file.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileProviderOverwrites(t *testing.T) {
	dir := t.TempDir()
	p, err := NewFileProvider(dir)
	require.NoError(t, err)

	snap := Snapshot{SessionID: "s1", Metrics: model.Metrics{Iterations: 1}}
	require.NoError(t, p.PutSnapshot(context.Background(), snap))

	snap.Metrics.Iterations = 2
	require.NoError(t, p.PutSnapshot(context.Background(), snap))

	data, err := os.ReadFile(filepath.Join(dir, "telemetry_s1.json"))
	require.NoError(t, err)

	var got Snapshot
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 2, got.Metrics.Iterations)
}

func TestNewProviderSelectsBackend(t *testing.T) {
	nop, err := NewProvider(&options.SnapshotOptions{Mode: options.SnapshotModeNone}, nil)
	require.NoError(t, err)
	assert.NoError(t, nop.PutSnapshot(context.Background(), Snapshot{}))

	_, err = NewProvider(&options.SnapshotOptions{Mode: "tape"}, nil)
	assert.Error(t, err)

	file, err := NewProvider(&options.SnapshotOptions{Mode: options.SnapshotModeFile, Dir: t.TempDir()}, nil)
	require.NoError(t, err)
	assert.NotNil(t, file)
}
