package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type fileProvider struct {
	dir string
}

// NewFileProvider stores snapshots as JSON files under dir, one file per
// session, named telemetry_<session id>.json.
func NewFileProvider(dir string) (Provider, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &fileProvider{dir: dir}, nil
}

func (p *fileProvider) PutSnapshot(_ context.Context, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(p.dir, snap.objectName())

	// Write-then-rename keeps readers from seeing a half-written snapshot.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return os.Rename(tmp, path)
}
