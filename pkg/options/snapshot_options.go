package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

var _ IOptions = (*SnapshotOptions)(nil)

// Snapshot store modes.
const (
	SnapshotModeNone = "none"
	SnapshotModeFile = "file"
	SnapshotModeS3   = "s3"
)

// SnapshotOptions configures best-effort persistence of the final telemetry
// of ended sessions. Persistence across restarts is not guaranteed.
type SnapshotOptions struct {
	// Mode selects the store backend: none, file or s3.
	Mode string `json:"mode" mapstructure:"mode"`

	// Dir is the target directory for the file backend.
	Dir string `json:"dir" mapstructure:"dir"`
}

// NewSnapshotOptions creates a SnapshotOptions object with default parameters.
func NewSnapshotOptions() *SnapshotOptions {
	return &SnapshotOptions{
		Mode: SnapshotModeFile,
		Dir:  ".",
	}
}

func (o *SnapshotOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	switch o.Mode {
	case SnapshotModeNone, SnapshotModeFile, SnapshotModeS3:
	default:
		errors = append(errors, fmt.Errorf("snapshot.mode must be one of none, file, s3; got %q", o.Mode))
	}

	return errors
}

// AddFlags adds snapshot flags to the specified FlagSet.
func (o *SnapshotOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Mode, "snapshot.mode", o.Mode, "Telemetry snapshot backend: none, file or s3.")
	fs.StringVar(&o.Dir, "snapshot.dir", o.Dir, "Directory for file snapshots.")
}
