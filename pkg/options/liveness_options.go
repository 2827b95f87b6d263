package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*LivenessOptions)(nil)

// LivenessOptions configures the per-connection heartbeat monitor.
type LivenessOptions struct {
	// HeartbeatInterval is how often the monitor probes the transport.
	HeartbeatInterval time.Duration `json:"heartbeat-interval" mapstructure:"heartbeat-interval"`

	// ProbeTimeout is how long the monitor waits for a probe acknowledgment.
	ProbeTimeout time.Duration `json:"probe-timeout" mapstructure:"probe-timeout"`

	// InactivityTimeout closes connections that have not sent a frame for this long.
	InactivityTimeout time.Duration `json:"inactivity-timeout" mapstructure:"inactivity-timeout"`
}

// NewLivenessOptions creates a LivenessOptions object with default parameters.
func NewLivenessOptions() *LivenessOptions {
	return &LivenessOptions{
		HeartbeatInterval: 30 * time.Second,
		ProbeTimeout:      10 * time.Second,
		InactivityTimeout: 120 * time.Second,
	}
}

func (o *LivenessOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if o.HeartbeatInterval <= 0 {
		errors = append(errors, fmt.Errorf("liveness.heartbeat-interval must be positive, got %v", o.HeartbeatInterval))
	}
	if o.ProbeTimeout <= 0 {
		errors = append(errors, fmt.Errorf("liveness.probe-timeout must be positive, got %v", o.ProbeTimeout))
	}
	if o.ProbeTimeout >= o.HeartbeatInterval {
		errors = append(errors, fmt.Errorf("liveness.probe-timeout (%v) must be shorter than the heartbeat interval (%v)",
			o.ProbeTimeout, o.HeartbeatInterval))
	}
	if o.InactivityTimeout <= 0 {
		errors = append(errors, fmt.Errorf("liveness.inactivity-timeout must be positive, got %v", o.InactivityTimeout))
	}

	return errors
}

// AddFlags adds liveness flags to the specified FlagSet.
func (o *LivenessOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.DurationVar(&o.HeartbeatInterval, "liveness.heartbeat-interval", o.HeartbeatInterval,
		"Interval between transport probes.")
	fs.DurationVar(&o.ProbeTimeout, "liveness.probe-timeout", o.ProbeTimeout,
		"How long to wait for a probe acknowledgment before closing the connection.")
	fs.DurationVar(&o.InactivityTimeout, "liveness.inactivity-timeout", o.InactivityTimeout,
		"Close connections that have been idle for longer than this.")
}
