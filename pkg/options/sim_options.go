package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

var _ IOptions = (*SimOptions)(nil)

// SimOptions contains tunables for the flight simulation itself.
type SimOptions struct {
	// MaxX is the horizontal position bound. A drone whose |x| exceeds it crashes.
	MaxX int `json:"max-x" mapstructure:"max-x"`

	// SensorClassification enables the wind/dust threshold classification of
	// sensor status. When disabled (the default) the sensor always reports GREEN.
	SensorClassification bool `json:"sensor-classification" mapstructure:"sensor-classification"`
}

// NewSimOptions creates a SimOptions object with default parameters.
func NewSimOptions() *SimOptions {
	return &SimOptions{
		MaxX:                 100000,
		SensorClassification: false,
	}
}

func (o *SimOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if o.MaxX <= 0 {
		errors = append(errors, fmt.Errorf("sim.max-x must be positive, got %d", o.MaxX))
	}

	return errors
}

// AddFlags adds simulation flags to the specified FlagSet.
func (o *SimOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.IntVar(&o.MaxX, "sim.max-x", o.MaxX, "Maximum absolute horizontal position before a crash.")
	fs.BoolVar(&o.SensorClassification, "sim.sensor-classification", o.SensorClassification,
		"Derive sensor status from wind/dust thresholds instead of always reporting GREEN.")
}
