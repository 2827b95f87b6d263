package options

import (
	"errors"

	"github.com/spf13/pflag"

	"github.com/skyfleet-io/dronehub/internal/dronehub"
	"github.com/skyfleet-io/dronehub/pkg/app"
	"github.com/skyfleet-io/dronehub/pkg/log"
	"github.com/skyfleet-io/dronehub/pkg/options"
)

// HubOptions aggregates every option group of the hub server.
type HubOptions struct {
	ServerOptions   *options.ServerOptions   `json:"server" mapstructure:"server"`
	SimOptions      *options.SimOptions      `json:"sim" mapstructure:"sim"`
	LivenessOptions *options.LivenessOptions `json:"liveness" mapstructure:"liveness"`
	HttpOptions     *options.HttpOptions     `json:"http" mapstructure:"http"`
	MqttOptions     *options.MqttOptions     `json:"mqtt" mapstructure:"mqtt"`
	SnapshotOptions *options.SnapshotOptions `json:"snapshot" mapstructure:"snapshot"`
	S3Options       *options.S3Options       `json:"s3" mapstructure:"s3"`
	Log             *log.Options             `json:"log" mapstructure:"log"`
}

var _ app.Options = (*HubOptions)(nil)

func NewHubOptions() *HubOptions {
	return &HubOptions{
		ServerOptions:   options.NewServerOptions(),
		SimOptions:      options.NewSimOptions(),
		LivenessOptions: options.NewLivenessOptions(),
		HttpOptions:     options.NewHttpOptions(),
		MqttOptions:     options.NewMqttOptions(),
		SnapshotOptions: options.NewSnapshotOptions(),
		S3Options:       options.NewS3Options(),
		Log:             log.NewOptions(),
	}
}

func (o *HubOptions) AddFlags(fs *pflag.FlagSet) {
	o.ServerOptions.AddFlags(fs)
	o.SimOptions.AddFlags(fs)
	o.LivenessOptions.AddFlags(fs)
	o.HttpOptions.AddFlags(fs)
	o.MqttOptions.AddFlags(fs)
	o.SnapshotOptions.AddFlags(fs)
	o.S3Options.AddFlags(fs)
	o.Log.AddFlags(fs)
}

func (o *HubOptions) Complete() error {
	log.Init(o.Log)
	return nil
}

func (o *HubOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.ServerOptions.Validate()...)
	errs = append(errs, o.SimOptions.Validate()...)
	errs = append(errs, o.LivenessOptions.Validate()...)
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.SnapshotOptions.Validate()...)
	errs = append(errs, o.S3Options.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return errors.Join(errs...)
}

func (o *HubOptions) Config() (*dronehub.Config, error) {
	return &dronehub.Config{
		ServerOptions:   o.ServerOptions,
		SimOptions:      o.SimOptions,
		LivenessOptions: o.LivenessOptions,
		HttpOptions:     o.HttpOptions,
		MqttOptions:     o.MqttOptions,
		SnapshotOptions: o.SnapshotOptions,
		S3Options:       o.S3Options,
	}, nil
}
