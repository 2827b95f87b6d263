package server

import (
	"github.com/skyfleet-io/dronehub/pkg/options"
)

// Config aggregates the options for all sub-servers.
type Config struct {
	ServerOptions   *options.ServerOptions
	LivenessOptions *options.LivenessOptions
	HttpOptions     *options.HttpOptions
}
