package options

import (
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*ServerOptions)(nil)

// ServerOptions contains configuration for the WebSocket simulator server.
type ServerOptions struct {
	// Addr is the listen address for the WebSocket endpoint.
	Addr string `json:"addr" mapstructure:"addr"`

	// MaxFrameBytes is the maximum size of an inbound frame. Larger frames
	// cause the connection to be dropped by the transport.
	MaxFrameBytes int64 `json:"max-frame-bytes" mapstructure:"max-frame-bytes"`

	// WriteTimeout bounds every outbound frame write.
	WriteTimeout time.Duration `json:"write-timeout" mapstructure:"write-timeout"`
}

// NewServerOptions creates a ServerOptions object with default parameters.
func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		Addr:          "localhost:8765",
		MaxFrameBytes: 10 << 20, // 10 MiB
		WriteTimeout:  10 * time.Second,
	}
}

func (o *ServerOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if err := ValidateAddress(o.Addr); err != nil {
		errors = append(errors, err)
	}

	return errors
}

// AddFlags adds flags related to the WebSocket server to the specified FlagSet.
func (o *ServerOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Addr, "server.addr", o.Addr, "Specify the WebSocket server bind address and port.")
	fs.Int64Var(&o.MaxFrameBytes, "server.max-frame-bytes", o.MaxFrameBytes, "Maximum inbound frame size in bytes.")
	fs.DurationVar(&o.WriteTimeout, "server.write-timeout", o.WriteTimeout, "Timeout for writing a frame to a client.")
}
