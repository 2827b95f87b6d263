package app

import (
	"fmt"

	"github.com/skyfleet-io/dronehub/cmd/dhub-server/app/options"
	"github.com/skyfleet-io/dronehub/pkg/app"
)

const (
	commandName = "dhub-server"
	commandDesc = `The DroneHub server hosts a drone flight simulator over WebSocket.
Each connection gets its own drone: clients send movement commands as JSON
frames and receive telemetry, flight metrics and crash reports in response.
Session lifecycle events can optionally be mirrored onto an MQTT broker, and
the final state of every session is persisted as a snapshot.`
)

func NewApp() *app.App {
	opts := options.NewHubOptions()
	application := app.NewApp(
		commandName,
		"Launch a DroneHub simulator server",
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithRunFunc(run(opts)),
	)
	return application
}

func run(opts *options.HubOptions) app.RunFunc {
	return func() error {
		ctx := app.SetupSignalContext()

		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		server, err := cfg.NewHubServer()
		if err != nil {
			return fmt.Errorf("failed to create hub server: %w", err)
		}

		return server.Run(ctx)
	}
}
