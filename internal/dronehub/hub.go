package dronehub

import (
	"context"
	"time"

	"github.com/skyfleet-io/dronehub/internal/dronehub/notifier"
	"github.com/skyfleet-io/dronehub/internal/dronehub/server"
	"github.com/skyfleet-io/dronehub/pkg/log"
)

// HubServer is the main application struct for the simulator hub.
type HubServer struct {
	serverManager *server.Manager
	notifier      *notifier.MQTTNotifier
}

// Run starts the application components and blocks until ctx is canceled or
// a server fails.
func (a *HubServer) Run(ctx context.Context) error {
	log.Info("Starting DroneHub Application...")

	err := a.serverManager.Start(ctx)

	if a.notifier != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.notifier.Stop(stopCtx)
	}

	return err
}
