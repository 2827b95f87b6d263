package server

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/skyfleet-io/dronehub/internal/dronehub/core"
	"github.com/skyfleet-io/dronehub/internal/dronehub/core/session"
	"github.com/skyfleet-io/dronehub/internal/dronehub/server/http"
	"github.com/skyfleet-io/dronehub/internal/dronehub/server/ws"
	"github.com/skyfleet-io/dronehub/internal/dronehub/storage"
	"github.com/skyfleet-io/dronehub/pkg/log"
)

// Server defines the common interface for all sub-servers (ws, http).
type Server interface {
	Start(ctx context.Context) error
}

// Manager manages the lifecycle of all protocol servers.
type Manager struct {
	servers []Server
}

// NewManager creates a new server manager and initializes all sub-servers.
func NewManager(cfg *Config, registry *session.Registry, sink core.EventSink, store storage.Provider) (*Manager, error) {
	var servers []Server

	// 1. WebSocket server (the simulator protocol endpoint)
	wsSrv := ws.NewServer(cfg.ServerOptions, cfg.LivenessOptions, registry, sink, store)
	servers = append(servers, wsSrv)

	// 2. HTTP server (health & metrics)
	httpSrv := http.NewServer(cfg.HttpOptions)
	servers = append(servers, httpSrv)

	return &Manager{
		servers: servers,
	}, nil
}

// Start launches all servers in parallel and waits for termination.
func (m *Manager) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, s := range m.servers {
		srv := s
		g.Go(func() error {
			return srv.Start(ctx)
		})
	}

	log.Info("All servers starting...")
	return g.Wait()
}
