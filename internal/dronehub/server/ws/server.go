// Package ws implements the simulator's WebSocket endpoint: one session per
// connection, a protocol engine reading command frames and a liveness
// monitor probing the transport.
package ws

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/skyfleet-io/dronehub/internal/dronehub/core"
	"github.com/skyfleet-io/dronehub/internal/dronehub/core/session"
	"github.com/skyfleet-io/dronehub/internal/dronehub/storage"
	"github.com/skyfleet-io/dronehub/internal/pkg/metrics"
	"github.com/skyfleet-io/dronehub/pkg/log"
	"github.com/skyfleet-io/dronehub/pkg/options"
)

// Server accepts WebSocket connections and hands each one to a dedicated
// protocol engine.
type Server struct {
	opts     *options.ServerOptions
	liveness *options.LivenessOptions

	registry *session.Registry
	sink     core.EventSink
	store    storage.Provider

	upgrader websocket.Upgrader
	server   *http.Server
	log      log.Logger
}

// NewServer creates the WebSocket server. It does not listen until Start.
func NewServer(opts *options.ServerOptions, liveness *options.LivenessOptions,
	registry *session.Registry, sink core.EventSink, store storage.Provider) *Server {
	s := &Server{
		opts:     opts,
		liveness: liveness,
		registry: registry,
		sink:     sink,
		store:    store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Simulator clients are CLIs and scripts, not browsers.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log.WithName("ws"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handle)
	s.server = &http.Server{
		Addr:    opts.Addr,
		Handler: mux,
	}
	return s
}

// Start listens for connections until ctx is canceled, then shuts down.
func (s *Server) Start(ctx context.Context) error {
	s.server.BaseContext = func(net.Listener) context.Context { return ctx }

	s.log.Info("Starting WebSocket server", "addr", s.server.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

// handle runs one connection from upgrade to teardown.
func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Failed to upgrade connection", "remote", r.RemoteAddr, "err", err)
		return
	}
	ws.SetReadLimit(s.opts.MaxFrameBytes)

	sess := s.registry.Create()
	metrics.ActiveSessions.Inc()

	logger := s.log.WithValues("session", sess.ID())
	logger.Info("Session connected", "remote", r.RemoteAddr)

	c := newConn(ws, s.opts.WriteTimeout)
	e := newEngine(logger, c, sess, s.sink, s.liveness)
	ws.SetPongHandler(func(string) error {
		e.notePong()
		return nil
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	defer s.teardown(sess)

	if err := e.welcome(ctx); err != nil {
		logger.Warn("Failed to welcome session", "err", err)
		e.shutdown(ctx, closeArgs{
			code:   websocket.CloseAbnormalClosure,
			reason: "welcome failure",
		})
		return
	}

	var g errgroup.Group
	g.Go(func() error {
		defer cancel()
		return e.readLoop(ctx)
	})
	g.Go(func() error {
		return e.monitor(ctx)
	})
	_ = g.Wait()

	logger.Info("Session ended", "reason", e.closeReason, "status", sess.Status())
}

// teardown untracks the session and persists its final state.
func (s *Server) teardown(sess *session.Session) {
	defer metrics.ActiveSessions.Dec()
	defer s.registry.Remove(sess.ID())

	sess.Close()

	tele, met := sess.Snapshot()
	snap := storage.Snapshot{
		SessionID:   sess.ID().String(),
		Telemetry:   tele,
		Metrics:     met,
		CrashReason: sess.CrashReason(),
		EndedAt:     time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.PutSnapshot(ctx, snap); err != nil {
		s.log.Warn("Failed to persist session snapshot", "session", sess.ID(), "err", err)
	}
}
