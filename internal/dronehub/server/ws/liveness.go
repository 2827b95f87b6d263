package ws

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"github.com/skyfleet-io/dronehub/internal/pkg/metrics"
)

// monitor enforces the liveness policy for one connection. Every heartbeat
// interval it checks the inactivity budget, then probes the transport with a
// ping and waits up to the probe timeout for the pong. Inactivity ends with
// a normal closure after an in-band notice; a missed probe ends with an
// internal-error closure, matching a transport that is already suspect.
func (e *engine) monitor(ctx context.Context) error {
	ticker := time.NewTicker(e.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.shutdown(ctx, closeArgs{
				code:   websocket.CloseGoingAway,
				reason: "server shutting down",
			})
			return nil
		case <-ticker.C:
		}

		if e.life.Current() != stateActive {
			return nil
		}

		if e.sess.IdleFor() >= e.inactivityTimeout {
			metrics.LivenessClosesTotal.WithLabelValues("inactivity").Inc()
			e.log.Info("Closing idle connection", "session", e.sess.ID())
			e.shutdown(ctx, closeArgs{
				code:   websocket.CloseNormalClosure,
				reason: "inactivity",
				notice: inactivityMessage,
			})
			return nil
		}

		// Drop a stale pong from a previous round before probing.
		select {
		case <-e.pongCh:
		default:
		}

		if err := e.conn.ping(); err != nil {
			e.shutdown(ctx, closeArgs{
				code:   websocket.CloseAbnormalClosure,
				reason: "transport failure",
			})
			return nil
		}

		select {
		case <-e.pongCh:
		case <-time.After(e.probeTimeout):
			metrics.LivenessClosesTotal.WithLabelValues("probe_timeout").Inc()
			e.log.Info("Closing unresponsive connection", "session", e.sess.ID())
			e.shutdown(ctx, closeArgs{
				code:   websocket.CloseInternalServerErr,
				reason: "Ping timeout",
			})
			return nil
		case <-ctx.Done():
			e.shutdown(ctx, closeArgs{
				code:   websocket.CloseGoingAway,
				reason: "server shutting down",
			})
			return nil
		}
	}
}

// notePong satisfies an outstanding liveness probe. It never blocks; the
// pong channel keeps at most one pending acknowledgment.
func (e *engine) notePong() {
	select {
	case e.pongCh <- struct{}{}:
	default:
	}
}
