package ws

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/looplab/fsm"

	"github.com/skyfleet-io/dronehub/internal/dronehub/core"
	"github.com/skyfleet-io/dronehub/internal/dronehub/core/session"
	"github.com/skyfleet-io/dronehub/internal/dronehub/core/sim"
	"github.com/skyfleet-io/dronehub/internal/pkg/metrics"
	fsmutil "github.com/skyfleet-io/dronehub/internal/pkg/util/fsm"
	"github.com/skyfleet-io/dronehub/pkg/log"
	"github.com/skyfleet-io/dronehub/pkg/options"
)

// Connection lifecycle states.
const (
	stateConnecting = "connecting"
	stateActive     = "active"
	stateCrashed    = "crashed"
	stateClosed     = "closed"
)

// Connection lifecycle events.
const (
	// eventWelcome registers the session and sends the welcome frame.
	eventWelcome = "event_welcome"
	// eventCrash delivers the crash frame and terminates the transport.
	eventCrash = "event_crash"
	// eventClose ends the connection for any non-crash reason.
	eventClose = "event_close"
)

// closeArgs parameterizes an eventClose transition.
type closeArgs struct {
	// code is the close frame status code.
	code int
	// reason goes into the close frame and the closed event.
	reason string
	// notice, when set, is sent as an in-band error frame before closing.
	notice string
}

// engine drives the protocol for one connection: it owns the read loop, the
// liveness monitor and the lifecycle state machine. Exactly one engine exists
// per connection; terminal transitions close the transport, which in turn
// unblocks the read loop.
type engine struct {
	log  log.Logger
	conn *conn
	sess *session.Session
	sink core.EventSink

	life   *fsm.FSM
	pongCh chan struct{}

	heartbeatInterval time.Duration
	probeTimeout      time.Duration
	inactivityTimeout time.Duration

	// closeReason is set once by a terminal callback and read after both
	// loops have returned.
	closeReason string
}

func newEngine(logger log.Logger, c *conn, sess *session.Session, sink core.EventSink, liveness *options.LivenessOptions) *engine {
	e := &engine{
		log:               logger,
		conn:              c,
		sess:              sess,
		sink:              sink,
		pongCh:            make(chan struct{}, 1),
		heartbeatInterval: liveness.HeartbeatInterval,
		probeTimeout:      liveness.ProbeTimeout,
		inactivityTimeout: liveness.InactivityTimeout,
	}

	events := fsm.Events{
		{Name: eventWelcome, Src: []string{stateConnecting}, Dst: stateActive},
		{Name: eventCrash, Src: []string{stateActive}, Dst: stateCrashed},
		{Name: eventClose, Src: []string{stateConnecting, stateActive}, Dst: stateClosed},
	}

	callbacks := fsm.Callbacks{
		"enter_" + stateActive:  fsmutil.WrapEvent(e.actionEnterActive),
		"enter_" + stateCrashed: fsmutil.WrapEvent(e.actionEnterCrashed),
		"enter_" + stateClosed:  fsmutil.WrapEvent(e.actionEnterClosed),
	}

	e.life = fsm.NewFSM(stateConnecting, events, callbacks)
	return e
}

// welcome transitions the connection into the active state.
func (e *engine) welcome(ctx context.Context) error {
	return e.life.Event(ctx, eventWelcome)
}

// actionEnterActive sends the welcome frame and announces the session.
func (e *engine) actionEnterActive(ctx context.Context, _ *fsm.Event) error {
	if err := e.conn.writeJSON(newWelcomeFrame(e.sess.ID().String())); err != nil {
		return err
	}
	e.sink.SessionConnected(ctx, e.sess.ID().String())
	return nil
}

// actionEnterCrashed sends the crash frame, announces the crash and
// terminates the transport with a normal closure.
func (e *engine) actionEnterCrashed(ctx context.Context, ev *fsm.Event) error {
	out := ev.Args[0].(session.Outcome)
	e.closeReason = out.Message

	if err := e.conn.writeJSON(newCrashedFrame(out.Message, out.Telemetry, out.Metrics)); err != nil {
		e.log.Warn("Failed to deliver crash frame", "err", err)
	}
	e.sink.SessionCrashed(ctx, e.sess.ID().String(), out.Message, out.Telemetry, out.Metrics)

	_ = e.conn.writeClose(websocket.CloseNormalClosure, out.Message)
	return e.conn.close()
}

// actionEnterClosed optionally sends an in-band notice, then closes the
// transport and announces the closure.
func (e *engine) actionEnterClosed(ctx context.Context, ev *fsm.Event) error {
	args := ev.Args[0].(closeArgs)
	e.closeReason = args.reason

	if args.notice != "" {
		if err := e.conn.writeJSON(newErrorFrame(args.notice)); err != nil {
			e.log.Debug("Failed to deliver close notice", "err", err)
		}
	}

	e.sess.Close()
	e.sink.SessionClosed(ctx, e.sess.ID().String(), args.reason)

	_ = e.conn.writeClose(args.code, args.reason)
	return e.conn.close()
}

// shutdown fires eventClose. Firing from a terminal state is a no-op; the
// returned transition error is deliberately swallowed.
func (e *engine) shutdown(ctx context.Context, args closeArgs) {
	_ = e.life.Event(ctx, eventClose, args)
}

// readLoop consumes frames until the connection reaches a terminal state or
// the transport fails.
func (e *engine) readLoop(ctx context.Context) error {
	for {
		_, data, err := e.conn.ws.ReadMessage()
		if err != nil {
			// A terminal callback closing the transport lands here too;
			// only a read failure in the active state is a client disconnect.
			e.shutdown(ctx, closeArgs{
				code:   websocket.CloseNormalClosure,
				reason: "client disconnect",
			})
			return nil
		}

		e.handleFrame(ctx, data)

		if cur := e.life.Current(); cur != stateActive {
			return nil
		}
	}
}

// handleFrame processes one inbound frame: decode, apply, respond.
func (e *engine) handleFrame(ctx context.Context, data []byte) {
	e.sess.Touch()

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var input any
	if err := dec.Decode(&input); err != nil {
		metrics.CommandsTotal.WithLabelValues("malformed").Inc()
		if err := e.conn.writeJSON(newErrorFrame(malformedMessage)); err != nil {
			e.log.Debug("Failed to deliver error frame", "err", err)
		}
		return
	}

	out := e.sess.Apply(input)
	switch out.Kind {
	case session.OutcomeRejected:
		metrics.CommandsTotal.WithLabelValues("rejected").Inc()
		if err := e.conn.writeJSON(newErrorFrame(out.Message)); err != nil {
			e.log.Debug("Failed to deliver error frame", "err", err)
		}

	case session.OutcomeAdvanced:
		metrics.CommandsTotal.WithLabelValues("success").Inc()
		if err := e.conn.writeJSON(newSuccessFrame(out.Telemetry, out.Metrics)); err != nil {
			e.log.Debug("Failed to deliver success frame", "err", err)
		}

	case session.OutcomeCrashed:
		metrics.CommandsTotal.WithLabelValues("crashed").Inc()
		metrics.CrashesTotal.WithLabelValues(crashLabel(out.Message)).Inc()
		if err := e.life.Event(ctx, eventCrash, out); err != nil {
			e.log.Warn("Crash transition failed", "err", err)
		}
	}
}

// crashLabel maps a crash reason message to a stable metric label.
func crashLabel(reason string) string {
	switch reason {
	case sim.ReasonBatteryDepleted:
		return "battery_depleted"
	case sim.ReasonNegativeAltitude:
		return "negative_altitude"
	case sim.ReasonMaxPosition:
		return "max_position"
	}
	return "unknown"
}
