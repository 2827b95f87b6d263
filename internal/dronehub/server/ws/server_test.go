package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfleet-io/dronehub/internal/dronehub/core"
	"github.com/skyfleet-io/dronehub/internal/dronehub/core/model"
	"github.com/skyfleet-io/dronehub/internal/dronehub/core/session"
	"github.com/skyfleet-io/dronehub/internal/dronehub/core/sim"
	"github.com/skyfleet-io/dronehub/internal/dronehub/storage"
	"github.com/skyfleet-io/dronehub/pkg/options"
)

// calmRand keeps the environment deterministic and storm-free.
type calmRand struct{}

func (calmRand) Float64() float64 { return 0.5 }

// serverFrame is the union of all server frame shapes, for test decoding.
type serverFrame struct {
	Status               string           `json:"status"`
	ConnectionID         string           `json:"connection_id"`
	Message              string           `json:"message"`
	Telemetry            *model.Telemetry `json:"telemetry"`
	FinalTelemetry       *model.Telemetry `json:"final_telemetry"`
	Metrics              *model.Metrics   `json:"metrics"`
	ConnectionTerminated bool             `json:"connection_terminated"`
}

func newTestHub(t *testing.T, maxX int, liveness *options.LivenessOptions) (*httptest.Server, *session.Registry) {
	t.Helper()

	if liveness == nil {
		liveness = options.NewLivenessOptions()
	}

	registry := session.NewRegistry(session.Config{
		MaxX:    maxX,
		NewRand: func() sim.Rand { return calmRand{} },
	})

	store, err := storage.NewProvider(&options.SnapshotOptions{Mode: options.SnapshotModeNone}, nil)
	require.NoError(t, err)

	srv := NewServer(options.NewServerOptions(), liveness, registry, core.NopSink{}, store)

	ts := httptest.NewServer(http.HandlerFunc(srv.handle))
	t.Cleanup(ts.Close)
	return ts, registry
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) serverFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var frame serverFrame
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func TestWelcomeFrame(t *testing.T) {
	ts, registry := newTestHub(t, 100000, nil)
	conn := dial(t, ts)

	frame := readFrame(t, conn)
	assert.Equal(t, statusConnected, frame.Status)
	assert.Equal(t, welcomeMessage, frame.Message)

	id, err := uuid.Parse(frame.ConnectionID)
	require.NoError(t, err)

	_, ok := registry.Get(id)
	assert.True(t, ok)
}

func TestAcceptedCommand(t *testing.T) {
	ts, _ := newTestHub(t, 100000, nil)
	conn := dial(t, ts)
	readFrame(t, conn) // welcome

	require.NoError(t, conn.WriteJSON(model.Command{Speed: 5, Altitude: 1, Movement: model.MovementForward}))

	frame := readFrame(t, conn)
	require.Equal(t, statusSuccess, frame.Status)
	require.NotNil(t, frame.Telemetry)
	assert.Equal(t, 5, frame.Telemetry.X)
	assert.Equal(t, 1, frame.Telemetry.Y)
	assert.InDelta(t, 96.995, frame.Telemetry.Battery, 1e-9)
	require.NotNil(t, frame.Metrics)
	assert.Equal(t, 1, frame.Metrics.Iterations)
	assert.InDelta(t, 5, frame.Metrics.TotalDistance, 1e-9)
}

func TestRejectedCommandKeepsConnectionOpen(t *testing.T) {
	ts, _ := newTestHub(t, 100000, nil)
	conn := dial(t, ts)
	readFrame(t, conn) // welcome

	require.NoError(t, conn.WriteJSON(map[string]any{"speed": 9, "altitude": 0, "movement": "fwd"}))

	frame := readFrame(t, conn)
	require.Equal(t, statusError, frame.Status)
	assert.Equal(t, "'speed' must be between 0 and 5, got 9", frame.Message)

	// The session is still flyable.
	require.NoError(t, conn.WriteJSON(model.Command{Speed: 1, Altitude: 0, Movement: model.MovementForward}))
	frame = readFrame(t, conn)
	assert.Equal(t, statusSuccess, frame.Status)
}

func TestMalformedFrameKeepsConnectionOpen(t *testing.T) {
	ts, _ := newTestHub(t, 100000, nil)
	conn := dial(t, ts)
	readFrame(t, conn) // welcome

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	frame := readFrame(t, conn)
	require.Equal(t, statusError, frame.Status)
	assert.Equal(t, malformedMessage, frame.Message)

	require.NoError(t, conn.WriteJSON(model.Command{Speed: 1, Altitude: 0, Movement: model.MovementForward}))
	frame = readFrame(t, conn)
	assert.Equal(t, statusSuccess, frame.Status)
}

func TestCrashTerminatesConnection(t *testing.T) {
	ts, registry := newTestHub(t, 10, nil)
	conn := dial(t, ts)
	readFrame(t, conn) // welcome

	// x: 5, 10, then 15 which is past the bound of 10.
	for i := 0; i < 2; i++ {
		require.NoError(t, conn.WriteJSON(model.Command{Speed: 5, Movement: model.MovementForward}))
		frame := readFrame(t, conn)
		require.Equal(t, statusSuccess, frame.Status)
	}

	require.NoError(t, conn.WriteJSON(model.Command{Speed: 5, Movement: model.MovementForward}))
	frame := readFrame(t, conn)
	require.Equal(t, statusCrashed, frame.Status)
	assert.Equal(t, sim.ReasonMaxPosition, frame.Message)
	assert.True(t, frame.ConnectionTerminated)
	require.NotNil(t, frame.FinalTelemetry)
	assert.Equal(t, 15, frame.FinalTelemetry.X)
	require.NotNil(t, frame.Metrics)
	assert.Equal(t, 3, frame.Metrics.Iterations)
	assert.InDelta(t, 15, frame.Metrics.TotalDistance, 1e-9)

	// The server closes the transport right after the crash frame.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)

	assert.Eventually(t, func() bool { return registry.Len() == 0 },
		5*time.Second, 10*time.Millisecond)
}

func TestInactivityClose(t *testing.T) {
	liveness := &options.LivenessOptions{
		HeartbeatInterval: 25 * time.Millisecond,
		ProbeTimeout:      10 * time.Millisecond,
		InactivityTimeout: 40 * time.Millisecond,
	}
	ts, registry := newTestHub(t, 100000, liveness)
	conn := dial(t, ts)
	readFrame(t, conn) // welcome

	// Stay silent. The default ping handler answers probes, so only the
	// inactivity budget runs out.
	frame := readFrame(t, conn)
	require.Equal(t, statusError, frame.Status)
	assert.Equal(t, inactivityMessage, frame.Message)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)

	assert.Eventually(t, func() bool { return registry.Len() == 0 },
		5*time.Second, 10*time.Millisecond)
}

func TestProbeTimeoutClose(t *testing.T) {
	liveness := &options.LivenessOptions{
		HeartbeatInterval: 25 * time.Millisecond,
		ProbeTimeout:      15 * time.Millisecond,
		InactivityTimeout: 10 * time.Second,
	}
	ts, _ := newTestHub(t, 100000, liveness)
	conn := dial(t, ts)

	// Swallow pings so the probe is never acknowledged.
	conn.SetPingHandler(func(string) error { return nil })

	readFrame(t, conn) // welcome

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseInternalServerErr), "got %v", err)
}

func TestNegativeAltitudeCrashClampsFinalTelemetry(t *testing.T) {
	ts, _ := newTestHub(t, 100000, nil)
	conn := dial(t, ts)
	readFrame(t, conn) // welcome

	require.NoError(t, conn.WriteJSON(model.Command{Speed: 0, Altitude: -1, Movement: model.MovementForward}))

	frame := readFrame(t, conn)
	require.Equal(t, statusCrashed, frame.Status)
	assert.Zero(t, frame.FinalTelemetry.Y)
}
