package ws

import (
	"github.com/skyfleet-io/dronehub/internal/dronehub/core/model"
)

// Frame status values. These are part of the wire contract with clients.
const (
	statusConnected = "connected"
	statusError     = "error"
	statusSuccess   = "success"
	statusCrashed   = "crashed"
)

// Fixed server messages.
const (
	welcomeMessage    = "Welcome to the Drone Simulator! Send commands to control your drone."
	malformedMessage  = "Invalid JSON format"
	inactivityMessage = "Connection closed due to inactivity"
)

// welcomeFrame is sent once, immediately after the transport is accepted.
type welcomeFrame struct {
	Status       string `json:"status"`
	ConnectionID string `json:"connection_id"`
	Message      string `json:"message"`
}

// errorFrame reports a recoverable problem. The connection stays open.
type errorFrame struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// successFrame acknowledges an accepted command with the post-step state.
type successFrame struct {
	Status    string          `json:"status"`
	Telemetry model.Telemetry `json:"telemetry"`
	Metrics   model.Metrics   `json:"metrics"`
}

// crashedFrame is the last data frame of a session whose command had a fatal
// physical consequence. The server closes the transport right after it.
type crashedFrame struct {
	Status               string          `json:"status"`
	Message              string          `json:"message"`
	FinalTelemetry       model.Telemetry `json:"final_telemetry"`
	Metrics              model.Metrics   `json:"metrics"`
	ConnectionTerminated bool            `json:"connection_terminated"`
}

func newWelcomeFrame(connectionID string) welcomeFrame {
	return welcomeFrame{
		Status:       statusConnected,
		ConnectionID: connectionID,
		Message:      welcomeMessage,
	}
}

func newErrorFrame(message string) errorFrame {
	return errorFrame{Status: statusError, Message: message}
}

func newSuccessFrame(t model.Telemetry, m model.Metrics) successFrame {
	return successFrame{Status: statusSuccess, Telemetry: t, Metrics: m}
}

func newCrashedFrame(reason string, final model.Telemetry, m model.Metrics) crashedFrame {
	return crashedFrame{
		Status:               statusCrashed,
		Message:              reason,
		FinalTelemetry:       final,
		Metrics:              m,
		ConnectionTerminated: true,
	}
}
