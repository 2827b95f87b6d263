package sim

import (
	"math"

	"github.com/skyfleet-io/dronehub/internal/dronehub/core/model"
)

// Crash reason strings reported to clients. These are part of the wire
// contract with existing clients.
const (
	ReasonBatteryDepleted  = "Drone has crashed due to battery depletion."
	ReasonNegativeAltitude = "Drone has crashed due to negative altitude."
	ReasonMaxPosition      = "Drone has crashed due to exceeding max x position."
)

// Per-tick battery drain constants.
const (
	drainPerSpeed    = 0.5
	drainPerAltitude = 0.005
	drainOverhead    = 0.5 // always paid, even when hovering
)

// Advance applies a validated command to the telemetry and returns the new
// state: position, altitude, battery drain, then environmental effects.
// It does not check crash conditions; see ClassifyCrash.
func Advance(t model.Telemetry, cmd model.Command, env *Environment) model.Telemetry {
	switch cmd.Movement {
	case model.MovementForward:
		t.X += cmd.Speed
	case model.MovementReverse:
		t.X -= cmd.Speed
	}

	if cmd.Altitude != 0 {
		t.Y += cmd.Altitude
	}

	t.Battery -= drainPerSpeed*float64(cmd.Speed) + drainPerAltitude*math.Abs(float64(cmd.Altitude)) + drainOverhead

	env.Apply(&t)

	return t
}

// ClassifyCrash reports the first fatal invariant violation in t and clamps
// the violated field to its boundary. Priority order: battery depletion,
// negative altitude, exceeded position. Only the first matching reason is
// reported even if several hold.
func ClassifyCrash(t *model.Telemetry, maxX int) (string, bool) {
	if t.Battery <= 0 {
		t.Battery = 0
		return ReasonBatteryDepleted, true
	}

	if t.Y < 0 {
		t.Y = 0
		return ReasonNegativeAltitude, true
	}

	if t.X > maxX || t.X < -maxX {
		return ReasonMaxPosition, true
	}

	return "", false
}
