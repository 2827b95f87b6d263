package sim

import (
	"math/rand"
	"time"

	"github.com/skyfleet-io/dronehub/internal/dronehub/core/model"
)

// Rand is the randomness source for environmental draws. Tests substitute
// a deterministic implementation; production uses math/rand.
type Rand interface {
	// Float64 returns a uniform draw in [0, 1).
	Float64() float64
}

const (
	// stormProbability is the chance per tick of a dust storm.
	stormProbability = 0.4

	// stormSurge is added to both wind and dust during a storm.
	stormSurge = 60
)

// Environment applies randomized environmental effects to telemetry.
// Each session owns its own Environment; the source is not shared.
type Environment struct {
	rnd            Rand
	classifySensor bool
}

// NewEnvironment creates an Environment around the given source. A nil
// source gets a time-seeded one. classifySensor enables the wind/dust
// threshold classification of sensor status; when false the computed
// classification is discarded and the sensor always reports GREEN,
// matching the long-standing behavior existing clients rely on.
func NewEnvironment(rnd Rand, classifySensor bool) *Environment {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Environment{
		rnd:            rnd,
		classifySensor: classifySensor,
	}
}

// Apply overwrites the environmental portion of t with fresh draws.
// Draw order is fixed: three gyroscope axes, wind, dust, storm roll.
func (e *Environment) Apply(t *model.Telemetry) {
	for i := range t.Gyroscope {
		t.Gyroscope[i] = -1 + 2*e.rnd.Float64()
	}

	t.WindSpeed = int(e.rnd.Float64() * 100)
	t.DustLevel = int(e.rnd.Float64() * 100)

	if e.rnd.Float64() < stormProbability {
		t.DustLevel = min(100, t.DustLevel+stormSurge)
		t.WindSpeed = min(100, t.WindSpeed+stormSurge)
	}

	status := classifySensor(t.DustLevel, t.WindSpeed)
	if !e.classifySensor {
		status = model.SensorGreen
	}
	t.SensorStatus = status
}

// classifySensor derives sensor health from the wind/dust thresholds.
func classifySensor(dust, wind int) model.SensorStatus {
	switch {
	case dust > 90 || wind > 90:
		return model.SensorRed
	case dust > 60 || wind > 50:
		return model.SensorYellow
	default:
		return model.SensorGreen
	}
}
