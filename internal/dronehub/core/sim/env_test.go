package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skyfleet-io/dronehub/internal/dronehub/core/model"
)

func TestEnvironmentApplyDrawOrder(t *testing.T) {
	// gyro x, gyro y, gyro z, wind, dust, storm roll
	env := NewEnvironment(&seqRand{vals: []float64{0.0, 0.5, 1.0, 0.25, 0.75, 0.9}}, false)

	var tele model.Telemetry
	env.Apply(&tele)

	assert.InDelta(t, -1.0, tele.Gyroscope[0], 1e-9)
	assert.InDelta(t, 0.0, tele.Gyroscope[1], 1e-9)
	assert.InDelta(t, 1.0, tele.Gyroscope[2], 1e-9)
	assert.Equal(t, 25, tele.WindSpeed)
	assert.Equal(t, 75, tele.DustLevel)
	assert.Equal(t, model.SensorGreen, tele.SensorStatus)
}

func TestEnvironmentStormSurgeIsCapped(t *testing.T) {
	// wind 70, dust 90, storm roll 0.1 triggers the surge
	env := NewEnvironment(&seqRand{vals: []float64{0.5, 0.5, 0.5, 0.70, 0.90, 0.1}}, false)

	var tele model.Telemetry
	env.Apply(&tele)

	assert.Equal(t, 100, tele.WindSpeed)
	assert.Equal(t, 100, tele.DustLevel)
}

func TestEnvironmentSensorClassification(t *testing.T) {
	tests := []struct {
		name string
		wind float64
		dust float64
		want model.SensorStatus
	}{
		{"calm is green", 0.10, 0.10, model.SensorGreen},
		{"windy is yellow", 0.51, 0.10, model.SensorYellow},
		{"dusty is yellow", 0.10, 0.61, model.SensorYellow},
		{"gale is red", 0.91, 0.10, model.SensorRed},
		{"dust wall is red", 0.10, 0.91, model.SensorRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := NewEnvironment(&seqRand{vals: []float64{0.5, 0.5, 0.5, tt.wind, tt.dust, 0.9}}, true)
			var tele model.Telemetry
			env.Apply(&tele)
			assert.Equal(t, tt.want, tele.SensorStatus)
		})
	}
}

func TestEnvironmentClassificationDisabledAlwaysGreen(t *testing.T) {
	// Red-worthy conditions, classification off.
	env := NewEnvironment(&seqRand{vals: []float64{0.5, 0.5, 0.5, 0.95, 0.95, 0.9}}, false)

	var tele model.Telemetry
	env.Apply(&tele)

	assert.Equal(t, model.SensorGreen, tele.SensorStatus)
}
