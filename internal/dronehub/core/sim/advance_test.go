package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfleet-io/dronehub/internal/dronehub/core/model"
)

// seqRand replays a fixed sequence of draws, cycling when exhausted.
type seqRand struct {
	vals []float64
	i    int
}

func (r *seqRand) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

// calmEnv returns an environment whose draws never trigger a storm
// (the storm roll of 0.5 is above the 0.4 threshold).
func calmEnv() *Environment {
	return NewEnvironment(&seqRand{vals: []float64{0.5}}, false)
}

func TestAdvance(t *testing.T) {
	env := calmEnv()
	tele := model.NewTelemetry()

	tele = Advance(tele, model.Command{Speed: 5, Altitude: 1, Movement: model.MovementForward}, env)
	assert.Equal(t, 5, tele.X)
	assert.Equal(t, 1, tele.Y)
	// 100 - (0.5*5 + 0.005*1 + 0.5)
	assert.InDelta(t, 96.995, tele.Battery, 1e-9)

	tele = Advance(tele, model.Command{Speed: 3, Altitude: 0, Movement: model.MovementReverse}, env)
	assert.Equal(t, 2, tele.X)
	assert.Equal(t, 1, tele.Y)
	// 96.995 - (0.5*3 + 0 + 0.5)
	assert.InDelta(t, 94.995, tele.Battery, 1e-9)
}

func TestAdvanceHoverStillDrains(t *testing.T) {
	env := calmEnv()
	tele := model.NewTelemetry()

	tele = Advance(tele, model.Command{Speed: 0, Altitude: 0, Movement: model.MovementForward}, env)
	assert.Equal(t, 0, tele.X)
	assert.Equal(t, 0, tele.Y)
	assert.InDelta(t, 99.5, tele.Battery, 1e-9)
}

func TestAdvanceAltitudeDrainUsesMagnitude(t *testing.T) {
	env := calmEnv()
	tele := model.NewTelemetry()
	tele.Y = 100

	tele = Advance(tele, model.Command{Speed: 0, Altitude: -50, Movement: model.MovementForward}, env)
	assert.Equal(t, 50, tele.Y)
	// 100 - (0 + 0.005*50 + 0.5)
	assert.InDelta(t, 99.25, tele.Battery, 1e-9)
}

func TestClassifyCrash(t *testing.T) {
	const maxX = 100000

	tests := []struct {
		name       string
		tele       model.Telemetry
		wantReason string
		wantTele   func(t *testing.T, tele model.Telemetry)
	}{
		{
			name:       "battery depleted clamps to zero",
			tele:       model.Telemetry{Battery: -1.25, Y: 5},
			wantReason: ReasonBatteryDepleted,
			wantTele: func(t *testing.T, tele model.Telemetry) {
				assert.Zero(t, tele.Battery)
			},
		},
		{
			name:       "negative altitude clamps to zero",
			tele:       model.Telemetry{Battery: 50, Y: -3},
			wantReason: ReasonNegativeAltitude,
			wantTele: func(t *testing.T, tele model.Telemetry) {
				assert.Zero(t, tele.Y)
			},
		},
		{
			name:       "past positive bound",
			tele:       model.Telemetry{Battery: 50, X: maxX + 1},
			wantReason: ReasonMaxPosition,
		},
		{
			name:       "past negative bound",
			tele:       model.Telemetry{Battery: 50, X: -maxX - 1},
			wantReason: ReasonMaxPosition,
		},
		{
			name: "exactly at the bound survives",
			tele: model.Telemetry{Battery: 50, X: maxX},
		},
		{
			// All three conditions hold; battery is reported.
			name:       "battery outranks the others",
			tele:       model.Telemetry{Battery: 0, Y: -2, X: maxX + 1},
			wantReason: ReasonBatteryDepleted,
			wantTele: func(t *testing.T, tele model.Telemetry) {
				assert.Zero(t, tele.Battery)
				// Only the reported violation is clamped.
				assert.Equal(t, -2, tele.Y)
			},
		},
		{
			name:       "altitude outranks position",
			tele:       model.Telemetry{Battery: 50, Y: -1, X: maxX + 1},
			wantReason: ReasonNegativeAltitude,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tele := tt.tele
			reason, crashed := ClassifyCrash(&tele, maxX)
			if tt.wantReason == "" {
				require.False(t, crashed)
				return
			}
			require.True(t, crashed)
			assert.Equal(t, tt.wantReason, reason)
			if tt.wantTele != nil {
				tt.wantTele(t, tele)
			}
		})
	}
}
