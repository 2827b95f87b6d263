package options

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultsAreValid(t *testing.T) {
	all := []IOptions{
		NewServerOptions(),
		NewSimOptions(),
		NewLivenessOptions(),
		NewHttpOptions(),
		NewMqttOptions(),
		NewSnapshotOptions(),
		NewS3Options(),
	}
	for _, o := range all {
		assert.Empty(t, o.Validate())
	}
}

func TestServerOptionsRejectsBadAddress(t *testing.T) {
	o := NewServerOptions()
	o.Addr = "no-port"
	assert.NotEmpty(t, o.Validate())
}

func TestLivenessOptionsValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *LivenessOptions)
		wantErr bool
	}{
		{"defaults", func(o *LivenessOptions) {}, false},
		{"zero heartbeat", func(o *LivenessOptions) { o.HeartbeatInterval = 0 }, true},
		{"zero probe timeout", func(o *LivenessOptions) { o.ProbeTimeout = 0 }, true},
		{"zero inactivity", func(o *LivenessOptions) { o.InactivityTimeout = 0 }, true},
		{
			"probe timeout not shorter than heartbeat",
			func(o *LivenessOptions) {
				o.HeartbeatInterval = 10 * time.Second
				o.ProbeTimeout = 10 * time.Second
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewLivenessOptions()
			tt.mutate(o)
			errs := o.Validate()
			if tt.wantErr {
				assert.NotEmpty(t, errs)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestSnapshotOptionsRejectsUnknownMode(t *testing.T) {
	o := NewSnapshotOptions()
	o.Mode = "tape"
	assert.NotEmpty(t, o.Validate())
}

func TestMqttOptionsEnabled(t *testing.T) {
	o := NewMqttOptions()
	assert.False(t, o.Enabled())

	o.Broker = "mqtt://localhost:1883"
	assert.True(t, o.Enabled())
}

func TestSimOptionsRejectsNonPositiveBound(t *testing.T) {
	o := NewSimOptions()
	o.MaxX = 0
	assert.NotEmpty(t, o.Validate())
}
