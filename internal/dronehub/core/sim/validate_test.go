package sim

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfleet-io/dronehub/internal/dronehub/core/model"
)

// decode parses a raw frame the way the protocol engine does.
func decode(t *testing.T, raw string) any {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v any
	require.NoError(t, dec.Decode(&v))
	return v
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    model.Command
		wantErr string
	}{
		{
			name: "valid forward",
			raw:  `{"speed": 3, "altitude": 10, "movement": "fwd"}`,
			want: model.Command{Speed: 3, Altitude: 10, Movement: model.MovementForward},
		},
		{
			name: "valid reverse with negative altitude",
			raw:  `{"speed": 0, "altitude": -4, "movement": "rev"}`,
			want: model.Command{Speed: 0, Altitude: -4, Movement: model.MovementReverse},
		},
		{
			name: "extra fields are ignored",
			raw:  `{"speed": 1, "altitude": 0, "movement": "fwd", "pilot": "ace"}`,
			want: model.Command{Speed: 1, Altitude: 0, Movement: model.MovementForward},
		},
		{
			name:    "not an object",
			raw:     `[1, 2, 3]`,
			wantErr: "input must be a JSON object, got array",
		},
		{
			name:    "speed missing",
			raw:     `{"altitude": 1, "movement": "fwd"}`,
			wantErr: "'speed' is required",
		},
		{
			name:    "speed wrong type",
			raw:     `{"speed": "3", "altitude": 1, "movement": "fwd"}`,
			wantErr: "'speed' must be an integer, got string",
		},
		{
			name:    "speed is a float",
			raw:     `{"speed": 2.5, "altitude": 1, "movement": "fwd"}`,
			wantErr: "'speed' must be an integer, got float",
		},
		{
			name:    "speed above range",
			raw:     `{"speed": 6, "altitude": 1, "movement": "fwd"}`,
			wantErr: "'speed' must be between 0 and 5, got 6",
		},
		{
			name:    "speed below range",
			raw:     `{"speed": -1, "altitude": 1, "movement": "fwd"}`,
			wantErr: "'speed' must be between 0 and 5, got -1",
		},
		{
			name:    "altitude wrong type",
			raw:     `{"speed": 1, "altitude": null, "movement": "fwd"}`,
			wantErr: "'altitude' must be an integer, got null",
		},
		{
			name:    "altitude is a float",
			raw:     `{"speed": 1, "altitude": 1.5, "movement": "fwd"}`,
			wantErr: "'altitude' must be an integer, got float",
		},
		{
			name:    "movement missing",
			raw:     `{"speed": 1, "altitude": 1}`,
			wantErr: "'movement' is required",
		},
		{
			name:    "movement wrong type",
			raw:     `{"speed": 1, "altitude": 1, "movement": 7}`,
			wantErr: "'movement' must be a string, got integer",
		},
		{
			name:    "movement out of vocabulary",
			raw:     `{"speed": 1, "altitude": 1, "movement": "up"}`,
			wantErr: "'movement' must be one of ['fwd', 'rev'], got 'up'",
		},
		{
			// speed is checked first, so its failure wins.
			name:    "first invalid field wins",
			raw:     `{"speed": 9, "altitude": "x", "movement": "up"}`,
			wantErr: "'speed' must be between 0 and 5, got 9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, rej := Validate(decode(t, tt.raw))
			if tt.wantErr != "" {
				require.NotNil(t, rej)
				assert.Equal(t, tt.wantErr, rej.Message)
				return
			}
			require.Nil(t, rej)
			assert.Equal(t, tt.want, cmd)
		})
	}
}
