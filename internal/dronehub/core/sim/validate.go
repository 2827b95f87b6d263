// Package sim holds the pure flight simulation: command validation, the
// physics step, environmental effects and crash classification. Nothing in
// here blocks or touches the transport.
package sim

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/skyfleet-io/dronehub/internal/dronehub/core/model"
)

// RejectionError describes the first validation failure found in a command.
// It is recoverable: the session stays active and no state is mutated.
type RejectionError struct {
	Field   string
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

func reject(field, format string, args ...any) *RejectionError {
	return &RejectionError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// Validate checks a decoded command for type, range and enum violations,
// in the order speed, altitude, movement, and stops at the first bad field.
// input is the result of decoding a JSON frame with json.Number enabled.
func Validate(input any) (model.Command, *RejectionError) {
	var cmd model.Command

	obj, ok := input.(map[string]any)
	if !ok {
		return cmd, reject("", "input must be a JSON object, got %s", typeName(input))
	}

	speed, err := intField(obj, "speed")
	if err != nil {
		return cmd, err
	}
	if speed < 0 || speed > model.MaxSpeed {
		return cmd, reject("speed", "'speed' must be between 0 and %d, got %d", model.MaxSpeed, speed)
	}

	altitude, err := intField(obj, "altitude")
	if err != nil {
		return cmd, err
	}

	rawMovement, present := obj["movement"]
	if !present {
		return cmd, reject("movement", "'movement' is required")
	}
	movement, ok := rawMovement.(string)
	if !ok {
		return cmd, reject("movement", "'movement' must be a string, got %s", typeName(rawMovement))
	}
	switch model.Movement(movement) {
	case model.MovementForward, model.MovementReverse:
	default:
		return cmd, reject("movement", "'movement' must be one of ['fwd', 'rev'], got '%s'", movement)
	}

	cmd.Speed = int(speed)
	cmd.Altitude = int(altitude)
	cmd.Movement = model.Movement(movement)
	return cmd, nil
}

// intField extracts a required integral field from the decoded object.
func intField(obj map[string]any, field string) (int64, *RejectionError) {
	raw, present := obj[field]
	if !present {
		return 0, reject(field, "'%s' is required", field)
	}

	num, ok := raw.(json.Number)
	if !ok {
		return 0, reject(field, "'%s' must be an integer, got %s", field, typeName(raw))
	}

	v, err := num.Int64()
	if err != nil {
		return 0, reject(field, "'%s' must be an integer, got float", field)
	}

	return v, nil
}

// typeName names a decoded JSON value for error messages.
func typeName(v any) string {
	switch n := v.(type) {
	case nil:
		return "null"
	case json.Number:
		if strings.ContainsAny(n.String(), ".eE") {
			return "float"
		}
		return "integer"
	case string:
		return "string"
	case bool:
		return "bool"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
