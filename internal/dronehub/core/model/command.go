package model

// Movement is the horizontal direction of a command. The short forms are
// the wire vocabulary.
type Movement string

const (
	MovementForward Movement = "fwd"
	MovementReverse Movement = "rev"
)

// Command is a validated movement instruction.
type Command struct {
	// Speed in [0, MaxSpeed] units per tick along the x axis.
	Speed int `json:"speed"`

	// Altitude is a signed delta applied to y.
	Altitude int `json:"altitude"`

	// Movement selects the direction of horizontal travel.
	Movement Movement `json:"movement"`
}

// MaxSpeed is the upper bound of Command.Speed.
const MaxSpeed = 5
