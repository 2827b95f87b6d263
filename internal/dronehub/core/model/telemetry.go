package model

// SensorStatus reflects how badly the environment impairs the drone's sensors.
type SensorStatus string

const (
	SensorGreen  SensorStatus = "GREEN"
	SensorYellow SensorStatus = "YELLOW"
	SensorRed    SensorStatus = "RED"
)

// Telemetry is the drone's physical and environmental state snapshot.
// The JSON field names are the wire contract with existing clients.
type Telemetry struct {
	// X is the horizontal position along the single flight axis.
	X int `json:"x_position"`

	// Y is the altitude. Negative altitude is a crash condition.
	Y int `json:"y_position"`

	// Battery is the remaining charge in percent.
	Battery float64 `json:"battery"`

	// Gyroscope holds the three orientation readings, each in [-1, 1].
	Gyroscope [3]float64 `json:"gyroscope"`

	// WindSpeed is the ambient wind in [0, 100].
	WindSpeed int `json:"wind_speed"`

	// DustLevel is the ambient dust in [0, 100].
	DustLevel int `json:"dust_level"`

	// SensorStatus is the sensor health classification.
	SensorStatus SensorStatus `json:"sensor_status"`
}

// NewTelemetry returns the state of a freshly launched drone.
func NewTelemetry() Telemetry {
	return Telemetry{
		Battery:      100,
		SensorStatus: SensorGreen,
	}
}

// Metrics are the cumulative flight metrics of one session.
type Metrics struct {
	// Iterations counts accepted commands with non-zero speed.
	Iterations int `json:"iterations"`

	// TotalDistance accumulates |Δx| over every accepted command,
	// including a command that crashes the drone.
	TotalDistance float64 `json:"total_distance"`
}
