package topic

// Standard MQTT wildcard definitions.
const (
	// Wildcard is the single-level wildcard "+". It matches exactly one
	// topic level: "telemetry/+" matches "telemetry/abc".
	Wildcard = "+"

	// MultiWildcard is the multi-level wildcard "#". It matches the current
	// level and all subsequent levels and must terminate the filter.
	MultiWildcard = "#"
)
