package goelsys

import "time"

// Telemetry is the ThingsBoard telemetry upload shape, e.g.
// `{"ts": 1756742602000, "values": {"temp": 22.5, "rh": 60}}`.
//
// see also
// - api: https://thingsboard.io/docs/reference/mqtt-api/#telemetry-upload-api
type Telemetry struct {
	// Unix timestamp in milliseconds
	Timestamp int64 `json:"ts"`
	// Decoded fields measured at the corresponding timestamp
	Values map[string]any `json:"values"`
}

// Telemetry wraps the decoded fields with the given timestamp.
func (r Result) Telemetry(ts time.Time) Telemetry {
	return Telemetry{
		Timestamp: ts.UnixMilli(),
		Values:    r.fields(),
	}
}
