// Package types holds the JSON-serialisable payloads exchanged on the bus.
package types

// ---- Tones ----

// TonePattern names an audible feedback pattern the speaker can play.
type TonePattern string

const (
	ToneBeep    TonePattern = "beep"    // short confirmation chirp
	ToneWarning TonePattern = "warning" // triple chirp, rejected input / degraded sensor
	ToneError   TonePattern = "error"   // long alarm tone, latched fault
)

type ToneRequest struct {
	Pattern TonePattern `json:"pattern"`
	TSms    int64       `json:"ts_ms"`
}

// ---- Control status ----

type HeatStatus struct {
	Current  float64 `json:"current_c"`
	Target   float64 `json:"target_c"`
	PowerPct float64 `json:"power_pct"`
	TSms     int64   `json:"ts_ms"`
}

type PressStatus struct {
	Current  float64 `json:"current_mmhg"`
	Target   float64 `json:"target_mmhg"`
	Gear     uint8   `json:"gear"`
	SpeedPct uint8   `json:"speed_pct"`
	TSms     int64   `json:"ts_ms"`
}

// Snapshot is the full diagnostic state, published retained.
type Snapshot struct {
	Temperature    float64 `json:"temperature_c"`
	TargetTemp     float64 `json:"target_temp_c"`
	Pressure       float64 `json:"pressure_mmhg"`
	TargetPressure float64 `json:"target_pressure_mmhg"`
	Gear           uint8   `json:"gear"`
	NumGears       uint8   `json:"num_gears"`
	Enabled        bool    `json:"enabled"`
	EmergencyStop  bool    `json:"emergency_stop"`
	OverTempLatch  bool    `json:"over_temp_latched"`
	Safety         string  `json:"safety"`
	TSms           int64   `json:"ts_ms"`
}

// TripEvent reports a safety trip (currently only over-temperature).
type TripEvent struct {
	Reason  string  `json:"reason"`
	Reading float64 `json:"reading"`
	TSms    int64   `json:"ts_ms"`
}

// ---- Generic replies ----

type OKReply struct {
	OK bool `json:"ok"`
}

type ErrorReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}
