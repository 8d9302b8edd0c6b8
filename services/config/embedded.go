package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
//
// Omitted control fields fall back to the compiled-in defaults.
// -----------------------------------------------------------------------------

const cfgVacuthermPico = `{
  "control": {
      "temp_target": 37.0,
      "temp_min": 30.0,
      "temp_max": 42.0,
      "temp_emergency": 45.0,
      "pid_kp": 25.0,
      "pid_ki": 0.5,
      "pid_kd": 5.0,
      "press_target": 15.0,
      "press_threshold": 2.0,
      "gear_default": 5
  },
  "hal": {
      "pump_min_pct": 40,
      "pump_max_pct": 80
  }
}`

// Host simulator: same control tuning, plant model stands in for hardware.
const cfgHostSim = `{
  "control": {
      "temp_target": 37.0,
      "press_target": 15.0
  },
  "hal": {
  }
}`

var embeddedConfigs = map[string][]byte{
	"vacutherm-pico": []byte(cfgVacuthermPico),
	"host-sim":       []byte(cfgHostSim),
}
