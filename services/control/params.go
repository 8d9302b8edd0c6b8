package control

import "time"

// Params is the compiled-in control configuration. The config service can
// override individual fields through the retained config/control message;
// everything is fixed before the tasks start.
type Params struct {
	// Temperature, °C.
	TempDefault   float64
	TempMin       float64
	TempMax       float64
	EmergencyTemp float64

	// PID gains for the heating loop.
	Kp          float64
	Ki          float64
	Kd          float64
	IntegralMax float64
	OutputMax   float64

	// Vacuum, mmHg positive magnitude.
	PressDefault   float64
	PressThreshold float64

	NumGears    uint8
	DefaultGear uint8

	// Pump speed levels, percent.
	PumpHigh uint8
	PumpMid  uint8
	PumpLow  uint8

	// Task periods.
	HeatPeriod   time.Duration
	PressPeriod  time.Duration
	SafetyPeriod time.Duration
	UIPeriod     time.Duration

	// Bounded wait for state locks; on timeout the cycle is skipped.
	LockTimeout time.Duration
}

func DefaultParams() Params {
	return Params{
		TempDefault:   37.0,
		TempMin:       30.0,
		TempMax:       42.0,
		EmergencyTemp: 45.0,

		Kp:          25.0,
		Ki:          0.5,
		Kd:          5.0,
		IntegralMax: 100.0,
		OutputMax:   255.0,

		PressDefault:   15.0,
		PressThreshold: 2.0,

		NumGears:    10,
		DefaultGear: 5,

		PumpHigh: 80,
		PumpMid:  60,
		PumpLow:  40,

		HeatPeriod:   500 * time.Millisecond,
		PressPeriod:  100 * time.Millisecond,
		SafetyPeriod: 500 * time.Millisecond,
		UIPeriod:     50 * time.Millisecond,

		LockTimeout: 10 * time.Millisecond,
	}
}

// ApplyMap overlays fields present in a decoded config/control payload.
// Unknown keys are ignored; wrong-typed values keep the default.
func (p *Params) ApplyMap(m map[string]any) {
	f := func(key string, dst *float64) {
		if v, ok := m[key].(float64); ok {
			*dst = v
		}
	}
	u8 := func(key string, dst *uint8) {
		if v, ok := m[key].(float64); ok && v >= 0 && v <= 255 {
			*dst = uint8(v)
		}
	}
	f("temp_target", &p.TempDefault)
	f("temp_min", &p.TempMin)
	f("temp_max", &p.TempMax)
	f("temp_emergency", &p.EmergencyTemp)
	f("pid_kp", &p.Kp)
	f("pid_ki", &p.Ki)
	f("pid_kd", &p.Kd)
	f("press_target", &p.PressDefault)
	f("press_threshold", &p.PressThreshold)
	u8("gear_default", &p.DefaultGear)
	u8("gear_count", &p.NumGears)
	u8("pump_high_pct", &p.PumpHigh)
	u8("pump_mid_pct", &p.PumpMid)
	u8("pump_low_pct", &p.PumpLow)

	if p.NumGears == 0 {
		p.NumGears = 1
	}
	if p.DefaultGear < 1 {
		p.DefaultGear = 1
	}
	if p.DefaultGear > p.NumGears {
		p.DefaultGear = p.NumGears
	}
}
