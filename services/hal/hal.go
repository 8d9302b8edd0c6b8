// Package hal exposes the narrow capability contracts the control core
// consumes. A hardware profile (selected at build time) binds them to real
// peripherals on the MCU build or to simulated devices on host builds.
package hal

import (
	"time"

	"vacutherm-go/types"
)

// TemperatureSource yields °C readings. Read returns NaN once the source
// has been invalid for the guard threshold; Valid mirrors that state.
type TemperatureSource interface {
	Read() float64
	Valid() bool
}

// PressureSource yields vacuum readings in mmHg (positive magnitude).
type PressureSource interface {
	Read() float64
	Valid() bool
}

// Heater drives the heating pad. SetOutput takes a PWM duty in [0,255].
// Writing 0 is safe at any time; Disable is idempotent.
type Heater interface {
	SetOutput(duty uint8)
	Disable()
}

// Pump drives the vacuum pump. SetSpeed takes percent in [0,100].
// Stop forces the output to zero immediately, regardless of ramping.
type Pump interface {
	SetSpeed(pct uint8)
	Start()
	Stop()
}

// Speaker plays one of the fixed audible feedback patterns.
type Speaker interface {
	Play(p types.TonePattern)
}

// Input is an edge-aware operator control. Update must be called once per
// poll cycle; WasPressed/WasReleased fire once per transition.
type Input interface {
	Update(now time.Time)
	IsPressed() bool
	WasPressed() bool
	WasReleased() bool
	IsLongPressed(now time.Time, threshold time.Duration) bool
}

// PWM is the minimal output channel the actuator wrappers sit on.
type PWM interface {
	Set(level uint16)
	Top() uint16
}

// Profile is the full set of peripherals one hardware build provides.
type Profile struct {
	Temperature TemperatureSource
	Pressure    PressureSource
	Heater      Heater
	Pump        Pump
	Speaker     Speaker
	Stop        Input
	Up          Input
	Down        Input
}
