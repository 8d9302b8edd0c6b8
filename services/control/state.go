package control

import (
	"math"
	"sync/atomic"

	"vacutherm-go/errcode"
	"vacutherm-go/x/mathx"
	"vacutherm-go/x/syncx"
)

// SystemState is the one shared record of targets, measurements and run
// flags. It is split into two independently locked regions (thermal,
// pressure) so the two sampling tasks never contend with each other; run
// flags are atomics with latch semantics enforced here, not by callers.
//
// Accessors take the region lock with a bounded wait. A false/LockTimeout
// result means "skip this cycle", never an error condition.
type SystemState struct {
	params Params

	thermal     syncx.Mutex
	currentTemp float64
	targetTemp  float64

	pressure     syncx.Mutex
	currentPress float64
	gear         uint8

	enabled       atomic.Bool
	emergencyStop atomic.Bool
	overTempLatch atomic.Bool
}

func NewSystemState(p Params) *SystemState {
	s := &SystemState{
		params:       p,
		currentTemp:  math.NaN(),
		targetTemp:   p.TempDefault,
		currentPress: math.NaN(),
		gear:         p.DefaultGear,
	}
	return s
}

// ---- thermal region ----

// SetCurrentTemperature records a sampled reading. Only the heating task
// calls this.
func (s *SystemState) SetCurrentTemperature(v float64) bool {
	if !s.thermal.TryLockFor(s.params.LockTimeout) {
		return false
	}
	s.currentTemp = v
	s.thermal.Unlock()
	return true
}

// Thermal returns current and target temperature together, from one lock
// acquisition.
func (s *SystemState) Thermal() (current, target float64, ok bool) {
	if !s.thermal.TryLockFor(s.params.LockTimeout) {
		return 0, 0, false
	}
	current, target = s.currentTemp, s.targetTemp
	s.thermal.Unlock()
	return current, target, true
}

// SetTargetTemperature clamps to the configured limits.
func (s *SystemState) SetTargetTemperature(v float64) error {
	if !s.thermal.TryLockFor(s.params.LockTimeout) {
		return errcode.LockTimeout
	}
	s.targetTemp = mathx.Clamp(v, s.params.TempMin, s.params.TempMax)
	s.thermal.Unlock()
	return nil
}

// ---- pressure region ----

func (s *SystemState) SetCurrentPressure(v float64) bool {
	if !s.pressure.TryLockFor(s.params.LockTimeout) {
		return false
	}
	s.currentPress = v
	s.pressure.Unlock()
	return true
}

// Pressure returns the current reading, gear and the gear-derived target
// from one lock acquisition.
func (s *SystemState) Pressure() (current, target float64, gear uint8, ok bool) {
	if !s.pressure.TryLockFor(s.params.LockTimeout) {
		return 0, 0, 0, false
	}
	current, gear = s.currentPress, s.gear
	target = s.targetFor(gear)
	s.pressure.Unlock()
	return current, target, gear, true
}

func (s *SystemState) targetFor(gear uint8) float64 {
	return float64(gear) / float64(s.params.NumGears) * s.params.PressDefault
}

// GearUp increments the gear. errcode.GearLimit at the top gear,
// errcode.LockTimeout on contention.
func (s *SystemState) GearUp() error {
	if !s.pressure.TryLockFor(s.params.LockTimeout) {
		return errcode.LockTimeout
	}
	defer s.pressure.Unlock()
	if s.gear >= s.params.NumGears {
		return errcode.GearLimit
	}
	s.gear++
	return nil
}

// GearDown decrements the gear, refusing below gear 1.
func (s *SystemState) GearDown() error {
	if !s.pressure.TryLockFor(s.params.LockTimeout) {
		return errcode.LockTimeout
	}
	defer s.pressure.Unlock()
	if s.gear <= 1 {
		return errcode.GearLimit
	}
	s.gear--
	return nil
}

// ---- run flags ----

func (s *SystemState) Enabled() bool { return s.enabled.Load() }

func (s *SystemState) SetEnabled(v bool) { s.enabled.Store(v) }

func (s *SystemState) EmergencyStop() bool { return s.emergencyStop.Load() }

// TriggerEmergency is idempotent.
func (s *SystemState) TriggerEmergency() { s.emergencyStop.Store(true) }

// ClearEmergency refuses while the over-temperature latch is set: a thermal
// fault outlives any operator action, only a power cycle recovers.
func (s *SystemState) ClearEmergency() error {
	if s.overTempLatch.Load() {
		return errcode.FaultLatched
	}
	s.emergencyStop.Store(false)
	return nil
}

func (s *SystemState) OverTempLatched() bool { return s.overTempLatch.Load() }

// LatchOverTemp sets the latch and forces the emergency stop. There is no
// inverse operation.
func (s *SystemState) LatchOverTemp() {
	s.overTempLatch.Store(true)
	s.emergencyStop.Store(true)
}
