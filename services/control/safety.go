package control

import (
	"sync/atomic"
	"time"

	"vacutherm-go/bus"
	"vacutherm-go/services/hal"
	"vacutherm-go/types"
)

// SafetyMode is the safety monitor's state machine position.
type SafetyMode uint8

const (
	SafetyNormal SafetyMode = iota
	SafetyEmergencyStop
	SafetyOverTempFault
)

func (m SafetyMode) String() string {
	switch m {
	case SafetyNormal:
		return "normal"
	case SafetyEmergencyStop:
		return "emergency_stop"
	case SafetyOverTempFault:
		return "over_temperature_fault"
	default:
		return "unknown"
	}
}

// Alert throttles. The fault alarm repeats fastest; the sensor warning is
// informational and kept quiet.
const (
	faultAlertEvery    = time.Second
	estopBeepEvery     = 2 * time.Second
	sensorWarningEvery = 5 * time.Second
)

// safetyTask watches the run flags and sensor validity and turns them into
// audible feedback. The over-temperature state is terminal: once entered it
// never transitions out, matching the latch in SystemState.
type safetyTask struct {
	state *SystemState
	temp  hal.TemperatureSource
	press hal.PressureSource
	conn  *bus.Connection

	// mode is read by the interaction task for snapshots.
	mode atomic.Uint32

	lastFaultAlert time.Time
	lastEstopBeep  time.Time
	lastSensorWarn time.Time
}

func newSafetyTask(st *SystemState, prof *hal.Profile, conn *bus.Connection) *safetyTask {
	return &safetyTask{
		state: st,
		temp:  prof.Temperature,
		press: prof.Pressure,
		conn:  conn,
	}
}

func (t *safetyTask) step(now time.Time) {
	mode := t.Mode()
	switch {
	case t.state.OverTempLatched():
		mode = SafetyOverTempFault
	case mode == SafetyOverTempFault:
		// Terminal. The latch cannot clear, but keep the guard explicit.
	case t.state.EmergencyStop():
		mode = SafetyEmergencyStop
	default:
		mode = SafetyNormal
	}
	t.mode.Store(uint32(mode))

	switch mode {
	case SafetyOverTempFault:
		if now.Sub(t.lastFaultAlert) >= faultAlertEvery {
			t.lastFaultAlert = now
			t.tone(types.ToneError, now)
		}
	case SafetyEmergencyStop:
		if now.Sub(t.lastEstopBeep) >= estopBeepEvery {
			t.lastEstopBeep = now
			t.tone(types.ToneBeep, now)
		}
	}

	if !t.temp.Valid() || !t.press.Valid() {
		if now.Sub(t.lastSensorWarn) >= sensorWarningEvery {
			t.lastSensorWarn = now
			t.tone(types.ToneWarning, now)
		}
	}
}

func (t *safetyTask) Mode() SafetyMode { return SafetyMode(t.mode.Load()) }

func (t *safetyTask) tone(p types.TonePattern, now time.Time) {
	t.conn.Publish(t.conn.NewMessage(TopicTone, &types.ToneRequest{
		Pattern: p,
		TSms:    now.UnixMilli(),
	}, false))
}
