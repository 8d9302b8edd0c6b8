package control

import (
	"math"
	"time"

	"vacutherm-go/bus"
	"vacutherm-go/services/hal"
	"vacutherm-go/types"
)

const pressStatusEvery = 5 * time.Second

// pressTask keeps the vacuum near the gear-selected target with a
// three-level speed selector. Pressure faults are not safety critical: a
// NaN reading just skips the cycle.
type pressTask struct {
	state  *SystemState
	sensor hal.PressureSource
	pump   hal.Pump
	conn   *bus.Connection

	threshold float64
	high      uint8
	mid       uint8
	low       uint8

	running    bool
	speed      uint8
	lastStatus time.Time
}

func newPressTask(st *SystemState, p Params, prof *hal.Profile, conn *bus.Connection) *pressTask {
	return &pressTask{
		state:     st,
		sensor:    prof.Pressure,
		pump:      prof.Pump,
		conn:      conn,
		threshold: p.PressThreshold,
		high:      p.PumpHigh,
		mid:       p.PumpMid,
		low:       p.PumpLow,
	}
}

func (t *pressTask) step(now time.Time) {
	// Sample every cycle, even while actuation is suppressed: snapshots
	// stay live and the guard's failure counter keeps running.
	reading := t.sensor.Read()
	if !math.IsNaN(reading) {
		t.state.SetCurrentPressure(reading)
	}

	if t.state.EmergencyStop() || !t.state.Enabled() {
		if t.running {
			t.pump.Stop()
			t.running = false
			t.speed = 0
		}
		return
	}

	if math.IsNaN(reading) {
		// No usable sample; leave the pump where it is for one cycle.
		// Pressure faults are not safety critical; the safety task raises
		// the audible warning.
		return
	}

	current, target, gear, ok := t.state.Pressure()
	if !ok {
		return
	}

	if !t.running {
		t.pump.Start()
		t.running = true
	}

	err := target - current
	switch {
	case err > t.threshold:
		t.speed = t.high
	case err < -t.threshold:
		t.speed = t.low
	default:
		t.speed = t.mid
	}
	t.pump.SetSpeed(t.speed)

	t.report(current, target, gear, now)
}

func (t *pressTask) report(current, target float64, gear uint8, now time.Time) {
	if now.Sub(t.lastStatus) < pressStatusEvery {
		return
	}
	t.lastStatus = now
	t.conn.Publish(t.conn.NewMessage(TopicPressStatus, &types.PressStatus{
		Current:  current,
		Target:   target,
		Gear:     gear,
		SpeedPct: t.speed,
		TSms:     now.UnixMilli(),
	}, false))
}
