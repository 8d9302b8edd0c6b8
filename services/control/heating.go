package control

import (
	"math"
	"time"

	"vacutherm-go/bus"
	"vacutherm-go/services/hal"
	"vacutherm-go/types"
)

const heatStatusEvery = 5 * time.Second

// heatTask samples the thermocouple, runs the PID loop and owns the
// over-temperature trip. One step per period; all decisions happen inside
// the same step as the reading that caused them.
type heatTask struct {
	state  *SystemState
	pid    *PID
	sensor hal.TemperatureSource
	heater hal.Heater
	conn   *bus.Connection

	emergencyTemp float64
	lastStatus    time.Time
	wasRunning    bool
}

func newHeatTask(st *SystemState, p Params, prof *hal.Profile, conn *bus.Connection) *heatTask {
	return &heatTask{
		state:         st,
		pid:           NewPID(p),
		sensor:        prof.Temperature,
		heater:        prof.Heater,
		conn:          conn,
		emergencyTemp: p.EmergencyTemp,
	}
}

func (t *heatTask) step(now time.Time) {
	reading := t.sensor.Read()

	if !math.IsNaN(reading) {
		t.state.SetCurrentTemperature(reading)

		if reading >= t.emergencyTemp {
			t.trip(reading, now)
			return
		}
	}

	if t.state.OverTempLatched() || t.state.EmergencyStop() || !t.state.Enabled() {
		t.heater.Disable()
		if t.wasRunning {
			t.pid.Disable()
			t.wasRunning = false
		}
		return
	}

	if math.IsNaN(reading) {
		// No sample this cycle. Never run the PID on a reading we did not
		// take; the guard's Valid flag feeds the safety task separately.
		t.heater.Disable()
		return
	}

	current, target, ok := t.state.Thermal()
	if !ok {
		return // lock contention, skip the cycle
	}
	if !t.wasRunning {
		t.pid.Enable()
		t.wasRunning = true
	}
	t.pid.SetTarget(target)

	duty := t.pid.Update(current, now)
	t.heater.SetOutput(uint8(duty))

	t.report(current, target, duty, now)
}

// trip zeroes the heater and latches the fault in the same cycle as the
// offending reading.
func (t *heatTask) trip(reading float64, now time.Time) {
	t.heater.Disable()
	t.pid.Disable()
	t.wasRunning = false
	t.state.LatchOverTemp()

	t.conn.Publish(t.conn.NewMessage(TopicTrip, &types.TripEvent{
		Reason:  "over_temperature",
		Reading: reading,
		TSms:    now.UnixMilli(),
	}, true))
}

func (t *heatTask) report(current, target, duty float64, now time.Time) {
	if now.Sub(t.lastStatus) < heatStatusEvery {
		return
	}
	t.lastStatus = now
	t.conn.Publish(t.conn.NewMessage(TopicHeatStatus, &types.HeatStatus{
		Current:  current,
		Target:   target,
		PowerPct: duty / t.pid.outputMax * 100,
		TSms:     now.UnixMilli(),
	}, false))
}
