package control

import (
	"time"

	"vacutherm-go/bus"
	"vacutherm-go/services/hal"
	"vacutherm-go/types"
)

const snapshotEvery = 10 * time.Second

// uiTask polls the operator controls and turns edges into state mutations.
// Accepted mutations get a confirmation beep, rejected ones a warning tone.
type uiTask struct {
	state  *SystemState
	params Params
	stop   hal.Input
	up     hal.Input
	down   hal.Input
	conn   *bus.Connection
	safety *safetyTask

	lastSnapshot time.Time
}

func newUITask(st *SystemState, p Params, prof *hal.Profile, conn *bus.Connection, safety *safetyTask) *uiTask {
	return &uiTask{
		state:  st,
		params: p,
		stop:   prof.Stop,
		up:     prof.Up,
		down:   prof.Down,
		conn:   conn,
		safety: safety,
	}
}

func (t *uiTask) step(now time.Time) {
	t.stop.Update(now)
	t.up.Update(now)
	t.down.Update(now)

	if t.stop.WasPressed() {
		t.state.TriggerEmergency()
		t.tone(types.ToneWarning, now)
	}
	if t.stop.WasReleased() {
		if err := t.state.ClearEmergency(); err != nil {
			// Latched thermal fault: the stop control cannot clear it.
			t.tone(types.ToneWarning, now)
		} else {
			t.tone(types.ToneBeep, now)
		}
	}

	if t.up.WasPressed() {
		t.applyGear(t.state.GearUp(), now)
	}
	if t.down.WasPressed() {
		t.applyGear(t.state.GearDown(), now)
	}

	t.snapshot(now)
}

func (t *uiTask) applyGear(err error, now time.Time) {
	if err != nil {
		t.tone(types.ToneWarning, now)
		return
	}
	t.tone(types.ToneBeep, now)
}

func (t *uiTask) snapshot(now time.Time) {
	if now.Sub(t.lastSnapshot) < snapshotEvery {
		return
	}

	cur, tgt, ok := t.state.Thermal()
	if !ok {
		return // try again next cycle
	}
	pcur, ptgt, gear, ok := t.state.Pressure()
	if !ok {
		return
	}
	t.lastSnapshot = now

	t.conn.Publish(t.conn.NewMessage(TopicSnapshot, &types.Snapshot{
		Temperature:    cur,
		TargetTemp:     tgt,
		Pressure:       pcur,
		TargetPressure: ptgt,
		Gear:           gear,
		NumGears:       t.params.NumGears,
		Enabled:        t.state.Enabled(),
		EmergencyStop:  t.state.EmergencyStop(),
		OverTempLatch:  t.state.OverTempLatched(),
		Safety:         t.safety.Mode().String(),
		TSms:           now.UnixMilli(),
	}, true))
}

func (t *uiTask) tone(p types.TonePattern, now time.Time) {
	t.conn.Publish(t.conn.NewMessage(TopicTone, &types.ToneRequest{
		Pattern: p,
		TSms:    now.UnixMilli(),
	}, false))
}
