package control

import (
	"math"
	"testing"
	"time"
)

func newPressRig(t *testing.T) (*rig, *pressTask, *SystemState) {
	r := newRig(t)
	p := DefaultParams()
	st := NewSystemState(p)
	st.SetEnabled(true)
	return r, newPressTask(st, p, r.profile, r.conn), st
}

func TestPressureThreeLevelSelection(t *testing.T) {
	// Gear 5 → target 7.5 mmHg, threshold ±2.0.
	cases := []struct {
		name    string
		reading float64
		want    uint8
	}{
		{"far below target", 2.0, 80},  // error +5.5 > +2 → high
		{"near target", 7.0, 60},       // error +0.5 → mid
		{"overshoot", 11.0, 40},        // error −3.5 < −2 → low
		{"upper band edge", 9.4, 60},   // error −1.9 → still mid
		{"lower band edge", 5.6, 60},   // error +1.9 → still mid
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, task, _ := newPressRig(t)
			r.press.v = c.reading
			task.step(time.Unix(100, 0))
			if !r.pump.running {
				t.Fatal("pump not started")
			}
			if r.pump.speed != c.want {
				t.Fatalf("speed = %d, want %d", r.pump.speed, c.want)
			}
		})
	}
}

func TestPressureGearScalesTarget(t *testing.T) {
	r, task, st := newPressRig(t)
	for i := 0; i < 5; i++ {
		_ = st.GearUp()
	}
	// Gear 10 → target 15.0; at 7.5 mmHg the error is +7.5 → high speed.
	r.press.v = 7.5
	task.step(time.Unix(100, 0))
	if r.pump.speed != 80 {
		t.Fatalf("speed = %d, want 80 at gear 10", r.pump.speed)
	}
}

func TestPressureStoppedWhenDisabled(t *testing.T) {
	r, task, st := newPressRig(t)
	r.press.v = 2.0
	task.step(time.Unix(100, 0))
	if !r.pump.running {
		t.Fatal("precondition: pump running")
	}

	st.TriggerEmergency()
	task.step(time.Unix(101, 0))
	if r.pump.running || r.pump.speed != 0 {
		t.Fatal("pump still running under emergency stop")
	}

	// While stopped the controller does no error math and issues no
	// further pump commands.
	stops := r.pump.stops
	task.step(time.Unix(102, 0))
	if r.pump.stops != stops {
		t.Fatal("stop reissued every cycle")
	}
}

func TestPressureNaNSkipsCycle(t *testing.T) {
	r, task, st := newPressRig(t)
	r.press.v = 7.0
	task.step(time.Unix(100, 0))
	speed := r.pump.speed

	r.press.v = math.NaN()
	r.press.valid = false
	task.step(time.Unix(101, 0))

	cur, _, _, _ := st.Pressure()
	if cur != 7.0 {
		t.Fatalf("currentPressure = %v, want previous 7.0", cur)
	}
	if r.pump.speed != speed {
		t.Fatalf("speed changed on a NaN reading: %d -> %d", speed, r.pump.speed)
	}
	if st.EmergencyStop() || st.OverTempLatched() {
		t.Fatal("pressure fault must never trip safety")
	}
}

func TestPressureKeepsSamplingDuringEmergencyStop(t *testing.T) {
	r, task, st := newPressRig(t)
	r.press.v = 7.0
	task.step(time.Unix(100, 0))

	st.TriggerEmergency()
	reads := r.press.reads
	for i := 0; i < 10; i++ {
		r.press.v = 7.0 + float64(i)
		task.step(time.Unix(int64(101+i), 0))
	}
	if r.press.reads != reads+10 {
		t.Fatalf("sensor read %d times across 10 stopped cycles, want 10", r.press.reads-reads)
	}
	cur, _, _, _ := st.Pressure()
	if cur != 16.0 {
		t.Fatalf("currentPressure = %v, want latest sample 16.0", cur)
	}
	if r.pump.running || r.pump.speed != 0 {
		t.Fatal("pump actuated under emergency stop")
	}
}

func TestPressureNeverActuatesBeforeFirstSample(t *testing.T) {
	r, task, _ := newPressRig(t)
	r.press.v = math.NaN()
	r.press.valid = false
	task.step(time.Unix(100, 0))
	if r.pump.running {
		t.Fatal("pump started with no sample ever accepted")
	}
}
