package hal

import (
	"testing"
	"time"

	"vacutherm-go/x/timex"
)

func TestPWMHeaterDutyMapping(t *testing.T) {
	pwm := NewSimPWM(0xFFFF)
	h := NewPWMHeater(pwm)

	h.SetOutput(0)
	if pwm.Level() != 0 {
		t.Errorf("duty 0: level %d", pwm.Level())
	}
	h.SetOutput(255)
	if pwm.Level() != 0xFFFF {
		t.Errorf("duty 255: level %d, want 65535", pwm.Level())
	}
	h.SetOutput(128)
	lvl := pwm.Level()
	if lvl < 0x7F00 || lvl > 0x8100 {
		t.Errorf("duty 128: level %d, want ~32768", lvl)
	}
	h.Disable()
	if pwm.Level() != 0 {
		t.Errorf("disable: level %d", pwm.Level())
	}
}

func TestRampedPumpReachesTarget(t *testing.T) {
	pwm := NewSimPWM(1000)
	clk := timex.NewFakeClock(time.Unix(0, 0))
	p := NewRampedPump(pwm, clk)

	p.SetSpeed(80)
	if pwm.Level() != 0 {
		t.Fatalf("speed set while stopped moved output: %d", pwm.Level())
	}

	p.Start()
	for i := 0; i < 20; i++ {
		clk.Advance(25 * time.Millisecond)
		time.Sleep(time.Millisecond)
	}
	waitLevel(t, pwm, 800)
}

func TestRampedPumpStopSnapsToZero(t *testing.T) {
	pwm := NewSimPWM(1000)
	clk := timex.NewFakeClock(time.Unix(0, 0))
	p := NewRampedPump(pwm, clk)

	p.Start()
	p.SetSpeed(60)
	clk.Advance(50 * time.Millisecond)
	time.Sleep(time.Millisecond)

	p.Stop()
	if pwm.Level() != 0 {
		t.Fatalf("stop did not zero output: %d", pwm.Level())
	}

	// A cancelled ramp ticking afterwards must not disturb the output.
	for i := 0; i < 10; i++ {
		clk.Advance(25 * time.Millisecond)
		time.Sleep(time.Millisecond)
	}
	if pwm.Level() != 0 {
		t.Fatalf("cancelled ramp wrote output after stop: %d", pwm.Level())
	}

	p.Stop() // repeat stop is safe
}

func TestRampedPumpStaleStepCannotOverrideStop(t *testing.T) {
	pwm := NewSimPWM(1000)
	clk := timex.NewFakeClock(time.Unix(0, 0))
	p := NewRampedPump(pwm, clk)

	p.SetSpeed(80)
	p.Start()

	// Capture the in-flight ramp's cancel token, then stop. A step from
	// that ramp delivered after Stop must be rejected, not written.
	p.mu.Lock()
	stale := p.cancel
	p.mu.Unlock()

	p.Stop()
	p.apply(stale, 800)
	if pwm.Level() != 0 {
		t.Fatalf("stale ramp step overwrote stop: level %d", pwm.Level())
	}

	// And a live ramp's steps still go through.
	p.Start()
	p.mu.Lock()
	live := p.cancel
	p.mu.Unlock()
	p.apply(live, 400)
	if pwm.Level() != 400 {
		t.Fatalf("live ramp step dropped: level %d", pwm.Level())
	}
}

func waitLevel(t *testing.T, pwm *SimPWM, want uint16) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if pwm.Level() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("level %d never reached, stuck at %d", want, pwm.Level())
}
