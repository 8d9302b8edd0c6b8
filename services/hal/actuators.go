package hal

import (
	"sync"
	"time"

	"vacutherm-go/x/mathx"
	"vacutherm-go/x/ramp"
	"vacutherm-go/x/timex"
)

// PWMHeater maps a 0..255 duty command onto whatever resolution the
// underlying PWM channel has.
type PWMHeater struct {
	pwm PWM
}

func NewPWMHeater(pwm PWM) *PWMHeater { return &PWMHeater{pwm: pwm} }

func (h *PWMHeater) SetOutput(duty uint8) {
	h.pwm.Set(mathx.MapU16(uint16(duty), 0, 255, 0, h.pwm.Top()))
}

func (h *PWMHeater) Disable() { h.pwm.Set(0) }

// Pump ramp shape. Level changes glide over rampDuration to avoid current
// spikes from the pump motor; Stop always snaps to zero.
const (
	pumpRampDuration = 200 * time.Millisecond
	pumpRampSteps    = 8
)

// RampedPump drives the vacuum pump PWM with ramped speed transitions.
type RampedPump struct {
	pwm PWM
	clk timex.Clock

	mu      sync.Mutex
	running bool
	pct     uint8
	cur     uint16
	cancel  chan struct{}
}

func NewRampedPump(pwm PWM, clk timex.Clock) *RampedPump {
	return &RampedPump{pwm: pwm, clk: clk}
}

// SetSpeed records the commanded percent and, if the pump is running,
// ramps the output toward it.
func (p *RampedPump) SetSpeed(pct uint8) {
	if pct > 100 {
		pct = 100
	}
	p.mu.Lock()
	p.pct = pct
	if p.running {
		p.rampToLocked(p.levelFor(pct))
	}
	p.mu.Unlock()
}

func (p *RampedPump) Start() {
	p.mu.Lock()
	p.running = true
	p.rampToLocked(p.levelFor(p.pct))
	p.mu.Unlock()
}

// Stop cancels any ramp in flight and forces the output to zero
// immediately. Safe to call at any time, including repeatedly.
func (p *RampedPump) Stop() {
	p.mu.Lock()
	p.running = false
	if p.cancel != nil {
		close(p.cancel)
		p.cancel = nil
	}
	p.cur = 0
	p.pwm.Set(0)
	p.mu.Unlock()
}

func (p *RampedPump) levelFor(pct uint8) uint16 {
	return mathx.MapU16(uint16(pct), 0, 100, 0, p.pwm.Top())
}

// rampToLocked replaces the active ramp with one toward `to`.
// Caller holds p.mu.
func (p *RampedPump) rampToLocked(to uint16) {
	if p.cancel != nil {
		close(p.cancel)
	}
	cancel := make(chan struct{})
	p.cancel = cancel

	from := p.cur
	top := p.pwm.Top()
	go ramp.StartLinear(from, to, top,
		uint32(pumpRampDuration/time.Millisecond), pumpRampSteps,
		func(d time.Duration) bool {
			select {
			case <-cancel:
				return false
			case <-p.clk.After(d):
				return true
			}
		},
		func(level uint16) { p.apply(cancel, level) })
}

// apply commits one ramp step. The ownership check and the hardware write
// share one critical section with Stop, so a step from a superseded ramp
// can never land after Stop's zero or after a newer ramp's write.
func (p *RampedPump) apply(cancel chan struct{}, level uint16) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != cancel || !p.running {
		return
	}
	p.cur = level
	p.pwm.Set(level)
}
