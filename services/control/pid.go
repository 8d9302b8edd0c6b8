package control

import (
	"time"

	"vacutherm-go/x/mathx"
)

// defaultDT is assumed on the first Update after a reset, when no previous
// sample time exists.
const defaultDT = time.Second

// PID is the heating loop controller. It is owned by the heating task and
// needs no locking of its own. dt is taken from the actual elapsed time
// between updates so scheduling jitter does not skew the integral.
type PID struct {
	kp, ki, kd  float64
	integralMax float64
	outputMax   float64

	target   float64
	integral float64
	prevErr  float64
	lastOut  float64
	enabled  bool
	lastTime time.Time
	haveTime bool
}

func NewPID(p Params) *PID {
	return &PID{
		kp:          p.Kp,
		ki:          p.Ki,
		kd:          p.Kd,
		integralMax: p.IntegralMax,
		outputMax:   p.OutputMax,
		target:      p.TempDefault,
	}
}

// SetTarget changes the setpoint and clears the accumulated history, so a
// new target starts from a clean integral.
func (c *PID) SetTarget(t float64) {
	if t != c.target {
		c.target = t
		c.Reset()
	}
}

func (c *PID) Target() float64 { return c.target }

// Enable resets history; re-enabling after a pause must not replay a stale
// integral.
func (c *PID) Enable() {
	c.enabled = true
	c.Reset()
}

// Disable forces output to zero but keeps history untouched until the next
// Enable/Reset.
func (c *PID) Disable() {
	c.enabled = false
	c.lastOut = 0
}

func (c *PID) Enabled() bool { return c.enabled }

func (c *PID) Reset() {
	c.integral = 0
	c.prevErr = 0
	c.haveTime = false
}

// Update runs one PID step and returns the duty in [0, OutputMax].
// Disabled controllers return 0 without touching history.
func (c *PID) Update(current float64, now time.Time) float64 {
	if !c.enabled {
		c.lastOut = 0
		return 0
	}

	dt := defaultDT.Seconds()
	if c.haveTime {
		if e := now.Sub(c.lastTime).Seconds(); e > 0 {
			dt = e
		}
	}
	c.lastTime = now
	c.haveTime = true

	err := c.target - current
	c.integral = mathx.Clamp(c.integral+err*dt, -c.integralMax, c.integralMax)
	deriv := (err - c.prevErr) / dt
	c.prevErr = err

	out := c.kp*err + c.ki*c.integral + c.kd*deriv
	c.lastOut = mathx.Clamp(out, 0, c.outputMax)
	return c.lastOut
}

// LastOutput is the most recent duty, for status reporting.
func (c *PID) LastOutput() float64 { return c.lastOut }
