package control

import (
	"testing"
	"time"

	"vacutherm-go/bus"
	"vacutherm-go/services/hal"
	"vacutherm-go/types"
)

// Stub peripherals. The HAL guard and debounce have their own tests; here
// the tasks get direct, scriptable values.

type stubSensor struct {
	v     float64
	valid bool
	reads int
}

func (s *stubSensor) Read() float64 { s.reads++; return s.v }
func (s *stubSensor) Valid() bool   { return s.valid }

type stubHeater struct {
	duty     uint8
	sets     int
	disables int
}

func (h *stubHeater) SetOutput(d uint8) { h.duty = d; h.sets++ }
func (h *stubHeater) Disable()          { h.duty = 0; h.disables++ }

type stubPump struct {
	speed   uint8
	running bool
	stops   int
}

func (p *stubPump) SetSpeed(pct uint8) { p.speed = pct }
func (p *stubPump) Start()             { p.running = true }
func (p *stubPump) Stop()              { p.running = false; p.speed = 0; p.stops++ }

type stubInput struct {
	pressed  bool
	released bool
	level    bool
}

func (i *stubInput) Update(_ time.Time) {}
func (i *stubInput) IsPressed() bool    { return i.level }
func (i *stubInput) WasPressed() bool   { v := i.pressed; i.pressed = false; return v }
func (i *stubInput) WasReleased() bool  { v := i.released; i.released = false; return v }
func (i *stubInput) IsLongPressed(_ time.Time, _ time.Duration) bool {
	return false
}

// rig bundles a task-level test fixture: stub profile, bus, tone capture.
type rig struct {
	profile *hal.Profile
	temp    *stubSensor
	press   *stubSensor
	heater  *stubHeater
	pump    *stubPump
	stop    *stubInput
	up      *stubInput
	down    *stubInput

	bus   *bus.Bus
	conn  *bus.Connection
	tones *bus.Subscription
	trips *bus.Subscription
}

func newRig(t *testing.T) *rig {
	r := &rig{
		temp:   &stubSensor{v: 25.0, valid: true},
		press:  &stubSensor{v: 0.0, valid: true},
		heater: &stubHeater{},
		pump:   &stubPump{},
		stop:   &stubInput{},
		up:     &stubInput{},
		down:   &stubInput{},
	}
	r.profile = &hal.Profile{
		Temperature: r.temp,
		Pressure:    r.press,
		Heater:      r.heater,
		Pump:        r.pump,
		Speaker:     hal.NewSimSpeaker(),
		Stop:        r.stop,
		Up:          r.up,
		Down:        r.down,
	}
	r.bus = bus.NewBus(64)
	r.conn = r.bus.NewConnection("test")
	listen := r.bus.NewConnection("listen")
	r.tones = listen.Subscribe(TopicTone)
	r.trips = listen.Subscribe(TopicTrip)
	t.Cleanup(listen.Disconnect)
	t.Cleanup(r.conn.Disconnect)
	return r
}

// drainTones returns the tone patterns published since the last call.
func (r *rig) drainTones() []types.TonePattern {
	var out []types.TonePattern
	for {
		select {
		case m := <-r.tones.Channel():
			if req, ok := m.Payload.(*types.ToneRequest); ok {
				out = append(out, req.Pattern)
			}
		default:
			return out
		}
	}
}

func (r *rig) tripCount() int {
	n := 0
	for {
		select {
		case <-r.trips.Channel():
			n++
		default:
			return n
		}
	}
}

func hasTone(tones []types.TonePattern, p types.TonePattern) bool {
	for _, t := range tones {
		if t == p {
			return true
		}
	}
	return false
}
