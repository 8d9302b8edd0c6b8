package hal

import (
	"context"
	"sync"
	"time"

	"vacutherm-go/types"
	"vacutherm-go/x/timex"
)

// Simulated peripherals for host builds and tests.

// Rig is the simulated bench behind the host Profile: the plant model plus
// handles on the raw peripherals so a harness can poke them. MCU profiles
// return a nil Rig.
type Rig struct {
	Plant     *Plant
	HeaterPWM *SimPWM
	PumpPWM   *SimPWM
	Speaker   *SimSpeaker
	StopSw    *SimSwitch
	UpSw      *SimSwitch
	DownSw    *SimSwitch
}

// SimPWM records the most recent level.
type SimPWM struct {
	mu    sync.Mutex
	level uint16
	top   uint16
}

func NewSimPWM(top uint16) *SimPWM {
	if top == 0 {
		top = 0xFFFF
	}
	return &SimPWM{top: top}
}

func (s *SimPWM) Set(level uint16) {
	s.mu.Lock()
	s.level = level
	s.mu.Unlock()
}

func (s *SimPWM) Top() uint16 { return s.top }

func (s *SimPWM) Level() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// SimSpeaker records played patterns.
type SimSpeaker struct {
	mu     sync.Mutex
	played []types.TonePattern
}

func NewSimSpeaker() *SimSpeaker { return &SimSpeaker{} }

func (s *SimSpeaker) Play(p types.TonePattern) {
	s.mu.Lock()
	s.played = append(s.played, p)
	s.mu.Unlock()
}

func (s *SimSpeaker) Played() []types.TonePattern {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.TonePattern, len(s.played))
	copy(out, s.played)
	return out
}

// SimSwitch is a settable raw level for driving Button in tests and the
// host simulator.
type SimSwitch struct {
	mu    sync.Mutex
	level bool
}

func NewSimSwitch() *SimSwitch { return &SimSwitch{} }

func (s *SimSwitch) SetLevel(v bool) {
	s.mu.Lock()
	s.level = v
	s.mu.Unlock()
}

func (s *SimSwitch) Level() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// Plant is a crude first-order thermal/pneumatic model so the host build
// produces plausible sensor values: temperature relaxes toward ambient
// plus heater contribution, vacuum toward a pump-speed-proportional level.
type Plant struct {
	mu sync.Mutex

	Ambient   float64
	TempGain  float64 // °C above ambient at full heater duty
	VacGain   float64 // mmHg at 100% pump speed
	TimeConst float64 // seconds

	temp   float64
	vacuum float64

	heater *SimPWM
	pump   *SimPWM
}

func NewPlant(heater, pump *SimPWM) *Plant {
	return &Plant{
		Ambient:   22.0,
		TempGain:  55.0,
		VacGain:   18.0,
		TimeConst: 8.0,
		temp:      22.0,
		heater:    heater,
		pump:      pump,
	}
}

// Step advances the model by dt.
func (p *Plant) Step(dt time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sec := dt.Seconds()
	alpha := sec / p.TimeConst
	if alpha > 1 {
		alpha = 1
	}
	heatFrac := float64(p.heater.Level()) / float64(p.heater.Top())
	vacFrac := float64(p.pump.Level()) / float64(p.pump.Top())
	p.temp += alpha * (p.Ambient + p.TempGain*heatFrac - p.temp)
	p.vacuum += alpha * (p.VacGain*vacFrac - p.vacuum)
}

func (p *Plant) Temperature() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.temp, nil
}

func (p *Plant) Vacuum() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vacuum, nil
}

const plantStep = 50 * time.Millisecond

// Run steps the plant model until ctx ends.
func (r *Rig) Run(ctx context.Context, clk timex.Clock) {
	p := timex.NewPeriodic(clk, plantStep)
	for p.Wait(ctx) {
		r.Plant.Step(plantStep)
	}
}
