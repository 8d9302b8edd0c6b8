//go:build !rp2040

package hal

import (
	"vacutherm-go/x/timex"
)

// NewProfile builds the host profile: every peripheral is simulated and the
// sensor sources read the plant model.
func NewProfile(clk timex.Clock) (*Profile, *Rig) {
	rig := &Rig{
		HeaterPWM: NewSimPWM(0xFFFF),
		PumpPWM:   NewSimPWM(0xFFFF),
		Speaker:   NewSimSpeaker(),
		StopSw:    NewSimSwitch(),
		UpSw:      NewSimSwitch(),
		DownSw:    NewSimSwitch(),
	}
	rig.Plant = NewPlant(rig.HeaterPWM, rig.PumpPWM)

	p := &Profile{
		Temperature: NewGuarded(rig.Plant.Temperature, DefaultMaxFails),
		Pressure:    NewGuarded(rig.Plant.Vacuum, DefaultMaxFails),
		Heater:      NewPWMHeater(rig.HeaterPWM),
		Pump:        NewRampedPump(rig.PumpPWM, clk),
		Speaker:     rig.Speaker,
		Stop:        NewButton(rig.StopSw.Level, DebounceWindow),
		Up:          NewButton(rig.UpSw.Level, DebounceWindow),
		Down:        NewButton(rig.DownSw.Level, DebounceWindow),
	}
	return p, rig
}
