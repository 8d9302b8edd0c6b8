// Command hwtest sequences every peripheral in the hardware profile for
// bench bring-up: sensors, heater, pump, speaker, buttons. On the host
// build it exercises the simulated rig, which makes it a quick smoke test
// of the whole HAL without hardware.
package main

import (
	"context"
	"time"

	"vacutherm-go/services/hal"
	"vacutherm-go/types"
	"vacutherm-go/x/fmtx"
	"vacutherm-go/x/timex"
)

const (
	sampleCount = 5
	sampleEvery = 500 * time.Millisecond
	dwell       = 2 * time.Second
)

func main() {
	clk := timex.System()
	profile, rig := hal.NewProfile(clk)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if rig != nil {
		go rig.Run(ctx, clk)
	}

	fmtx.Printf("==== vacutherm hardware test ====\n")

	testSensors(profile)
	testHeater(profile)
	testPump(profile)
	testSpeaker(profile)
	testButtons(profile, rig)

	fmtx.Printf("==== done ====\n")
}

func testSensors(p *hal.Profile) {
	fmtx.Printf("-- sensors: %d samples --\n", sampleCount)
	for i := 0; i < sampleCount; i++ {
		t := p.Temperature.Read()
		v := p.Pressure.Read()
		fmtx.Printf("  temp=%.2fC valid=%t  vac=%.2fmmHg valid=%t\n",
			t, p.Temperature.Valid(), v, p.Pressure.Valid())
		time.Sleep(sampleEvery)
	}
}

func testHeater(p *hal.Profile) {
	fmtx.Printf("-- heater: ramp duty 0..255 --\n")
	for _, duty := range []uint8{64, 128, 255} {
		fmtx.Printf("  duty=%d\n", duty)
		p.Heater.SetOutput(duty)
		time.Sleep(dwell)
		fmtx.Printf("  temp=%.2fC\n", p.Temperature.Read())
	}
	p.Heater.Disable()
	fmtx.Printf("  heater off\n")
}

func testPump(p *hal.Profile) {
	fmtx.Printf("-- pump: speed steps --\n")
	p.Pump.Start()
	for _, pct := range []uint8{40, 60, 80} {
		fmtx.Printf("  speed=%d%%\n", pct)
		p.Pump.SetSpeed(pct)
		time.Sleep(dwell)
		fmtx.Printf("  vac=%.2fmmHg\n", p.Pressure.Read())
	}
	p.Pump.Stop()
	fmtx.Printf("  pump off\n")
}

func testSpeaker(p *hal.Profile) {
	fmtx.Printf("-- speaker: beep, warning, error --\n")
	for _, pat := range []types.TonePattern{types.ToneBeep, types.ToneWarning, types.ToneError} {
		fmtx.Printf("  play %s\n", string(pat))
		p.Speaker.Play(pat)
		time.Sleep(time.Second)
	}
}

func testButtons(p *hal.Profile, rig *hal.Rig) {
	fmtx.Printf("-- buttons: 5s poll --\n")
	if rig != nil {
		// Host rig: script a press on each switch so the edges show up.
		go func() {
			for _, sw := range []interface{ SetLevel(bool) }{rig.StopSw, rig.UpSw, rig.DownSw} {
				time.Sleep(time.Second)
				sw.SetLevel(true)
				time.Sleep(200 * time.Millisecond)
				sw.SetLevel(false)
			}
		}()
	}
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		now := time.Now()
		p.Stop.Update(now)
		p.Up.Update(now)
		p.Down.Update(now)
		if p.Stop.WasPressed() {
			fmtx.Printf("  stop pressed\n")
		}
		if p.Up.WasPressed() {
			fmtx.Printf("  up pressed\n")
		}
		if p.Down.WasPressed() {
			fmtx.Printf("  down pressed\n")
		}
		time.Sleep(20 * time.Millisecond)
	}
}
