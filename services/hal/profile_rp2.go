//go:build rp2040

package hal

import (
	"machine"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/tone"

	"vacutherm-go/drivers/cps610"
	"vacutherm-go/drivers/max31855"
	"vacutherm-go/types"
	"vacutherm-go/x/fmtx"
	"vacutherm-go/x/timex"
)

// Board wiring. The thermocouple shares SPI0, the pressure sensor sits on
// I2C0, heater and pump are MOSFET-driven PWM outputs, buttons are
// active-low with pullups.
const (
	pinThermoSCK  = machine.GP2
	pinThermoMISO = machine.GP0
	pinThermoCS   = machine.GP1

	pinHeater = machine.GP5
	pinPump   = machine.GP6

	pinPressSDA = machine.GP8
	pinPressSCL = machine.GP9

	pinBuzzer = machine.GP18

	pinBtnStop = machine.GP19
	pinBtnUp   = machine.GP20
	pinBtnDown = machine.GP21
)

const pwmPeriod = uint64(200_000) // 5 kHz, ns

// NewProfile configures the Pico peripherals and returns the hardware
// profile. The console goes out UART0 via uartx.
func NewProfile(clk timex.Clock) (*Profile, *Rig) {
	u := uartx.UART0
	_ = u.Configure(uartx.UARTConfig{BaudRate: 115200})
	fmtx.DefaultOutput = u

	_ = machine.SPI0.Configure(machine.SPIConfig{
		Frequency: 1_000_000,
		SCK:       pinThermoSCK,
		SDI:       pinThermoMISO,
		Mode:      0,
	})
	pinThermoCS.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pinThermoCS.High()
	thermo := max31855.New(machine.SPI0, func(low bool) { pinThermoCS.Set(!low) })

	_ = machine.I2C0.Configure(machine.I2CConfig{
		SDA:       pinPressSDA,
		SCL:       pinPressSCL,
		Frequency: 100_000,
	})
	press := cps610.New(machine.I2C0, cps610.DefaultAddress)
	_, _ = press.CalibrateZero(10)

	heaterPWM := mustPWM(machine.PWM2, pinHeater) // GP5 -> slice 2B
	pumpPWM := mustPWM(machine.PWM3, pinPump)     // GP6 -> slice 3A

	p := &Profile{
		Temperature: NewGuarded(thermo.ReadCelsius, DefaultMaxFails),
		Pressure:    NewGuarded(func() (float64, error) { return readVacuum(press) }, DefaultMaxFails),
		Heater:      NewPWMHeater(heaterPWM),
		Pump:        NewRampedPump(pumpPWM, clk),
		Speaker:     newToneSpeaker(),
		Stop:        newPullupButton(pinBtnStop),
		Up:          newPullupButton(pinBtnUp),
		Down:        newPullupButton(pinBtnDown),
	}
	return p, nil
}

// kPaPerMmHg converts the sensor's kPa output to the positive vacuum
// magnitude the control core works in.
const kPaPerMmHg = 0.1333224

func readVacuum(d *cps610.Device) (float64, error) {
	kpa, err := d.ReadPressure()
	if err != nil {
		return 0, err
	}
	return -kpa / kPaPerMmHg, nil
}

type pwmSlice interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Set(channel uint8, value uint32)
	Top() uint32
}

type rp2PWM struct {
	slice pwmSlice
	ch    uint8
}

func mustPWM(slice pwmSlice, pin machine.Pin) *rp2PWM {
	if err := slice.Configure(machine.PWMConfig{Period: pwmPeriod}); err != nil {
		panic(err)
	}
	ch, err := slice.Channel(pin)
	if err != nil {
		panic(err)
	}
	return &rp2PWM{slice: slice, ch: ch}
}

func (p *rp2PWM) Set(level uint16) { p.slice.Set(p.ch, uint32(level)) }

func (p *rp2PWM) Top() uint16 {
	t := p.slice.Top()
	if t > 0xFFFF {
		t = 0xFFFF
	}
	return uint16(t)
}

func newPullupButton(pin machine.Pin) *Button {
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return NewButton(func() bool { return !pin.Get() }, DebounceWindow)
}

// toneSpeaker plays the audible feedback patterns on the buzzer. The
// buzzer resonates at 2731 Hz; the error tone drops to 2 kHz so it is
// distinguishable.
type toneSpeaker struct {
	spk tone.Speaker
}

func newToneSpeaker() *toneSpeaker {
	spk, err := tone.New(machine.PWM1, pinBuzzer) // GP18 -> slice 1A
	if err != nil {
		panic(err)
	}
	return &toneSpeaker{spk: spk}
}

func (t *toneSpeaker) Play(p types.TonePattern) {
	switch p {
	case types.ToneBeep:
		t.pulse(2731, 100*time.Millisecond)
	case types.ToneWarning:
		for i := 0; i < 3; i++ {
			t.pulse(2731, 200*time.Millisecond)
			time.Sleep(100 * time.Millisecond)
		}
	case types.ToneError:
		t.pulse(2000, time.Second)
	}
}

func (t *toneSpeaker) pulse(hz int, d time.Duration) {
	_ = t.spk.SetPeriod(uint64(time.Second/time.Nanosecond) / uint64(hz))
	time.Sleep(d)
	t.spk.Stop()
}
