// Package max31855 reads the MAX31855 cold-junction-compensated
// thermocouple-to-digital converter over SPI.
//
// One conversion is a 32-bit read: D31..D18 hold the 14-bit signed
// thermocouple temperature at 0.25 °C/LSB, D16 flags a fault and
// D2..D0 give the cause.
package max31855

import (
	"errors"

	"tinygo.org/x/drivers"
)

var (
	ErrOpenCircuit   = errors.New("max31855: thermocouple open circuit")
	ErrShortToGround = errors.New("max31855: short to GND")
	ErrShortToVCC    = errors.New("max31855: short to VCC")
	ErrFault         = errors.New("max31855: fault")
)

// ChipSelect asserts (low=true) or releases the CS line.
type ChipSelect func(low bool)

type Device struct {
	bus drivers.SPI
	cs  ChipSelect
}

func New(bus drivers.SPI, cs ChipSelect) *Device {
	return &Device{bus: bus, cs: cs}
}

// ReadCelsius performs one conversion read and returns the thermocouple
// temperature in °C.
func (d *Device) ReadCelsius() (float64, error) {
	var raw [4]byte
	d.cs(true)
	err := d.bus.Tx(nil, raw[:])
	d.cs(false)
	if err != nil {
		return 0, err
	}
	frame := uint32(raw[0])<<24 | uint32(raw[1])<<16 | uint32(raw[2])<<8 | uint32(raw[3])
	return Decode(frame)
}

// Decode extracts the thermocouple temperature from a raw 32-bit frame.
func Decode(frame uint32) (float64, error) {
	if frame&(1<<16) != 0 {
		switch {
		case frame&1 != 0:
			return 0, ErrOpenCircuit
		case frame&2 != 0:
			return 0, ErrShortToGround
		case frame&4 != 0:
			return 0, ErrShortToVCC
		default:
			return 0, ErrFault
		}
	}
	tc := int16(frame>>16) >> 2 // keep the sign, drop reserved+fault bits
	return float64(tc) * 0.25, nil
}

// InternalCelsius extracts the cold-junction temperature from a frame,
// 0.0625 °C/LSB in D15..D4.
func InternalCelsius(frame uint32) float64 {
	ref := int16(frame&0xFFFF) >> 4
	return float64(ref) * 0.0625
}
