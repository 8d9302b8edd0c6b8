// Package cps610 drives the CPS610DSD003DH01 differential pressure sensor
// over I²C.
//
// Protocol:
//  1. write 0x0A to register 0x30 to trigger a conversion
//  2. wait 5..10 ms
//  3. read 24 bits from registers 0x06..0x08 (big-endian, two's complement)
//  4. P(kPa) = 7.5 * raw/2^23 - 3.75
package cps610

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

const DefaultAddress = 0x7F

const (
	cmdReg   = 0x30
	cmdStart = 0x0A
	dataRegH = 0x06

	coefA   = 7.5
	coefB   = -3.75
	divisor = 8388608.0 // 2^23
)

// ConversionWait is how long a conversion needs after Trigger.
const ConversionWait = 8 * time.Millisecond

var (
	ErrTrigger   = errors.New("cps610: trigger failed")
	ErrShortRead = errors.New("cps610: short read")
)

// Device is a CPS610 on an I²C bus. Values are kPa; the zero offset is
// subtracted from every reading once calibrated.
type Device struct {
	bus        drivers.I2C
	addr       uint16
	zeroOffset float64
}

func New(bus drivers.I2C, addr uint16) *Device {
	if addr == 0 {
		addr = DefaultAddress
	}
	return &Device{bus: bus, addr: addr}
}

// Connected probes the bus for the device.
func (d *Device) Connected() bool {
	return d.bus.Tx(d.addr, []byte{}, nil) == nil
}

// Trigger starts one conversion. Collect may be called after
// ConversionWait.
func (d *Device) Trigger() error {
	if err := d.bus.Tx(d.addr, []byte{cmdReg, cmdStart}, nil); err != nil {
		return ErrTrigger
	}
	return nil
}

// Collect reads the conversion result in kPa.
func (d *Device) Collect() (float64, error) {
	var raw [3]byte
	if err := d.bus.Tx(d.addr, []byte{dataRegH}, raw[:]); err != nil {
		return 0, err
	}
	return d.convert(signExtend24(raw)), nil
}

// ReadPressure performs a full blocking trigger+wait+collect cycle.
func (d *Device) ReadPressure() (float64, error) {
	if err := d.Trigger(); err != nil {
		return 0, err
	}
	time.Sleep(ConversionWait)
	return d.Collect()
}

// CalibrateZero averages n readings at ambient pressure and stores the
// result as the zero offset. Returns the offset found.
func (d *Device) CalibrateZero(n int) (float64, error) {
	if n <= 0 {
		n = 10
	}
	sum := 0.0
	got := 0
	prev := d.zeroOffset
	d.zeroOffset = 0
	for i := 0; i < n; i++ {
		p, err := d.ReadPressure()
		if err != nil {
			continue
		}
		sum += p
		got++
	}
	if got == 0 {
		d.zeroOffset = prev
		return 0, errors.New("cps610: zero calibration got no samples")
	}
	d.zeroOffset = sum / float64(got)
	return d.zeroOffset, nil
}

// ZeroOffset returns the stored calibration offset in kPa.
func (d *Device) ZeroOffset() float64 { return d.zeroOffset }

func signExtend24(raw [3]byte) int32 {
	v := int32(raw[0])<<16 | int32(raw[1])<<8 | int32(raw[2])
	if v&0x800000 != 0 {
		v |= ^int32(0xFFFFFF) // extend bit 23
	}
	return v
}

func (d *Device) convert(raw int32) float64 {
	code := float64(raw) / divisor
	return coefA*code + coefB - d.zeroOffset
}
