package cps610

import (
	"math"
	"testing"
)

// fakeI2C replays canned register reads and records writes.
type fakeI2C struct {
	writes [][]byte
	reads  [][]byte
	fail   bool
}

func (f *fakeI2C) Tx(addr uint16, w, r []byte) error {
	if f.fail {
		return ErrTrigger
	}
	if len(w) > 0 {
		buf := make([]byte, len(w))
		copy(buf, w)
		f.writes = append(f.writes, buf)
	}
	if len(r) > 0 && len(f.reads) > 0 {
		copy(r, f.reads[0])
		f.reads = f.reads[1:]
	}
	return nil
}

func TestTriggerWritesStartCommand(t *testing.T) {
	bus := &fakeI2C{}
	d := New(bus, 0)
	if err := d.Trigger(); err != nil {
		t.Fatal(err)
	}
	if len(bus.writes) != 1 || bus.writes[0][0] != cmdReg || bus.writes[0][1] != cmdStart {
		t.Fatalf("unexpected trigger write: %v", bus.writes)
	}
}

func TestSignExtend24(t *testing.T) {
	cases := []struct {
		raw  [3]byte
		want int32
	}{
		{[3]byte{0x00, 0x00, 0x00}, 0},
		{[3]byte{0x00, 0x00, 0x01}, 1},
		{[3]byte{0x7F, 0xFF, 0xFF}, 8388607},
		{[3]byte{0xFF, 0xFF, 0xFF}, -1},
		{[3]byte{0x80, 0x00, 0x00}, -8388608},
	}
	for _, c := range cases {
		if got := signExtend24(c.raw); got != c.want {
			t.Errorf("signExtend24(%v) = %d, want %d", c.raw, got, c.want)
		}
	}
}

func TestCollectConversion(t *testing.T) {
	// Full-scale positive code maps to just under 3.75 kPa, zero code to
	// -3.75 kPa.
	bus := &fakeI2C{reads: [][]byte{{0x7F, 0xFF, 0xFF}, {0x00, 0x00, 0x00}}}
	d := New(bus, 0)

	p, err := d.Collect()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(p-3.75) > 0.001 {
		t.Errorf("full scale: got %v, want ~3.75", p)
	}

	p, err = d.Collect()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(p-(-3.75)) > 1e-9 {
		t.Errorf("zero code: got %v, want -3.75", p)
	}
}

func TestZeroOffsetSubtracted(t *testing.T) {
	bus := &fakeI2C{reads: [][]byte{{0x10, 0x00, 0x00}}}
	d := New(bus, 0)
	d.zeroOffset = 0.5

	p, err := d.Collect()
	if err != nil {
		t.Fatal(err)
	}
	raw := d.convert(0x100000) + 0.5 // uncalibrated value
	if math.Abs(p-(raw-0.5)) > 1e-9 {
		t.Errorf("offset not applied: got %v", p)
	}
}

func TestCalibrateZeroFailure(t *testing.T) {
	bus := &fakeI2C{fail: true}
	d := New(bus, 0)
	d.zeroOffset = 1.25
	if _, err := d.CalibrateZero(2); err == nil {
		t.Fatal("expected error with no samples")
	}
	if d.zeroOffset != 1.25 {
		t.Errorf("failed calibration clobbered offset: %v", d.zeroOffset)
	}
}
