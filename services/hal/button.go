package hal

import "time"

// DebounceWindow is the stabilisation window applied to raw button levels.
const DebounceWindow = 50 * time.Millisecond

// LevelFunc samples the raw, polarity-corrected pressed level.
type LevelFunc func() bool

// Button turns a raw level into debounced edge events. It is not safe for
// concurrent use; the interaction task owns it and calls Update on its own
// poll cycle.
type Button struct {
	raw      LevelFunc
	debounce time.Duration

	state      bool // debounced level
	lastRaw    bool
	lastChange time.Time
	havePrev   bool

	pressed   bool // one-shot edge flags
	released  bool
	pressedAt time.Time
}

func NewButton(raw LevelFunc, debounce time.Duration) *Button {
	if debounce <= 0 {
		debounce = DebounceWindow
	}
	return &Button{raw: raw, debounce: debounce}
}

// Update samples the raw level and advances the debounce state machine.
func (b *Button) Update(now time.Time) {
	reading := b.raw()
	if !b.havePrev {
		b.havePrev = true
		b.lastRaw = reading
		b.state = reading
		b.lastChange = now
		return
	}
	if reading != b.lastRaw {
		b.lastChange = now
	}
	if now.Sub(b.lastChange) >= b.debounce && reading != b.state {
		b.state = reading
		if b.state {
			b.pressed = true
			b.pressedAt = now
		} else {
			b.released = true
		}
	}
	b.lastRaw = reading
}

func (b *Button) IsPressed() bool { return b.state }

// WasPressed reports a press edge exactly once.
func (b *Button) WasPressed() bool {
	v := b.pressed
	b.pressed = false
	return v
}

// WasReleased reports a release edge exactly once.
func (b *Button) WasReleased() bool {
	v := b.released
	b.released = false
	return v
}

// IsLongPressed reports whether the button has been held for at least
// threshold.
func (b *Button) IsLongPressed(now time.Time, threshold time.Duration) bool {
	return b.state && now.Sub(b.pressedAt) >= threshold
}
