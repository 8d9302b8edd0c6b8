package timex

import (
	"context"
	"time"
)

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// Clock abstracts monotonic time so control logic can run against a
// virtual clock in tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// System returns the wall/monotonic clock.
func System() Clock { return systemClock{} }

// Periodic is a drift-free periodic waiter: each deadline is the previous
// deadline plus the period, so task execution time does not stretch the
// cycle.
type Periodic struct {
	clk    Clock
	period time.Duration
	next   time.Time
}

func NewPeriodic(clk Clock, period time.Duration) *Periodic {
	return &Periodic{
		clk:    clk,
		period: period,
		next:   clk.Now().Add(period),
	}
}

// Wait blocks until the next deadline or context cancellation and reports
// whether the caller should run another cycle. If the caller fell more than
// one full period behind, the schedule is re-anchored instead of firing a
// burst of catch-up cycles.
func (p *Periodic) Wait(ctx context.Context) bool {
	if d := p.next.Sub(p.clk.Now()); d > 0 {
		select {
		case <-ctx.Done():
			return false
		case <-p.clk.After(d):
		}
	}
	p.next = p.next.Add(p.period)
	if p.clk.Now().After(p.next) {
		p.next = p.clk.Now().Add(p.period)
	}
	select {
	case <-ctx.Done():
		return false
	default:
		return true
	}
}
