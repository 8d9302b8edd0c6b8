package control

import (
	"context"
	"time"

	"vacutherm-go/x/timex"
)

// task is one row of the fixed schedule. Priority and core are the latency
// design carried over from the RTOS layout: sensing on one core, operator
// work on the other. Placement is documentation only; goroutines land where
// the runtime puts them and correctness never depends on it.
type task struct {
	name     string
	period   time.Duration
	priority uint8
	core     uint8
	step     func(now time.Time)
}

// schedule builds the task table for the assembled control core.
func schedule(p Params, heat *heatTask, press *pressTask, safety *safetyTask, ui *uiTask) []task {
	return []task{
		{name: "heat", period: p.HeatPeriod, priority: 3, core: 0, step: heat.step},
		{name: "press", period: p.PressPeriod, priority: 3, core: 0, step: press.step},
		{name: "safety", period: p.SafetyPeriod, priority: 4, core: 1, step: safety.step},
		{name: "ui", period: p.UIPeriod, priority: 2, core: 1, step: ui.step},
	}
}

// run drives one task at its period until ctx ends. The periodic waiter is
// drift free: deadlines advance by the period, not by sleep-after-work.
func run(ctx context.Context, clk timex.Clock, t task) {
	p := timex.NewPeriodic(clk, t.period)
	for p.Wait(ctx) {
		t.step(clk.Now())
	}
}
