// Package control is the real-time control core: four periodic tasks over
// one shared state record regulate temperature (PID) and vacuum (gear-based
// three-level control) behind layered safety interlocks.
package control

import (
	"context"
	"sync"
	"time"

	"vacutherm-go/bus"
	"vacutherm-go/services/hal"
	"vacutherm-go/x/timex"
)

const serviceName = "control"

// configWait bounds how long startup waits for the retained config/control
// message before falling back to compiled-in defaults.
const configWait = 250 * time.Millisecond

// Service owns the control tasks. Parameters are resolved once at startup
// from the retained config message; after the tasks launch they are
// immutable.
type Service struct {
	Name string

	prof *hal.Profile
	clk  timex.Clock

	mu     sync.Mutex
	params Params
	state  *SystemState
}

func NewService(prof *hal.Profile, clk timex.Clock) *Service {
	return &Service{
		Name:   serviceName,
		prof:   prof,
		clk:    clk,
		params: DefaultParams(),
	}
}

// Start resolves configuration and launches the task set. Returns once the
// tasks are running.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyConfig(ctx, conn)

	st := NewSystemState(s.params)
	st.SetEnabled(true)
	s.state = st

	safety := newSafetyTask(st, s.prof, conn)
	tasks := schedule(s.params,
		newHeatTask(st, s.params, s.prof, conn),
		newPressTask(st, s.params, s.prof, conn),
		safety,
		newUITask(st, s.params, s.prof, conn, safety),
	)
	for _, t := range tasks {
		go run(ctx, s.clk, t)
	}

	temp := conn.Subscribe(TopicCmdTemp)
	gear := conn.Subscribe(TopicCmdGear)
	go s.commandLoop(ctx, conn, st, temp, gear)
}

// applyConfig overlays the retained config/control payload if the config
// service published one; otherwise the defaults stand.
func (s *Service) applyConfig(ctx context.Context, conn *bus.Connection) {
	sub := conn.Subscribe(TopicConfig)
	defer sub.Unsubscribe()
	select {
	case m := <-sub.Channel():
		if mm, ok := m.Payload.(map[string]any); ok {
			s.params.ApplyMap(mm)
		}
	case <-s.clk.After(configWait):
	case <-ctx.Done():
	}
}

// State exposes the shared record for host harnesses. Nil before Start.
func (s *Service) State() *SystemState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Params returns the resolved parameters. Defaults before Start.
func (s *Service) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}
