// Package diag renders status and event messages as human-readable console
// lines. Output goes through one mutex so interleaved tasks cannot shred a
// line; the format is for eyeballs, not parsers.
package diag

import (
	"context"
	"io"
	"sync"

	"vacutherm-go/bus"
	"vacutherm-go/types"
	"vacutherm-go/x/fmtx"
)

var (
	topicStatus = bus.T("ctl", "status", bus.WildTail)
	topicTrip   = bus.T("ctl", "event", "trip")
)

type Service struct {
	mu  sync.Mutex
	out io.Writer
}

// NewService writes to out; nil means fmtx.DefaultOutput.
func NewService(out io.Writer) *Service {
	if out == nil {
		out = fmtx.DefaultOutput
	}
	return &Service{out: out}
}

func (s *Service) serviceLoop(ctx context.Context, status, trips *bus.Subscription) {
	defer status.Unsubscribe()
	defer trips.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-status.Channel():
			s.line(s.render(msg.Payload))
		case msg := <-trips.Channel():
			if ev, ok := msg.Payload.(*types.TripEvent); ok {
				s.line(fmtx.Sprintf("TRIP %s reading=%.1f", ev.Reason, ev.Reading))
			}
		}
	}
}

func (s *Service) render(payload any) string {
	switch v := payload.(type) {
	case *types.HeatStatus:
		return fmtx.Sprintf("heat cur=%.1fC tgt=%.1fC pow=%.0f%%", v.Current, v.Target, v.PowerPct)
	case *types.PressStatus:
		return fmtx.Sprintf("press cur=%.1f tgt=%.1f mmHg gear=%d pump=%d%%",
			v.Current, v.Target, v.Gear, v.SpeedPct)
	case *types.Snapshot:
		return fmtx.Sprintf("state %s temp=%.1f/%.1fC press=%.1f/%.1fmmHg gear=%d/%d en=%t estop=%t latch=%t",
			v.Safety, v.Temperature, v.TargetTemp, v.Pressure, v.TargetPressure,
			v.Gear, v.NumGears, v.Enabled, v.EmergencyStop, v.OverTempLatch)
	default:
		return fmtx.Sprint("diag: unhandled payload", payload)
	}
}

func (s *Service) line(text string) {
	s.mu.Lock()
	_, _ = fmtx.Fprintf(s.out, "%s\n", text)
	s.mu.Unlock()
}

// Start launches the diagnostic printer. The subscriptions are taken
// before Start returns, so nothing published afterwards is missed.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	status := conn.Subscribe(topicStatus)
	trips := conn.Subscribe(topicTrip)
	go s.serviceLoop(ctx, status, trips)
	return nil
}
