package diag

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"vacutherm-go/bus"
	"vacutherm-go/types"
)

type syncBuf struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuf) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuf) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, buf *syncBuf, want string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(buf.String(), want) {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("output %q never contained %q", buf.String(), want)
}

func TestDiagRendersStatusLines(t *testing.T) {
	b := bus.NewBus(16)
	var buf syncBuf
	svc := NewService(&buf)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	_ = svc.Start(ctx, b.NewConnection("diag"))

	pub := b.NewConnection("test")
	pub.Publish(&bus.Message{
		Topic:   bus.T("ctl", "status", "heat"),
		Payload: &types.HeatStatus{Current: 36.4, Target: 37.0, PowerPct: 42},
	})
	waitFor(t, &buf, "heat cur=36.4C tgt=37.0C pow=42%")

	pub.Publish(&bus.Message{
		Topic:   bus.T("ctl", "status", "press"),
		Payload: &types.PressStatus{Current: 7.2, Target: 7.5, Gear: 5, SpeedPct: 60},
	})
	waitFor(t, &buf, "press cur=7.2 tgt=7.5 mmHg gear=5 pump=60%")
}

func TestDiagRendersTrip(t *testing.T) {
	b := bus.NewBus(16)
	var buf syncBuf
	svc := NewService(&buf)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	_ = svc.Start(ctx, b.NewConnection("diag"))

	pub := b.NewConnection("test")
	pub.Publish(&bus.Message{
		Topic:   bus.T("ctl", "event", "trip"),
		Payload: &types.TripEvent{Reason: "over_temperature", Reading: 45.2},
	})
	waitFor(t, &buf, "TRIP over_temperature reading=45.2")
}

func TestDiagRendersSnapshot(t *testing.T) {
	b := bus.NewBus(16)
	var buf syncBuf
	svc := NewService(&buf)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	_ = svc.Start(ctx, b.NewConnection("diag"))

	pub := b.NewConnection("test")
	pub.Publish(&bus.Message{
		Topic: bus.T("ctl", "status", "snapshot"),
		Payload: &types.Snapshot{
			Safety: "normal", Temperature: 36.9, TargetTemp: 37,
			Pressure: 7.4, TargetPressure: 7.5, Gear: 5, NumGears: 10,
			Enabled: true,
		},
	})
	waitFor(t, &buf, "state normal temp=36.9/37.0C")
	waitFor(t, &buf, "gear=5/10 en=true estop=false latch=false")
}
