// Package alert turns tone requests from the bus into speaker output, so
// control tasks never block on audio.
package alert

import (
	"context"

	"vacutherm-go/bus"
	"vacutherm-go/services/hal"
	"vacutherm-go/types"
)

var topicTone = bus.T("ctl", "tone")

type Service struct {
	speaker hal.Speaker
}

func NewService(speaker hal.Speaker) *Service {
	return &Service{speaker: speaker}
}

func (s *Service) serviceLoop(ctx context.Context, sub *bus.Subscription) {
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-sub.Channel():
			if req, ok := msg.Payload.(*types.ToneRequest); ok {
				s.speaker.Play(req.Pattern)
			}
		}
	}
}

// Start launches the alert consumer. The subscription is taken before
// Start returns, so a tone published right after is never dropped.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	sub := conn.Subscribe(topicTone)
	go s.serviceLoop(ctx, sub)
	return nil
}
