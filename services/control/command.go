package control

import (
	"context"

	"vacutherm-go/bus"
	"vacutherm-go/errcode"
	"vacutherm-go/types"
)

// Remote setpoint commands. A float64 on ctl/cmd/temp moves the temperature
// target; "up"/"down" on ctl/cmd/gear shifts the vacuum gear. Senders that
// set ReplyTo get an OKReply or ErrorReply back; the same interlocks apply
// as for the physical buttons.

func (s *Service) commandLoop(ctx context.Context, conn *bus.Connection, st *SystemState, temp, gear *bus.Subscription) {
	defer temp.Unsubscribe()
	defer gear.Unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-temp.Channel():
			ack(conn, m, setTemp(st, m.Payload))
		case m := <-gear.Channel():
			ack(conn, m, shiftGear(st, m.Payload))
		}
	}
}

func setTemp(st *SystemState, payload any) error {
	v, ok := payload.(float64)
	if !ok {
		return errcode.InvalidPayload
	}
	return st.SetTargetTemperature(v)
}

func shiftGear(st *SystemState, payload any) error {
	dir, ok := payload.(string)
	if !ok {
		return errcode.InvalidPayload
	}
	switch dir {
	case "up":
		return st.GearUp()
	case "down":
		return st.GearDown()
	}
	return errcode.InvalidParams
}

func ack(conn *bus.Connection, m *bus.Message, err error) {
	if err != nil {
		conn.Reply(m, &types.ErrorReply{Error: err.Error()}, false)
		return
	}
	conn.Reply(m, &types.OKReply{OK: true}, false)
}
