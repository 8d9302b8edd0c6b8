package main

import (
	"context"

	"vacutherm-go/bus"
	"vacutherm-go/services/alert"
	"vacutherm-go/services/config"
	"vacutherm-go/services/control"
	"vacutherm-go/services/diag"
	"vacutherm-go/services/hal"
	"vacutherm-go/x/fmtx"
	"vacutherm-go/x/timex"
)

func main() {
	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, deviceID)
	clk := timex.System()

	profile, rig := hal.NewProfile(clk)

	b := bus.NewBus(32)

	// Config first so its retained messages are in place before the
	// consumers subscribe.
	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	_ = alert.NewService(profile.Speaker).Start(ctx, b.NewConnection("alert"))
	_ = diag.NewService(nil).Start(ctx, b.NewConnection("diag"))

	ctl := control.NewService(profile, clk)
	ctl.Start(ctx, b.NewConnection("control"))

	fmtx.Printf("vacutherm up, device=%s\n", deviceID)

	if rig != nil {
		// Host build: drive the plant model in the foreground.
		rig.Run(ctx, clk)
		return
	}
	select {}
}
