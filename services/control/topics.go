package control

import "vacutherm-go/bus"

// Bus topics the control core publishes on. Configuration arrives retained
// on config/control from the config service.
var (
	TopicHeatStatus  = bus.T("ctl", "status", "heat")
	TopicPressStatus = bus.T("ctl", "status", "press")
	TopicSnapshot    = bus.T("ctl", "status", "snapshot")
	TopicTrip        = bus.T("ctl", "event", "trip")
	TopicTone        = bus.T("ctl", "tone")
	TopicCmdTemp     = bus.T("ctl", "cmd", "temp")
	TopicCmdGear     = bus.T("ctl", "cmd", "gear")
	TopicConfig      = bus.T("config", "control")
)
