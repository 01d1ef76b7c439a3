package core

// Event is a single-byte event code passed from the button callbacks to the main loop
type Event uint8

// Event codes
const (
	EventIdle           Event = 0
	EventIgnitionToggle Event = 1
	EventLeftToggle     Event = 2
	EventRightToggle    Event = 3
)

// String returns the event name used in debug output and telemetry logs
func (e Event) String() string {
	switch e {
	case EventIdle:
		return "idle"
	case EventIgnitionToggle:
		return "ignition"
	case EventLeftToggle:
		return "left"
	case EventRightToggle:
		return "right"
	default:
		return "unknown(" + utoa(uint32(e)) + ")"
	}
}

// Channel identifies one of the three debounced button inputs
type Channel uint8

const (
	ChannelIgnition Channel = iota
	ChannelLeft
	ChannelRight

	NumChannels = 3
)

// String returns the channel name
func (c Channel) String() string {
	switch c {
	case ChannelIgnition:
		return "ignition"
	case ChannelLeft:
		return "left"
	case ChannelRight:
		return "right"
	default:
		return "channel" + utoa(uint32(c))
	}
}

// Event returns the event code a confirmed press on this channel produces
func (c Channel) Event() Event {
	switch c {
	case ChannelIgnition:
		return EventIgnitionToggle
	case ChannelLeft:
		return EventLeftToggle
	case ChannelRight:
		return EventRightToggle
	default:
		return EventIdle
	}
}
