package core

import (
	"errors"
	"sync/atomic"
)

var (
	ErrInvalidChannel = errors.New("invalid button channel")
	ErrNoSampler      = errors.New("pin sampler not configured")
)

// PinSampler reports whether a button input currently reads its pressed level
type PinSampler interface {
	Asserted(ch Channel) bool
}

// debounceChannel is the sampling state of one button
type debounceChannel struct {
	active   bool
	matches  uint32 // asserted samples in the current phase
	deadline uint32 // tick at which the current phase ends
	callback func()
}

// ChannelState is a copy of one channel's sampling state
type ChannelState struct {
	Active   bool
	Matches  uint32
	Deadline uint32
}

// Debouncer samples the button pins on a fixed timebase after an edge arms them.
// A press is accepted only if the pin read pressed on every tick of the window.
//
// Arm is called from the edge interrupts and Tick from the timebase interrupt.
type Debouncer struct {
	ticks    uint32
	window   uint32
	sampler  PinSampler
	channels [NumChannels]debounceChannel
}

// NewDebouncer creates a debouncer with the given window in ticks
func NewDebouncer(window uint32, sampler PinSampler) (*Debouncer, error) {
	if window == 0 {
		return nil, ErrInvalidArgument
	}
	if sampler == nil {
		return nil, ErrNoSampler
	}
	return &Debouncer{
		window:  window,
		sampler: sampler,
	}, nil
}

// SetCallback registers the action run when a press on ch is confirmed
func (d *Debouncer) SetCallback(ch Channel, cb func()) error {
	if ch >= NumChannels {
		return ErrInvalidChannel
	}
	state := disableInterrupts()
	d.channels[ch].callback = cb
	restoreInterrupts(state)
	return nil
}

// Arm starts (or restarts) the sampling window of a channel
func (d *Debouncer) Arm(ch Channel) {
	if ch >= NumChannels {
		return
	}
	state := disableInterrupts()
	c := &d.channels[ch]
	c.matches = 0
	c.deadline = atomic.LoadUint32(&d.ticks) + d.window
	c.active = true
	restoreInterrupts(state)
}

// Tick advances the timebase by one tick and samples every armed channel.
// Channels whose window ended are retired; the callbacks of accepted presses
// run after the critical section, in channel order.
func (d *Debouncer) Tick() {
	var fire [NumChannels]func()

	state := disableInterrupts()
	now := atomic.AddUint32(&d.ticks, 1)
	for i := range d.channels {
		c := &d.channels[i]
		if !c.active {
			continue
		}
		if d.sampler.Asserted(Channel(i)) {
			c.matches++
		}

		// Signed distance keeps the comparison valid across counter wrap
		if int32(now-c.deadline) < 0 {
			continue
		}
		c.active = false
		if c.matches == d.window {
			fire[i] = c.callback
			traceLocked(TracePressAccepted, uint8(i), now, c.matches)
		} else {
			traceLocked(TracePressRejected, uint8(i), now, c.matches)
		}
	}
	restoreInterrupts(state)

	for _, cb := range fire {
		if cb != nil {
			cb()
		}
	}
}

// Ticks returns the current timebase value
func (d *Debouncer) Ticks() uint32 {
	return atomic.LoadUint32(&d.ticks)
}

// SetTicks sets the timebase value (for testing/hardware integration)
func (d *Debouncer) SetTicks(ticks uint32) {
	atomic.StoreUint32(&d.ticks, ticks)
}

// Window returns the debounce window in ticks
func (d *Debouncer) Window() uint32 {
	return d.window
}

// State returns a snapshot of one channel
func (d *Debouncer) State(ch Channel) ChannelState {
	if ch >= NumChannels {
		return ChannelState{}
	}
	state := disableInterrupts()
	c := d.channels[ch]
	restoreInterrupts(state)
	return ChannelState{
		Active:   c.active,
		Matches:  c.matches,
		Deadline: c.deadline,
	}
}
