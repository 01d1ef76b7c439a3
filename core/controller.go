package core

import (
	"io"

	"bulli/protocol"
)

// InitError reports which start-up stage failed. Targets treat it as fatal.
type InitError struct {
	Stage string
	Err   error
}

func (e *InitError) Error() string {
	return "init " + e.Stage + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// ReportFault records a fatal start-up error in the trace ring and, when w
// is set, sends a fault report on it. Targets call it for stages that fail
// before a Controller exists.
func ReportFault(w io.Writer, e *InitError) error {
	var tele *Telemetry
	if w != nil {
		tele = NewTelemetry(w)
	}
	return reportFault(tele, e)
}

func reportFault(tele *Telemetry, e *InitError) error {
	RecordTrace(TraceFault, 0, 0, 0)
	DebugPrintln("[BULLI] init " + e.Stage + " failed: " + e.Err.Error())
	if tele == nil {
		return nil
	}
	return tele.Send(Report{Kind: MsgFault, Stage: e.Stage, Text: e.Err.Error()})
}

// Hardware is what a target provides to the controller
type Hardware struct {
	// Inputs samples the three buttons
	Inputs PinSampler

	// Frame receives one painted frame per refresh period
	Frame FrameSink

	// Delay blocks the main loop for the given number of milliseconds
	Delay func(ms uint32)

	// Telemetry is optional; reports are framed onto it when set
	Telemetry io.Writer

	// Seed seeds the head light flicker
	Seed int64
}

// Controller owns all firmware state: the event queue shared between the
// button interrupts and the main loop, the debouncer and the vehicle status.
type Controller struct {
	queue     *EventQueue
	debouncer *Debouncer
	painter   *Painter
	telemetry *Telemetry
	delay     func(ms uint32)

	// status is only touched by the main loop
	status Status

	// dropped is written inside critical sections
	dropped uint32

	panics uint32
}

// New builds the controller. Any failure is returned as an *InitError after
// a fault report has been attempted.
func New(hw Hardware) (*Controller, error) {
	var tele *Telemetry
	if hw.Telemetry != nil {
		tele = NewTelemetry(hw.Telemetry)
	}
	fail := func(stage string, err error) error {
		e := &InitError{Stage: stage, Err: err}
		_ = reportFault(tele, e)
		return e
	}

	if err := QueueSelfTest(QueueCapacity); err != nil {
		return nil, fail("selftest", err)
	}
	queue, err := NewEventQueue(QueueCapacity)
	if err != nil {
		return nil, fail("queue", err)
	}
	if hw.Frame == nil {
		return nil, fail("leds", ErrNoStrip)
	}
	if hw.Delay == nil {
		return nil, fail("timer", ErrInvalidArgument)
	}
	debouncer, err := NewDebouncer(DebounceWindow, hw.Inputs)
	if err != nil {
		return nil, fail("buttons", err)
	}

	c := &Controller{
		queue:     queue,
		debouncer: debouncer,
		telemetry: tele,
		delay:     hw.Delay,
	}

	for ch := Channel(0); ch < NumChannels; ch++ {
		e := ch.Event()
		if err := debouncer.SetCallback(ch, func() { c.post(e) }); err != nil {
			return nil, fail("buttons", err)
		}
	}

	inputs := hw.Inputs
	c.painter = NewPainter(hw.Frame, DefaultLayout, func() bool {
		return inputs.Asserted(ChannelIgnition)
	}, hw.Seed)

	c.send(Report{
		Kind:     MsgBoot,
		Text:     protocol.Version,
		Capacity: uint32(queue.Cap()),
		Window:   debouncer.Window(),
	})
	DebugPrintln("[BULLI] ready, queue=" + utoa(uint32(queue.Cap())) +
		" window=" + utoa(debouncer.Window()))
	return c, nil
}

// Arm is the edge interrupt entry point for a button
func (c *Controller) Arm(ch Channel) {
	c.debouncer.Arm(ch)
}

// Tick is the timebase interrupt entry point
func (c *Controller) Tick() {
	c.debouncer.Tick()
}

// post enqueues a confirmed press. It runs in interrupt context, so it
// records drops in the trace ring instead of printing.
func (c *Controller) post(e Event) {
	state := disableInterrupts()
	if err := c.queue.Enqueue(e); err != nil {
		c.dropped++
		traceLocked(TraceQueueDrop, uint8(e), c.debouncer.Ticks(), c.dropped)
	}
	restoreInterrupts(state)
}

// next takes the oldest pending event. An empty queue reads as idle.
func (c *Controller) next() (Event, bool) {
	state := disableInterrupts()
	e, err := c.queue.Dequeue()
	restoreInterrupts(state)
	if err != nil {
		return EventIdle, false
	}
	return e, true
}

// Step runs one main loop iteration: dispatch pending events, paint and
// send a frame, publish telemetry, then wait for the next frame.
func (c *Controller) Step() error {
	for i := 0; i < QueueCapacity; i++ {
		e, ok := c.next()
		if !ok {
			break
		}
		c.dispatch(e)
	}

	err := c.painter.Paint(c.status)
	if c.painter.Frame()%StatusReportFrames == 0 {
		c.send(c.StatusReport())
	}
	c.delay(RefreshPeriodMS)
	return err
}

// dispatch applies one event to the vehicle status
func (c *Controller) dispatch(e Event) {
	c.status = Process(e, c.status)
	tick := c.debouncer.Ticks()
	RecordTrace(TraceDispatch, uint8(e), tick, uint32(c.status.Flags()))
	if e == EventIdle {
		return
	}
	c.send(Report{Kind: MsgEvent, Tick: tick, Event: e, Status: c.status})
	if IsDebugEnabled() {
		DebugAsync("[BULLI] " + e.String() + " -> " + c.status.String())
	}
}

// Run executes the main loop until stop is closed (never, when stop is nil).
// A panic inside one iteration is counted and the loop continues.
func (c *Controller) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					c.panics++
					DebugPrintln("[BULLI] recovered from panic in main loop")
				}
			}()
			if err := c.Step(); err != nil && IsDebugEnabled() {
				DebugAsync("[BULLI] frame: " + err.Error())
			}
		}()
	}
}

func (c *Controller) send(r Report) {
	if c.telemetry != nil {
		_ = c.telemetry.Send(r)
	}
}

// StatusReport builds the periodic status report
func (c *Controller) StatusReport() Report {
	return Report{
		Kind:    MsgStatus,
		Tick:    c.debouncer.Ticks(),
		Frame:   c.painter.Frame(),
		Status:  c.status,
		Pending: uint32(c.Pending()),
		Dropped: c.Dropped(),
	}
}

// Status returns the current vehicle status. Main loop only.
func (c *Controller) Status() Status {
	return c.status
}

// Pending returns the number of queued events
func (c *Controller) Pending() int {
	state := disableInterrupts()
	n := c.queue.Len()
	restoreInterrupts(state)
	return n
}

// Dropped returns the number of presses lost to a full queue
func (c *Controller) Dropped() uint32 {
	state := disableInterrupts()
	n := c.dropped
	restoreInterrupts(state)
	return n
}

// Ticks returns the debounce timebase
func (c *Controller) Ticks() uint32 {
	return c.debouncer.Ticks()
}

// Frame returns the number of frames painted
func (c *Controller) Frame() uint32 {
	return c.painter.Frame()
}

// Close releases the event queue
func (c *Controller) Close() {
	state := disableInterrupts()
	c.queue.Destroy()
	restoreInterrupts(state)
}
