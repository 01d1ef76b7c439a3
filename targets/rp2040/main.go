//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"bulli/core"
)

// Board wiring
var (
	buttonPins = core.ButtonPins{
		core.ChannelIgnition: 2,
		core.ChannelLeft:     3,
		core.ChannelRight:    4,
	}
	ledPin = machine.GPIO16
)

var ctrl *core.Controller

func main() {
	// Clear any watchdog state left over from a previous reset
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	InitDebugUART()
	core.SetDebugWriter(DebugPrintln)
	core.SetDebugEnabled(true)
	core.InitAsyncDebug()

	if err := InitUSB(); err != nil {
		fail("usb", err)
	}

	gpio := NewRPGPIODriver()
	inputs, err := core.NewActiveLowInputs(gpio, buttonPins)
	if err != nil {
		fail("buttons", err)
	}

	strip, err := newStrip(ledPin)
	if err != nil {
		fail("leds", err)
	}
	frame, err := core.NewFrameBuffer(core.MatrixRows, core.MatrixCols, strip)
	if err != nil {
		fail("leds", err)
	}

	ctrl, err = core.New(core.Hardware{
		Inputs:    inputs,
		Frame:     frame,
		Delay:     delayMS,
		Telemetry: usbWriter{},
		Seed:      seed(),
	})
	if err != nil {
		halt(err)
	}

	if err := StartTick(); err != nil {
		fail("timer", err)
	}
	if err := gpio.WatchEdges(inputs, ctrl.Arm); err != nil {
		fail("buttons", err)
	}

	ctrl.Run(nil)
}

func delayMS(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

func seed() int64 {
	if n, err := machine.GetRNG(); err == nil {
		return int64(n)
	}
	return time.Now().UnixNano()
}

// fail reports a start-up stage that failed before the controller existed,
// then halts
func fail(stage string, err error) {
	initErr := &core.InitError{Stage: stage, Err: err}
	_ = core.ReportFault(usbWriter{}, initErr)
	halt(initErr)
}

// halt stops the firmware after an unrecoverable start-up error. The fault
// has already been reported; the trace ring is dumped for the debug UART.
func halt(err error) {
	DebugPrintln("[BULLI] fatal: " + err.Error())
	core.DumpTrace()
	for {
		time.Sleep(time.Second)
	}
}
