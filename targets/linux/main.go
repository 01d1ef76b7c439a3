//go:build linux

// Command bulli runs the vehicle light controller on a Linux board: buttons
// on the GPIO character device, LEDs on SPI, telemetry on an optional serial port.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"bulli/core"
	"bulli/host/serial"
)

func main() {
	chip := flag.String("chip", "gpiochip0", "GPIO chip for the buttons")
	pinIgnition := flag.Int("pin-ignition", 17, "Line offset of the ignition button")
	pinLeft := flag.Int("pin-left", 27, "Line offset of the left blinker button")
	pinRight := flag.Int("pin-right", 22, "Line offset of the right blinker button")
	spiPort := flag.String("spi", "", "SPI port for the LED matrix (empty = first available)")
	dryRun := flag.Bool("dry-run", false, "Log frames instead of driving the LEDs")
	telemetry := flag.String("telemetry", "", "Serial device for telemetry reports (empty disables)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	core.SetDebugWriter(func(s string) { log.Debug(s) })
	core.SetDebugEnabled(*verbose)
	core.InitAsyncDebug()

	pins := core.ButtonPins{
		core.ChannelIgnition: core.GPIOPin(*pinIgnition),
		core.ChannelLeft:     core.GPIOPin(*pinLeft),
		core.ChannelRight:    core.GPIOPin(*pinRight),
	}
	if err := run(*chip, pins, *spiPort, *dryRun, *telemetry); err != nil {
		log.WithError(err).Fatal("fatal")
	}
}

func run(chip string, pins core.ButtonPins, spiPort string, dryRun bool, telemetry string) error {
	var ctrl atomic.Pointer[core.Controller]
	var inputs *core.ActiveLowInputs

	driver, err := NewCdevDriver(chip, func(pin core.GPIOPin) {
		c := ctrl.Load()
		if c == nil || inputs == nil {
			return
		}
		if ch, ok := inputs.ChannelForPin(pin); ok {
			c.Arm(ch)
		}
	})
	if err != nil {
		return &core.InitError{Stage: "buttons", Err: err}
	}
	defer driver.Close()

	inputs, err = core.NewActiveLowInputs(driver, pins)
	if err != nil {
		return &core.InitError{Stage: "buttons", Err: err}
	}

	var strip core.Strip
	if dryRun {
		strip = newLogStrip(log.WithField("component", "leds"))
	} else {
		s, err := openSPIStrip(spiPort, core.MatrixRows*core.MatrixCols)
		if err != nil {
			return &core.InitError{Stage: "leds", Err: err}
		}
		defer s.Close()
		strip = s
	}
	frame, err := core.NewFrameBuffer(core.MatrixRows, core.MatrixCols, strip)
	if err != nil {
		return &core.InitError{Stage: "leds", Err: err}
	}

	var tele io.Writer
	if telemetry != "" {
		port, err := serial.Open(serial.DefaultConfig(telemetry))
		if err != nil {
			return &core.InitError{Stage: "telemetry", Err: err}
		}
		defer port.Close()
		tele = port
	}

	c, err := core.New(core.Hardware{
		Inputs:    inputs,
		Frame:     frame,
		Delay:     func(ms uint32) { time.Sleep(time.Duration(ms) * time.Millisecond) },
		Telemetry: tele,
		Seed:      time.Now().UnixNano(),
	})
	if err != nil {
		return err
	}
	defer c.Close()
	ctrl.Store(c)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go tickLoop(ctx, c, time.Duration(core.TickPeriodMS)*time.Millisecond)

	log.WithFields(log.Fields{
		"ignition": pins[core.ChannelIgnition],
		"left":     pins[core.ChannelLeft],
		"right":    pins[core.ChannelRight],
		"dry_run":  dryRun,
	}).Info("bulli started")

	c.Run(ctx.Done())

	log.WithFields(log.Fields{
		"status":  c.Status().String(),
		"frames":  c.Frame(),
		"dropped": c.Dropped(),
	}).Info("bulli stopped")
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// tickLoop drives the debounce timebase. Missed ticks are not replayed.
func tickLoop(ctx context.Context, c *core.Controller, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick()
		}
	}
}
