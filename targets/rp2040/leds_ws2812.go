//go:build (rp2040 || rp2350) && !pio

package main

import (
	"image/color"
	"machine"
	"runtime/interrupt"

	"tinygo.org/x/drivers/ws2812"

	"bulli/core"
)

// bitbangStrip drives the matrix with the bit-banged ws2812 driver. The
// transfer runs with interrupts off; a SysTick arriving meanwhile is taken
// right after.
type bitbangStrip struct {
	dev ws2812.Device
}

func newStrip(pin machine.Pin) (core.Strip, error) {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &bitbangStrip{dev: ws2812.New(pin)}, nil
}

func (s *bitbangStrip) WriteColors(buf []color.RGBA) error {
	state := interrupt.Disable()
	err := s.dev.WriteColors(buf)
	interrupt.Restore(state)
	return err
}
