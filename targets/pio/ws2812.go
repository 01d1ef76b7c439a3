//go:build rp2040 || rp2350

package pio

// PIO backend for the LED matrix. The state machine clocks the WS2812 bit
// stream out of its TX FIFO, so frames go out with interrupts enabled and
// the debounce tick is never delayed.

import (
	"image/color"
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
	"github.com/tinygo-org/pio/rp2-pio/piolib"
)

// Strip writes frames to a WS2812 chain through a PIO state machine
type Strip struct {
	ws  *piolib.WS2812B
	pin machine.Pin
}

// NewStrip claims a free state machine on PIO0, falling back to PIO1
func NewStrip(pin machine.Pin) (*Strip, error) {
	sm, err := rp2pio.PIO0.ClaimStateMachine()
	if err != nil {
		sm, err = rp2pio.PIO1.ClaimStateMachine()
		if err != nil {
			return nil, err
		}
	}

	ws, err := piolib.NewWS2812B(sm, pin)
	if err != nil {
		return nil, err
	}
	return &Strip{ws: ws, pin: pin}, nil
}

// WriteColors queues one frame, pixel by pixel
func (s *Strip) WriteColors(buf []color.RGBA) error {
	for _, c := range buf {
		s.ws.PutRGB(c.R, c.G, c.B)
	}
	return nil
}
