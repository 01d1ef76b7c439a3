package core

import (
	"errors"
	"image/color"
)

var ErrNoStrip = errors.New("LED strip not configured")

// FrameSink is the pixel interface the render stage draws through
type FrameSink interface {
	// ClearFrame sets every pixel of the pending frame to black
	ClearFrame()

	// SetPixel sets one pixel of the pending frame; out-of-range pixels are ignored
	SetPixel(row, col int, r, g, b uint8)

	// SendFrame transmits the pending frame to the LEDs
	SendFrame() error
}

// Strip is a chain of addressable LEDs.
// tinygo.org/x/drivers/ws2812.Device satisfies it directly.
type Strip interface {
	WriteColors(buf []color.RGBA) error
}

// FrameBuffer is a rows x cols matrix chained row by row onto a single strip
type FrameBuffer struct {
	rows   int
	cols   int
	pixels []color.RGBA
	strip  Strip
}

// NewFrameBuffer creates a cleared frame buffer
func NewFrameBuffer(rows, cols int, strip Strip) (*FrameBuffer, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidArgument
	}
	if strip == nil {
		return nil, ErrNoStrip
	}
	fb := &FrameBuffer{
		rows:   rows,
		cols:   cols,
		pixels: make([]color.RGBA, rows*cols),
		strip:  strip,
	}
	fb.ClearFrame()
	return fb, nil
}

func (fb *FrameBuffer) ClearFrame() {
	for i := range fb.pixels {
		fb.pixels[i] = color.RGBA{A: 0xff}
	}
}

func (fb *FrameBuffer) SetPixel(row, col int, r, g, b uint8) {
	if row < 0 || row >= fb.rows || col < 0 || col >= fb.cols {
		return
	}
	fb.pixels[row*fb.cols+col] = color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func (fb *FrameBuffer) SendFrame() error {
	return fb.strip.WriteColors(fb.pixels)
}

// Pixel returns the pending colour of one pixel
func (fb *FrameBuffer) Pixel(row, col int) color.RGBA {
	if row < 0 || row >= fb.rows || col < 0 || col >= fb.cols {
		return color.RGBA{}
	}
	return fb.pixels[row*fb.cols+col]
}
