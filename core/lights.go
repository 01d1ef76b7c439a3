package core

import "math/rand"

// Region is an inclusive rectangle of matrix pixels
type Region struct {
	RowStart, ColStart int
	RowEnd, ColEnd     int
}

// fill paints every pixel of the region
func (r Region) fill(sink FrameSink, red, green, blue uint8) {
	for row := r.RowStart; row <= r.RowEnd; row++ {
		for col := r.ColStart; col <= r.ColEnd; col++ {
			sink.SetPixel(row, col, red, green, blue)
		}
	}
}

// Layout places the vehicle's lights on the matrix
type Layout struct {
	BlinkRight Region
	BlinkLeft  Region
	LightRight Region
	LightLeft  Region
	Interior   Region
}

// DefaultLayout is the 2x8 matrix of the Bulli: interior strip on row 0,
// head lights and blinkers on row 1.
var DefaultLayout = Layout{
	BlinkRight: Region{RowStart: 1, ColStart: 2, RowEnd: 1, ColEnd: 3},
	BlinkLeft:  Region{RowStart: 1, ColStart: 4, RowEnd: 1, ColEnd: 5},
	LightRight: Region{RowStart: 1, ColStart: 0, RowEnd: 1, ColEnd: 1},
	LightLeft:  Region{RowStart: 1, ColStart: 6, RowEnd: 1, ColEnd: 7},
	Interior:   Region{RowStart: 0, ColStart: 0, RowEnd: 0, ColEnd: MatrixCols - 1},
}

// Blinker colour
const (
	blinkR = 0xff
	blinkG = 0x80
	blinkB = 0x00
)

// colorWheel walks red -> green -> blue -> red one unit per step
type colorWheel struct {
	r, g, b uint8
}

func newColorWheel() colorWheel {
	return colorWheel{r: 0xff}
}

func (w *colorWheel) step() {
	switch {
	case w.g == 0 && w.r < 0xff:
		w.r++
		w.b--
	case w.g < 0xff && w.b == 0:
		w.r--
		w.g++
	case w.r == 0 && w.b < 0xff:
		w.g--
		w.b++
	}
}

// Painter draws the vehicle status into a frame sink once per frame
type Painter struct {
	sink   FrameSink
	layout Layout
	held   func() bool // ignition button is physically pressed
	rng    *rand.Rand
	frame  uint32
	wheel  colorWheel
}

// NewPainter creates a painter. held may be nil when the ignition button
// level is not available; the head lights then never flicker.
func NewPainter(sink FrameSink, layout Layout, held func() bool, seed int64) *Painter {
	return &Painter{
		sink:   sink,
		layout: layout,
		held:   held,
		rng:    rand.New(rand.NewSource(seed)),
		wheel:  newColorWheel(),
	}
}

// Paint renders one frame for the given status and transmits it
func (p *Painter) Paint(s Status) error {
	p.sink.ClearFrame()

	if s.Ignition {
		level := uint8(0xff)
		if p.held != nil && p.held() {
			level = uint8(p.rng.Intn(0xff))
		}
		p.layout.LightLeft.fill(p.sink, level, level, level)
		p.layout.LightRight.fill(p.sink, level, level, level)

		p.wheel.step()
		p.layout.Interior.fill(p.sink, p.wheel.r, p.wheel.g, p.wheel.b)
	} else {
		p.layout.LightLeft.fill(p.sink, 0, 0, 0)
		p.layout.LightRight.fill(p.sink, 0, 0, 0)
	}

	blinkOn := p.frame%framesFor(BlinkPeriodMS) < framesFor(BlinkOnMS)
	p.paintBlinker(p.layout.BlinkLeft, s.BlinkLeft && blinkOn)
	p.paintBlinker(p.layout.BlinkRight, s.BlinkRight && blinkOn)

	err := p.sink.SendFrame()
	p.frame++
	return err
}

func (p *Painter) paintBlinker(r Region, lit bool) {
	if lit {
		r.fill(p.sink, blinkR, blinkG, blinkB)
	} else {
		r.fill(p.sink, 0, 0, 0)
	}
}

// Frame returns the number of frames painted so far
func (p *Painter) Frame() uint32 {
	return p.frame
}
