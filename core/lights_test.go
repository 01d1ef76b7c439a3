package core

import (
	"errors"
	"image/color"
	"testing"
)

// recordingStrip keeps the last frame written to it
type recordingStrip struct {
	frames [][]color.RGBA
	err    error
}

func (s *recordingStrip) WriteColors(buf []color.RGBA) error {
	frame := make([]color.RGBA, len(buf))
	copy(frame, buf)
	s.frames = append(s.frames, frame)
	return s.err
}

func (s *recordingStrip) last() []color.RGBA {
	return s.frames[len(s.frames)-1]
}

func newTestFrame(t *testing.T) (*FrameBuffer, *recordingStrip) {
	t.Helper()
	strip := &recordingStrip{}
	fb, err := NewFrameBuffer(MatrixRows, MatrixCols, strip)
	if err != nil {
		t.Fatalf("NewFrameBuffer failed: %v", err)
	}
	return fb, strip
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func TestFrameBufferSetPixel(t *testing.T) {
	fb, strip := newTestFrame(t)

	fb.SetPixel(1, 3, 1, 2, 3)
	fb.SetPixel(-1, 0, 9, 9, 9)
	fb.SetPixel(0, MatrixCols, 9, 9, 9)
	fb.SetPixel(MatrixRows, 0, 9, 9, 9)

	if err := fb.SendFrame(); err != nil {
		t.Fatalf("SendFrame failed: %v", err)
	}
	frame := strip.last()
	if len(frame) != MatrixRows*MatrixCols {
		t.Fatalf("Expected %d pixels, got %d", MatrixRows*MatrixCols, len(frame))
	}
	if frame[1*MatrixCols+3] != rgb(1, 2, 3) {
		t.Errorf("Expected pixel (1,3) set, got %v", frame[1*MatrixCols+3])
	}
	for i, c := range frame {
		if i != 1*MatrixCols+3 && c != rgb(0, 0, 0) {
			t.Errorf("Expected pixel %d black, got %v", i, c)
		}
	}

	fb.ClearFrame()
	if fb.Pixel(1, 3) != rgb(0, 0, 0) {
		t.Errorf("Expected cleared pixel, got %v", fb.Pixel(1, 3))
	}
}

func TestNewFrameBufferValidation(t *testing.T) {
	if _, err := NewFrameBuffer(0, 8, &recordingStrip{}); err != ErrInvalidArgument {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
	if _, err := NewFrameBuffer(2, 8, nil); err != ErrNoStrip {
		t.Errorf("Expected ErrNoStrip, got %v", err)
	}
}

func TestPainterIgnitionOff(t *testing.T) {
	fb, strip := newTestFrame(t)
	p := NewPainter(fb, DefaultLayout, nil, 1)

	if err := p.Paint(Status{}); err != nil {
		t.Fatalf("Paint failed: %v", err)
	}
	for i, c := range strip.last() {
		if c != rgb(0, 0, 0) {
			t.Errorf("Expected dark vehicle, pixel %d is %v", i, c)
		}
	}
	if p.Frame() != 1 {
		t.Errorf("Expected frame counter 1, got %d", p.Frame())
	}
}

func TestPainterIgnitionOn(t *testing.T) {
	fb, _ := newTestFrame(t)
	p := NewPainter(fb, DefaultLayout, func() bool { return false }, 1)

	if err := p.Paint(Status{Ignition: true}); err != nil {
		t.Fatalf("Paint failed: %v", err)
	}

	for _, col := range []int{0, 1, 6, 7} {
		if fb.Pixel(1, col) != rgb(0xff, 0xff, 0xff) {
			t.Errorf("Expected white head light at col %d, got %v", col, fb.Pixel(1, col))
		}
	}
	// First wheel step from pure red
	for col := 0; col < MatrixCols; col++ {
		if fb.Pixel(0, col) != rgb(0xfe, 0x01, 0x00) {
			t.Errorf("Expected interior (fe,01,00) at col %d, got %v", col, fb.Pixel(0, col))
		}
	}
	for _, col := range []int{2, 3, 4, 5} {
		if fb.Pixel(1, col) != rgb(0, 0, 0) {
			t.Errorf("Expected blinker off at col %d, got %v", col, fb.Pixel(1, col))
		}
	}
}

func TestPainterFlickerWhileHeld(t *testing.T) {
	fb, _ := newTestFrame(t)
	p := NewPainter(fb, DefaultLayout, func() bool { return true }, 7)

	for i := 0; i < 50; i++ {
		_ = p.Paint(Status{Ignition: true})
		left := fb.Pixel(1, 6)
		if left.R == 0xff {
			t.Fatalf("frame %d: Expected flicker below full intensity, got %v", i, left)
		}
		if left.R != left.G || left.G != left.B || fb.Pixel(1, 0) != left {
			t.Fatalf("frame %d: Expected equal grey head lights, got %v and %v", i, left, fb.Pixel(1, 0))
		}
	}
}

func TestPainterBlinkCycle(t *testing.T) {
	fb, _ := newTestFrame(t)
	p := NewPainter(fb, DefaultLayout, nil, 1)
	status := Status{Ignition: true, BlinkLeft: true}

	period := int(framesFor(BlinkPeriodMS))
	on := int(framesFor(BlinkOnMS))
	for frame := 0; frame < 2*period; frame++ {
		_ = p.Paint(status)
		expected := rgb(0, 0, 0)
		if frame%period < on {
			expected = rgb(blinkR, blinkG, blinkB)
		}
		for _, col := range []int{4, 5} {
			if fb.Pixel(1, col) != expected {
				t.Fatalf("frame %d col %d: Expected %v, got %v", frame, col, expected, fb.Pixel(1, col))
			}
		}
		for _, col := range []int{2, 3} {
			if fb.Pixel(1, col) != rgb(0, 0, 0) {
				t.Fatalf("frame %d: Expected right blinker dark, got %v", frame, fb.Pixel(1, col))
			}
		}
	}
}

func TestPainterSendError(t *testing.T) {
	fb, strip := newTestFrame(t)
	strip.err = errors.New("strip busy")
	p := NewPainter(fb, DefaultLayout, nil, 1)

	if err := p.Paint(Status{}); err != strip.err {
		t.Errorf("Expected strip error, got %v", err)
	}
	if p.Frame() != 1 {
		t.Errorf("Expected frame counter to advance on send error, got %d", p.Frame())
	}
}

func TestColorWheelCycle(t *testing.T) {
	w := newColorWheel()
	for i := 0; i < 255; i++ {
		w.step()
	}
	if w != (colorWheel{r: 0, g: 0xff, b: 0}) {
		t.Errorf("Expected pure green after 255 steps, got %+v", w)
	}
	for i := 0; i < 255; i++ {
		w.step()
	}
	if w != (colorWheel{r: 0, g: 0, b: 0xff}) {
		t.Errorf("Expected pure blue after 510 steps, got %+v", w)
	}
	for i := 0; i < 255; i++ {
		w.step()
	}
	if w != newColorWheel() {
		t.Errorf("Expected pure red after a full cycle, got %+v", w)
	}
}
