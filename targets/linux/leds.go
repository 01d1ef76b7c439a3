//go:build linux

package main

import (
	"fmt"
	"image/color"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// spiStrip drives a WS2812 chain from a SPI MOSI pin through periph's NRZ encoder
type spiStrip struct {
	port spi.PortCloser
	dev  *nrzled.Dev
	raw  []byte
}

func openSPIStrip(name string, pixels int) (*spiStrip, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	port, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", name, err)
	}

	opts := nrzled.DefaultOpts
	opts.NumPixels = pixels
	opts.Channels = 3
	dev, err := nrzled.NewSPI(port, &opts)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("init nrzled: %w", err)
	}
	return &spiStrip{
		port: port,
		dev:  dev,
		raw:  make([]byte, pixels*3),
	}, nil
}

func (s *spiStrip) WriteColors(buf []color.RGBA) error {
	n := packRGB(s.raw, buf)
	_, err := s.dev.Write(s.raw[:n])
	return err
}

func (s *spiStrip) Close() error {
	if err := s.dev.Halt(); err != nil {
		log.WithError(err).Warn("Could not blank LED strip")
	}
	return s.port.Close()
}

// packRGB flattens pixels into r,g,b byte triples and returns the byte count
func packRGB(dst []byte, buf []color.RGBA) int {
	n := 0
	for _, c := range buf {
		if n+3 > len(dst) {
			break
		}
		dst[n], dst[n+1], dst[n+2] = c.R, c.G, c.B
		n += 3
	}
	return n
}

// logStrip stands in for the LEDs when running without hardware. It logs a
// frame only when it differs from the previous one.
type logStrip struct {
	log  log.FieldLogger
	last []color.RGBA
}

func newLogStrip(logger log.FieldLogger) *logStrip {
	return &logStrip{log: logger}
}

func (s *logStrip) WriteColors(buf []color.RGBA) error {
	if sameFrame(s.last, buf) {
		return nil
	}
	s.last = append(s.last[:0], buf...)
	s.log.WithField("pixels", formatFrame(buf)).Debug("frame")
	return nil
}

func sameFrame(a, b []color.RGBA) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func formatFrame(buf []color.RGBA) string {
	out := make([]byte, 0, len(buf)*7)
	for i, c := range buf {
		if i > 0 {
			out = append(out, ' ')
		}
		out = fmt.Appendf(out, "%02x%02x%02x", c.R, c.G, c.B)
	}
	return string(out)
}
