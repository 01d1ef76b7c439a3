//go:build linux

package main

import (
	"image/color"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestPackRGB(t *testing.T) {
	buf := []color.RGBA{{R: 1, G: 2, B: 3, A: 0xff}, {R: 4, G: 5, B: 6, A: 0xff}}
	dst := make([]byte, 6)
	if n := packRGB(dst, buf); n != 6 {
		t.Fatalf("Expected 6 bytes, got %d", n)
	}
	for i, want := range []byte{1, 2, 3, 4, 5, 6} {
		if dst[i] != want {
			t.Errorf("byte %d: Expected %d, got %d", i, want, dst[i])
		}
	}

	short := make([]byte, 4)
	if n := packRGB(short, buf); n != 3 {
		t.Errorf("Expected partial pixels to be skipped, got %d bytes", n)
	}
}

func TestLogStripSkipsRepeatedFrames(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	strip := newLogStrip(logger)

	frame := []color.RGBA{{R: 0xff, A: 0xff}, {}}
	_ = strip.WriteColors(frame)
	_ = strip.WriteColors(frame)
	if len(hook.Entries) != 1 {
		t.Fatalf("Expected 1 logged frame, got %d", len(hook.Entries))
	}
	if got := hook.LastEntry().Data["pixels"]; got != "ff0000 000000" {
		t.Errorf("Expected pixels ff0000 000000, got %v", got)
	}

	frame[1] = color.RGBA{B: 0x10, A: 0xff}
	_ = strip.WriteColors(frame)
	if len(hook.Entries) != 2 {
		t.Errorf("Expected changed frame to be logged, got %d entries", len(hook.Entries))
	}
}
