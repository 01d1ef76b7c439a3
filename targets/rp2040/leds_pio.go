//go:build (rp2040 || rp2350) && pio

package main

import (
	"machine"

	"bulli/core"
	"bulli/targets/pio"
)

func newStrip(pin machine.Pin) (core.Strip, error) {
	return pio.NewStrip(pin)
}
