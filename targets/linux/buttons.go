//go:build linux

package main

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"bulli/core"
)

// CdevDriver implements core.InputDriver on the Linux GPIO character device.
// Every requested line reports both edges to onEdge.
type CdevDriver struct {
	chip   *gpiocdev.Chip
	lines  map[core.GPIOPin]*gpiocdev.Line
	onEdge func(core.GPIOPin)
}

// NewCdevDriver opens the named chip (e.g. "gpiochip0")
func NewCdevDriver(chip string, onEdge func(core.GPIOPin)) (*CdevDriver, error) {
	c, err := gpiocdev.NewChip(chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	return &CdevDriver{
		chip:   c,
		lines:  make(map[core.GPIOPin]*gpiocdev.Line),
		onEdge: onEdge,
	}, nil
}

func (d *CdevDriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	if _, exists := d.lines[pin]; exists {
		return nil
	}
	line, err := d.chip.RequestLine(int(pin),
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(d.handle))
	if err != nil {
		return fmt.Errorf("request pin %d: %w", pin, err)
	}
	d.lines[pin] = line
	return nil
}

func (d *CdevDriver) handle(evt gpiocdev.LineEvent) {
	if d.onEdge != nil {
		d.onEdge(core.GPIOPin(evt.Offset))
	}
}

// ReadPin returns the raw line level. Read errors read as high (released).
func (d *CdevDriver) ReadPin(pin core.GPIOPin) bool {
	line, exists := d.lines[pin]
	if !exists {
		return true
	}
	v, err := line.Value()
	if err != nil {
		return true
	}
	return v != 0
}

// Close releases all lines and the chip
func (d *CdevDriver) Close() error {
	var errs []error
	for pin, line := range d.lines {
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", pin, err))
		}
	}
	if err := d.chip.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close chip: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
