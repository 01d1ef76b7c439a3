//go:build rp2040 || rp2350

package main

import (
	"machine"

	"bulli/core"
)

// RPGPIODriver implements core.InputDriver for RP2040 and RP2350
type RPGPIODriver struct {
	// Track configured pins to prevent conflicts
	configuredPins map[core.GPIOPin]machine.Pin
}

// NewRPGPIODriver creates a new GPIO driver
func NewRPGPIODriver() *RPGPIODriver {
	return &RPGPIODriver{
		configuredPins: make(map[core.GPIOPin]machine.Pin),
	}
}

func (d *RPGPIODriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	if _, exists := d.configuredPins[pin]; exists {
		return nil
	}

	machinePin := machine.Pin(pin)
	machinePin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	d.configuredPins[pin] = machinePin
	return nil
}

// ReadPin reads the pin level. Unconfigured pins read high (released).
// Called from the SysTick handler.
func (d *RPGPIODriver) ReadPin(pin core.GPIOPin) bool {
	machinePin, exists := d.configuredPins[pin]
	if !exists {
		return true
	}
	return machinePin.Get()
}

// WatchEdges arms the debouncer of a channel on every edge of its pin
func (d *RPGPIODriver) WatchEdges(inputs *core.ActiveLowInputs, arm func(core.Channel)) error {
	for ch := core.Channel(0); ch < core.NumChannels; ch++ {
		machinePin, exists := d.configuredPins[inputs.Pin(ch)]
		if !exists {
			return core.ErrInvalidChannel
		}
		ch := ch
		err := machinePin.SetInterrupt(machine.PinFalling|machine.PinRising, func(machine.Pin) {
			arm(ch)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
