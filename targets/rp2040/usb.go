//go:build rp2040 || rp2350

package main

import (
	"machine"
)

// InitUSB initializes the USB CDC port used for telemetry
func InitUSB() error {
	// machine.Serial is USB CDC on RP2040 and RP2350
	return machine.Serial.Configure(machine.UARTConfig{})
}

// usbWriter sends telemetry frames over USB CDC
type usbWriter struct{}

func (usbWriter) Write(p []byte) (int, error) {
	return machine.Serial.Write(p)
}
