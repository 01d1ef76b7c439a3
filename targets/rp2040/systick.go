//go:build rp2040 || rp2350

package main

import (
	"device/arm"
	"machine"

	"bulli/core"
)

// StartTick starts the debounce timebase on the Cortex-M SysTick timer
func StartTick() error {
	return arm.SetupSystemTimer(machine.CPUFrequency() / 1000 * core.TickPeriodMS)
}

//go:export SysTick_Handler
func handleSysTick() {
	if ctrl != nil {
		ctrl.Tick()
	}
}
