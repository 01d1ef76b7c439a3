//go:build !tinygo

package core

import "sync"

// State mirrors interrupt.State on hosted builds
type State uintptr

// hostIRQ stands in for the interrupt mask when the tick and edge handlers
// run on goroutines instead of interrupt vectors. Critical sections must not nest.
var hostIRQ sync.Mutex

// disableInterrupts enters a critical section
func disableInterrupts() State {
	hostIRQ.Lock()
	return 0
}

// restoreInterrupts leaves the critical section entered by disableInterrupts
func restoreInterrupts(state State) {
	hostIRQ.Unlock()
}
