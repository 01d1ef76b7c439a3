package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TraceEvent captures a button or queue event for post-mortem analysis
type TraceEvent struct {
	Kind    uint8  // Trace kind code
	Channel uint8  // Button channel or event code
	Tick    uint32 // Debounce tick at the event
	Value   uint32 // Kind-dependent value
}

// Trace kind codes
const (
	TracePressAccepted = 1 // window ended with every sample pressed, Value = matches
	TracePressRejected = 2 // window ended with a bounce, Value = matches
	TraceQueueDrop     = 3 // event dropped on a full queue, Value = total drops
	TraceDispatch      = 4 // event processed by the main loop, Value = status flags
	TraceFault         = 5 // fatal init error
)

const (
	TraceRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Trace ring buffer, written inside critical sections only
	traceRing     [TraceRingSize]TraceEvent
	traceRingHead uint8

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to USB, a logger, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

// debugOutputWorker runs in background, drains debug channel
func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking)
// Returns immediately even if channel is full (drops message)
func DebugAsync(msg string) {
	if debugEnabled && debugChan != nil {
		select {
		case debugChan <- msg:
		default:
		}
	}
}

// traceLocked appends to the trace ring. The caller holds a critical section.
func traceLocked(kind, channel uint8, tick, value uint32) {
	idx := traceRingHead
	traceRing[idx] = TraceEvent{
		Kind:    kind,
		Channel: channel,
		Tick:    tick,
		Value:   value,
	}
	traceRingHead = (idx + 1) % TraceRingSize
}

// RecordTrace captures an event in the trace ring
func RecordTrace(kind, channel uint8, tick, value uint32) {
	state := disableInterrupts()
	traceLocked(kind, channel, tick, value)
	restoreInterrupts(state)
}

// Traces returns the recorded events from oldest to newest
func Traces() []TraceEvent {
	state := disableInterrupts()
	ring := traceRing
	start := traceRingHead
	restoreInterrupts(state)

	events := make([]TraceEvent, 0, TraceRingSize)
	for i := uint8(0); i < TraceRingSize; i++ {
		evt := ring[(start+i)%TraceRingSize]
		if evt.Kind == 0 {
			continue // Empty slot
		}
		events = append(events, evt)
	}
	return events
}

// DumpTrace outputs the trace ring (call on fault or from a debug command)
func DumpTrace() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TRACE] === Trace Ring Dump ===")
	for _, evt := range Traces() {
		var name string
		switch evt.Kind {
		case TracePressAccepted:
			name = "PRESS"
		case TracePressRejected:
			name = "BOUNCE"
		case TraceQueueDrop:
			name = "DROP!"
		case TraceDispatch:
			name = "DISPATCH"
		case TraceFault:
			name = "FAULT!"
		default:
			name = "UNKNOWN"
		}

		debugPrintln("[TRACE] " + name +
			" ch=" + utoa(uint32(evt.Channel)) +
			" tick=" + utoa(evt.Tick) +
			" v=" + utoa(evt.Value))
	}
	debugPrintln("[TRACE] === End Dump ===")
}

// ClearTrace clears the trace ring
func ClearTrace() {
	state := disableInterrupts()
	for i := range traceRing {
		traceRing[i] = TraceEvent{}
	}
	traceRingHead = 0
	restoreInterrupts(state)
}
