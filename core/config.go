package core

// Firmware configuration. There is no runtime configuration surface.
const (
	// DebounceWindow is the number of ticks a press is sampled before it is accepted
	DebounceWindow = 30

	// TickPeriodMS is the period of the debounce timebase
	TickPeriodMS = 1

	// QueueCapacity is the number of pending events the main loop can fall behind by
	QueueCapacity = 10

	// RefreshPeriodMS is the frame period of the render loop
	RefreshPeriodMS = 100

	// Matrix geometry
	MatrixRows = 2
	MatrixCols = 8

	// StatusReportFrames is how many frames pass between status telemetry reports
	StatusReportFrames = 10
)

// Blinker timing
const (
	BlinkPeriodMS = 2000
	BlinkOnMS     = 1000
)

// framesFor converts milliseconds into a number of render frames
func framesFor(ms uint32) uint32 {
	return ms / RefreshPeriodMS
}
