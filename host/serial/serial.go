package serial

import (
	"io"
)

// Port is a telemetry link to the vehicle. Implementations:
// - Native serial (github.com/tarm/serial)
// - In-memory pipes in tests
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate (USB CDC ignores this)
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultBaud matches the firmware's UART configuration
const DefaultBaud = 115200

// DefaultConfig returns the configuration used by bulli-monitor
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 50,
	}
}
