package core

import (
	"errors"
	"testing"
)

// MockInputDriver is a test implementation of InputDriver
type MockInputDriver struct {
	levels     map[GPIOPin]bool
	configured map[GPIOPin]bool
	failPin    GPIOPin
	failErr    error
}

func NewMockInputDriver() *MockInputDriver {
	return &MockInputDriver{
		levels:     make(map[GPIOPin]bool),
		configured: make(map[GPIOPin]bool),
	}
}

func (m *MockInputDriver) ConfigureInputPullUp(pin GPIOPin) error {
	if m.failErr != nil && pin == m.failPin {
		return m.failErr
	}
	m.configured[pin] = true
	m.levels[pin] = true // pulled up
	return nil
}

func (m *MockInputDriver) ReadPin(pin GPIOPin) bool {
	return m.levels[pin]
}

func TestActiveLowInputs(t *testing.T) {
	driver := NewMockInputDriver()
	pins := ButtonPins{10, 11, 13}

	inputs, err := NewActiveLowInputs(driver, pins)
	if err != nil {
		t.Fatalf("NewActiveLowInputs failed: %v", err)
	}
	for _, pin := range pins {
		if !driver.configured[pin] {
			t.Errorf("Expected pin %d configured with pull-up", pin)
		}
	}

	if inputs.Asserted(ChannelLeft) {
		t.Errorf("Expected released button with pin high")
	}
	driver.levels[11] = false
	if !inputs.Asserted(ChannelLeft) {
		t.Errorf("Expected pressed button with pin low")
	}
	if inputs.Asserted(ChannelRight) {
		t.Errorf("Expected right button still released")
	}
	if inputs.Asserted(NumChannels) {
		t.Errorf("Expected out-of-range channel to read released")
	}

	ch, ok := inputs.ChannelForPin(13)
	if !ok || ch != ChannelRight {
		t.Errorf("Expected pin 13 to map to right, got %s (%v)", ch, ok)
	}
	if _, ok := inputs.ChannelForPin(12); ok {
		t.Errorf("Expected pin 12 to be unmapped")
	}
}

func TestActiveLowInputsConfigureError(t *testing.T) {
	driver := NewMockInputDriver()
	driver.failPin = 11
	driver.failErr = errors.New("pin busy")

	if _, err := NewActiveLowInputs(driver, ButtonPins{10, 11, 13}); err != driver.failErr {
		t.Errorf("Expected configure error, got %v", err)
	}
}
