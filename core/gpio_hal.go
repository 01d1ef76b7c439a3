package core

// GPIOPin identifies a hardware GPIO pin number
type GPIOPin uint32

// InputDriver is the abstract GPIO input interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type InputDriver interface {
	// ConfigureInputPullUp configures a pin as a digital input with pull-up resistor
	ConfigureInputPullUp(pin GPIOPin) error

	// ReadPin reads the current pin level (true = high)
	ReadPin(pin GPIOPin) bool
}

// ButtonPins assigns a GPIO pin to each button channel
type ButtonPins [NumChannels]GPIOPin

// ActiveLowInputs adapts an InputDriver to a PinSampler for buttons that pull
// their pin to ground when pressed
type ActiveLowInputs struct {
	driver InputDriver
	pins   ButtonPins
}

// NewActiveLowInputs configures every button pin with a pull-up
func NewActiveLowInputs(driver InputDriver, pins ButtonPins) (*ActiveLowInputs, error) {
	for _, pin := range pins {
		if err := driver.ConfigureInputPullUp(pin); err != nil {
			return nil, err
		}
	}
	return &ActiveLowInputs{
		driver: driver,
		pins:   pins,
	}, nil
}

// Asserted reports whether the button on ch is pressed (pin low)
func (a *ActiveLowInputs) Asserted(ch Channel) bool {
	if ch >= NumChannels {
		return false
	}
	return !a.driver.ReadPin(a.pins[ch])
}

// Pin returns the GPIO pin of a channel
func (a *ActiveLowInputs) Pin(ch Channel) GPIOPin {
	return a.pins[ch]
}

// ChannelForPin maps a GPIO pin back to its button channel
func (a *ActiveLowInputs) ChannelForPin(pin GPIOPin) (Channel, bool) {
	for i, p := range a.pins {
		if p == pin {
			return Channel(i), true
		}
	}
	return 0, false
}
