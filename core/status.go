package core

// Status is the application state the render stage draws from.
// BlinkLeft and BlinkRight are never both set.
type Status struct {
	Ignition   bool
	BlinkLeft  bool
	BlinkRight bool
}

// Status flag bits used by telemetry
const (
	FlagIgnition   = 1 << 0
	FlagBlinkLeft  = 1 << 1
	FlagBlinkRight = 1 << 2
)

// Flags packs the status into a bit field
func (s Status) Flags() uint8 {
	var f uint8
	if s.Ignition {
		f |= FlagIgnition
	}
	if s.BlinkLeft {
		f |= FlagBlinkLeft
	}
	if s.BlinkRight {
		f |= FlagBlinkRight
	}
	return f
}

// StatusFromFlags unpacks a bit field produced by Flags
func StatusFromFlags(f uint8) Status {
	return Status{
		Ignition:   f&FlagIgnition != 0,
		BlinkLeft:  f&FlagBlinkLeft != 0,
		BlinkRight: f&FlagBlinkRight != 0,
	}
}

// String returns the compact flag form, e.g. "IL-"
func (s Status) String() string {
	return flagString(s)
}

// Process applies one event to the status and returns the new status.
// Unknown event codes leave the status unchanged.
func Process(e Event, s Status) Status {
	switch e {
	case EventIgnitionToggle:
		// Toggling the ignition either way cancels the turn signals
		s.Ignition = !s.Ignition
		s.BlinkLeft = false
		s.BlinkRight = false

	case EventLeftToggle:
		if !s.Ignition {
			break
		}
		s.BlinkLeft = !s.BlinkLeft
		if s.BlinkLeft {
			s.BlinkRight = false
		}

	case EventRightToggle:
		if !s.Ignition {
			break
		}
		s.BlinkRight = !s.BlinkRight
		if s.BlinkRight {
			s.BlinkLeft = false
		}
	}
	return s
}
