package core

import (
	"errors"
	"io"

	"bulli/protocol"
)

// Telemetry message IDs
const (
	MsgBoot   = 1
	MsgStatus = 2
	MsgEvent  = 3
	MsgFault  = 4
)

// maxReportText bounds the strings in boot and fault reports so a report always fits a frame
const maxReportText = 24

var ErrUnknownReport = errors.New("unknown report id")

// Report is one telemetry message. Which fields are meaningful depends on Kind:
//
//	MsgBoot:   Text (version), Capacity, Window
//	MsgStatus: Tick, Frame, Status, Pending, Dropped
//	MsgEvent:  Tick, Event, Status (after processing)
//	MsgFault:  Stage, Text
type Report struct {
	Kind     uint8
	Tick     uint32
	Frame    uint32
	Status   Status
	Event    Event
	Pending  uint32
	Dropped  uint32
	Capacity uint32
	Window   uint32
	Stage    string
	Text     string
}

func clip(s string) string {
	if len(s) > maxReportText {
		return s[:maxReportText]
	}
	return s
}

// EncodeReport writes the report payload
func EncodeReport(out protocol.OutputBuffer, r Report) {
	protocol.EncodeVLQUint(out, uint32(r.Kind))
	switch r.Kind {
	case MsgBoot:
		protocol.EncodeVLQString(out, clip(r.Text))
		protocol.EncodeVLQUint(out, r.Capacity)
		protocol.EncodeVLQUint(out, r.Window)
	case MsgStatus:
		protocol.EncodeVLQUint(out, r.Tick)
		protocol.EncodeVLQUint(out, r.Frame)
		protocol.EncodeVLQUint(out, uint32(r.Status.Flags()))
		protocol.EncodeVLQUint(out, r.Pending)
		protocol.EncodeVLQUint(out, r.Dropped)
	case MsgEvent:
		protocol.EncodeVLQUint(out, r.Tick)
		protocol.EncodeVLQUint(out, uint32(r.Event))
		protocol.EncodeVLQUint(out, uint32(r.Status.Flags()))
	case MsgFault:
		protocol.EncodeVLQString(out, clip(r.Stage))
		protocol.EncodeVLQString(out, clip(r.Text))
	}
}

// DecodeReport parses a report payload
func DecodeReport(payload []byte) (Report, error) {
	data := payload
	var r Report

	id, err := protocol.DecodeVLQUint(&data)
	if err != nil {
		return r, err
	}
	r.Kind = uint8(id)

	var flags uint32
	switch r.Kind {
	case MsgBoot:
		if r.Text, err = protocol.DecodeVLQString(&data); err != nil {
			return r, err
		}
		if r.Capacity, err = protocol.DecodeVLQUint(&data); err != nil {
			return r, err
		}
		r.Window, err = protocol.DecodeVLQUint(&data)
	case MsgStatus:
		if r.Tick, err = protocol.DecodeVLQUint(&data); err != nil {
			return r, err
		}
		if r.Frame, err = protocol.DecodeVLQUint(&data); err != nil {
			return r, err
		}
		if flags, err = protocol.DecodeVLQUint(&data); err != nil {
			return r, err
		}
		r.Status = StatusFromFlags(uint8(flags))
		if r.Pending, err = protocol.DecodeVLQUint(&data); err != nil {
			return r, err
		}
		r.Dropped, err = protocol.DecodeVLQUint(&data)
	case MsgEvent:
		if r.Tick, err = protocol.DecodeVLQUint(&data); err != nil {
			return r, err
		}
		var ev uint32
		if ev, err = protocol.DecodeVLQUint(&data); err != nil {
			return r, err
		}
		r.Event = Event(ev)
		if flags, err = protocol.DecodeVLQUint(&data); err != nil {
			return r, err
		}
		r.Status = StatusFromFlags(uint8(flags))
	case MsgFault:
		if r.Stage, err = protocol.DecodeVLQString(&data); err != nil {
			return r, err
		}
		r.Text, err = protocol.DecodeVLQString(&data)
	default:
		return r, ErrUnknownReport
	}
	return r, err
}

// Telemetry frames reports onto a byte stream such as the USB serial port
type Telemetry struct {
	w      io.Writer
	framer *protocol.Framer
	out    *protocol.ScratchOutput
	errors uint32
}

// NewTelemetry creates a telemetry link writing to w
func NewTelemetry(w io.Writer) *Telemetry {
	return &Telemetry{
		w:      w,
		framer: protocol.NewFramer(),
		out:    protocol.NewScratchOutput(),
	}
}

// Send frames and writes one report
func (t *Telemetry) Send(r Report) error {
	t.out.Reset()
	if err := t.framer.Encode(t.out, func(o protocol.OutputBuffer) { EncodeReport(o, r) }); err != nil {
		t.errors++
		return err
	}
	if _, err := t.w.Write(t.out.Result()); err != nil {
		t.errors++
		return err
	}
	return nil
}

// Errors returns how many reports could not be sent
func (t *Telemetry) Errors() uint32 {
	return t.errors
}
