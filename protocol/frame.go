package protocol

import "errors"

var ErrMessageTooLong = errors.New("message too long")

// Framer wraps payloads into frames with a rolling sequence number
type Framer struct {
	seq uint8
}

// NewFramer creates a new Framer
func NewFramer() *Framer {
	return &Framer{}
}

// Encode appends one frame holding the payload written by body
func (f *Framer) Encode(out OutputBuffer, body func(output OutputBuffer)) error {
	var payload ScratchOutput
	body(&payload)
	n := payload.CurPosition()
	if n > MessagePayloadMax {
		return ErrMessageTooLong
	}

	seq := MessageDest | (f.seq & MessageSeqMask)
	f.seq++

	start := out.CurPosition()
	out.Output([]byte{uint8(n + MessageLengthMin), seq})
	out.Output(payload.Result())

	crc := CRC16(out.DataSince(start))
	out.Output([]byte{
		uint8((crc & 0xFF00) >> 8),
		uint8(crc & 0xFF),
		MessageValueSync,
	})
	return nil
}

// DecoderStats counts what a Decoder has seen
type DecoderStats struct {
	Frames  uint32 // valid frames delivered
	Resyncs uint32 // times the stream was dropped until the next sync byte
	Lost    uint32 // frames missing according to the sequence numbers
}

// Decoder extracts validated frames from a byte stream. On a bad length,
// destination, trailer or CRC it discards bytes up to the next sync byte.
type Decoder struct {
	synced  bool
	haveSeq bool
	nextSeq uint8
	stats   DecoderStats
}

// NewDecoder creates a Decoder that assumes the stream starts on a frame boundary
func NewDecoder() *Decoder {
	return &Decoder{synced: true}
}

// Decode consumes every complete frame in input and hands it to handle.
// Incomplete trailing data is left in input for the next call.
func (d *Decoder) Decode(input InputBuffer, handle func(Message)) {
	data := input.Data()

	for len(data) > 0 {
		if !d.synced {
			syncPos := -1
			for i, b := range data {
				if b == MessageValueSync {
					syncPos = i
					break
				}
			}
			if syncPos < 0 {
				data = nil
				break
			}
			data = data[syncPos+1:]
			d.synced = true
			continue
		}

		// Skip leading sync bytes
		if data[0] == MessageValueSync {
			data = data[1:]
			continue
		}

		if len(data) < MessageLengthMin {
			break
		}

		msgLen := int(data[MessagePositionLen])
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax {
			d.desync()
			continue
		}

		seq := data[MessagePositionSeq]
		if seq&^MessageSeqMask != MessageDest {
			d.desync()
			continue
		}

		// Wait for full message
		if len(data) < msgLen {
			break
		}

		if data[msgLen-MessageTrailerSync] != MessageValueSync {
			d.desync()
			continue
		}

		frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 |
			uint16(data[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
			d.desync()
			continue
		}

		payload := make([]byte, msgLen-MessageLengthMin)
		copy(payload, data[MessageHeaderSize:msgLen-MessageTrailerSize])
		data = data[msgLen:]

		d.track(seq)
		d.stats.Frames++
		if handle != nil {
			handle(Message{Sequence: seq, Payload: payload})
		}
	}

	consumed := input.Available() - len(data)
	if consumed > 0 {
		input.Pop(consumed)
	}
}

// track updates the lost-frame count from the sequence number
func (d *Decoder) track(seq uint8) {
	n := seq & MessageSeqMask
	if d.haveSeq && n != d.nextSeq {
		d.stats.Lost += uint32((n - d.nextSeq) & MessageSeqMask)
	}
	d.haveSeq = true
	d.nextSeq = (n + 1) & MessageSeqMask
}

func (d *Decoder) desync() {
	d.synced = false
	d.stats.Resyncs++
}

// Stats returns the decoder counters
func (d *Decoder) Stats() DecoderStats {
	return d.stats
}
