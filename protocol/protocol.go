// Package protocol implements the framed telemetry link between the firmware
// and a host: VLQ-encoded messages wrapped in length, sequence, CRC16 and sync bytes.
package protocol

// Version is the firmware version reported in the boot message
const Version = "1.0.0"

// Frame layout: len, seq, payload..., crc hi, crc lo, sync
const (
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePayloadMax  = MessageLengthMax - MessageLengthMin
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10

	// MessageSeqMask selects the rolling sequence number from the seq byte
	MessageSeqMask = 0x0F

	// MessageMax is the scratch buffer size for building outgoing frames
	MessageMax = 128
)

// Message is one validated frame
type Message struct {
	Sequence uint8
	Payload  []byte // Frame data without header/trailer
}
