package protocol

import (
	"errors"
	"io"
	"sync"
	"time"
)

// Reader decodes frames from a byte stream on a background goroutine
type Reader struct {
	r       io.Reader
	input   *FifoBuffer
	decoder *Decoder

	messages chan Message

	mu  sync.Mutex
	err error

	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once
}

// NewReader starts reading r. The Messages channel is closed when r returns
// io.EOF or Stop is called.
func NewReader(r io.Reader) *Reader {
	rd := &Reader{
		r:        r,
		input:    NewFifoBuffer(512),
		decoder:  NewDecoder(),
		messages: make(chan Message, 16),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
	go rd.readLoop()
	return rd
}

// Messages returns the channel of decoded frames
func (rd *Reader) Messages() <-chan Message {
	return rd.messages
}

// readLoop continuously reads from the stream and decodes frames
func (rd *Reader) readLoop() {
	defer close(rd.doneChan)
	defer close(rd.messages)

	buffer := make([]byte, 256)
	for {
		select {
		case <-rd.stopChan:
			return
		default:
		}

		n, err := rd.r.Read(buffer)
		if n > 0 {
			rd.input.Write(buffer[:n])
			if !rd.process() {
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				rd.setErr(err)
			}
			return
		}
		if n == 0 {
			// Read timeout with nothing buffered
			time.Sleep(time.Millisecond)
		}
	}
}

// process decodes buffered frames; it returns false once stopped
func (rd *Reader) process() bool {
	var pending []Message

	rd.mu.Lock()
	rd.decoder.Decode(rd.input, func(msg Message) {
		pending = append(pending, msg)
	})
	rd.mu.Unlock()

	for _, msg := range pending {
		select {
		case rd.messages <- msg:
		case <-rd.stopChan:
			return false
		}
	}
	return true
}

func (rd *Reader) setErr(err error) {
	rd.mu.Lock()
	rd.err = err
	rd.mu.Unlock()
}

// Err returns the read error that ended the stream, if any
func (rd *Reader) Err() error {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	return rd.err
}

// Stats returns the decoder counters
func (rd *Reader) Stats() DecoderStats {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	return rd.decoder.Stats()
}

// Stop ends the read loop and waits for it. The underlying reader is not
// closed; a blocked Read returns on its own timeout or when the caller closes it.
func (rd *Reader) Stop() {
	rd.stopOnce.Do(func() { close(rd.stopChan) })
	<-rd.doneChan
}
