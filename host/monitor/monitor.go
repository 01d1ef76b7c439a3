package monitor

import (
	"context"
	"fmt"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"

	"bulli/core"
	"bulli/protocol"
)

// Snapshot is the vehicle state as last reported over telemetry
type Snapshot struct {
	Version  string
	Capacity uint32
	Window   uint32

	Status  core.Status
	Tick    uint32
	Frame   uint32
	Pending uint32
	Dropped uint32

	Events    uint32
	Faults    []core.Report
	BadReport uint32

	Link protocol.DecoderStats
}

func (s Snapshot) String() string {
	return fmt.Sprintf("status=%s tick=%d frame=%d pending=%d dropped=%d events=%d faults=%d lost=%d",
		s.Status, s.Tick, s.Frame, s.Pending, s.Dropped, s.Events, len(s.Faults), s.Link.Lost)
}

// Monitor decodes telemetry reports from the vehicle and keeps the latest state
type Monitor struct {
	reader *protocol.Reader
	log    log.FieldLogger

	mu    sync.RWMutex
	state Snapshot

	// OnReport is called for every decoded report, from the Run goroutine
	OnReport func(core.Report)
}

// New starts decoding frames from r
func New(r io.Reader, logger log.FieldLogger) *Monitor {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Monitor{
		reader: protocol.NewReader(r),
		log:    logger,
	}
}

// Run consumes reports until ctx is cancelled or the stream ends. It returns
// the stream error, if any.
func (m *Monitor) Run(ctx context.Context) error {
	defer m.reader.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-m.reader.Messages():
			if !ok {
				return m.reader.Err()
			}
			m.handle(msg)
		}
	}
}

func (m *Monitor) handle(msg protocol.Message) {
	r, err := core.DecodeReport(msg.Payload)
	if err != nil {
		m.mu.Lock()
		m.state.BadReport++
		m.mu.Unlock()
		m.log.WithError(err).WithField("seq", msg.Sequence).Warn("undecodable report")
		return
	}

	m.apply(r)
	if m.OnReport != nil {
		m.OnReport(r)
	}
}

func (m *Monitor) apply(r core.Report) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch r.Kind {
	case core.MsgBoot:
		m.state = Snapshot{
			Version:   r.Text,
			Capacity:  r.Capacity,
			Window:    r.Window,
			BadReport: m.state.BadReport,
		}
		m.log.WithFields(log.Fields{
			"version":  r.Text,
			"capacity": r.Capacity,
			"window":   r.Window,
		}).Info("vehicle booted")

	case core.MsgStatus:
		if r.Dropped > m.state.Dropped {
			m.log.WithField("dropped", r.Dropped).Warn("button presses dropped, event queue full")
		}
		m.state.Tick = r.Tick
		m.state.Frame = r.Frame
		m.state.Status = r.Status
		m.state.Pending = r.Pending
		m.state.Dropped = r.Dropped
		m.log.WithFields(log.Fields{
			"status":  r.Status.String(),
			"frame":   r.Frame,
			"pending": r.Pending,
		}).Debug("status")

	case core.MsgEvent:
		m.state.Events++
		m.state.Tick = r.Tick
		m.state.Status = r.Status
		m.log.WithFields(log.Fields{
			"event":  r.Event.String(),
			"status": r.Status.String(),
			"tick":   r.Tick,
		}).Info("button event")

	case core.MsgFault:
		m.state.Faults = append(m.state.Faults, r)
		m.log.WithField("stage", r.Stage).Error("vehicle fault: " + r.Text)
	}
}

// Snapshot returns a copy of the current state
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.state
	s.Faults = append([]core.Report(nil), m.state.Faults...)
	s.Link = m.reader.Stats()
	return s
}
