package core

import (
	"strings"
	"testing"
	"time"
)

func captureDebug(t *testing.T) *[]string {
	t.Helper()
	lines := &[]string{}
	SetDebugWriter(func(s string) { *lines = append(*lines, s) })
	SetDebugEnabled(true)
	t.Cleanup(func() {
		SetDebugWriter(func(string) {})
		SetDebugEnabled(false)
	})
	return lines
}

func TestDebugPrintlnRespectsEnable(t *testing.T) {
	lines := captureDebug(t)
	DebugPrintln("one")
	SetDebugEnabled(false)
	DebugPrintln("two")

	if len(*lines) != 1 || (*lines)[0] != "one" {
		t.Errorf("Expected only the enabled message, got %v", *lines)
	}
}

func TestDumpTrace(t *testing.T) {
	lines := captureDebug(t)
	ClearTrace()
	RecordTrace(TracePressAccepted, uint8(ChannelLeft), 1234, 30)
	RecordTrace(TraceQueueDrop, uint8(EventRightToggle), 1300, 1)

	DumpTrace()
	out := strings.Join(*lines, "\n")
	if !strings.Contains(out, "PRESS ch=1 tick=1234 v=30") {
		t.Errorf("Expected accepted press in dump, got:\n%s", out)
	}
	if !strings.Contains(out, "DROP! ch=3 tick=1300 v=1") {
		t.Errorf("Expected queue drop in dump, got:\n%s", out)
	}
}

func TestTraceRingWraps(t *testing.T) {
	ClearTrace()
	for i := uint32(0); i < TraceRingSize+5; i++ {
		RecordTrace(TraceDispatch, 0, i, 0)
	}
	traces := Traces()
	if len(traces) != TraceRingSize {
		t.Fatalf("Expected %d traces, got %d", TraceRingSize, len(traces))
	}
	if traces[0].Tick != 5 || traces[len(traces)-1].Tick != TraceRingSize+4 {
		t.Errorf("Expected oldest tick 5 and newest %d, got %d and %d",
			TraceRingSize+4, traces[0].Tick, traces[len(traces)-1].Tick)
	}
}

func TestDebugAsyncDelivers(t *testing.T) {
	got := make(chan string, 1)
	SetDebugWriter(func(s string) { got <- s })
	SetDebugEnabled(true)
	defer func() {
		SetDebugEnabled(false)
		SetDebugWriter(func(string) {})
	}()

	InitAsyncDebug()
	DebugAsync("async hello")

	select {
	case s := <-got:
		if s != "async hello" {
			t.Errorf("Expected async hello, got %q", s)
		}
	case <-time.After(time.Second):
		t.Errorf("Expected async message to be written")
	}
}
