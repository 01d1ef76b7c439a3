package core

import (
	"math/rand"
	"testing"
)

func TestNewEventQueueRejectsZeroCapacity(t *testing.T) {
	q, err := NewEventQueue(0)
	if err != ErrInvalidArgument {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
	if q != nil {
		t.Errorf("Expected nil queue on error")
	}
}

func TestNewEventQueueOutOfMemory(t *testing.T) {
	if _, err := NewEventQueue(MaxQueueCapacity + 1); err != ErrOutOfMemory {
		t.Errorf("Expected ErrOutOfMemory, got %v", err)
	}
	if _, err := NewEventQueue(MaxQueueCapacity); err != nil {
		t.Errorf("Expected pool-sized queue to succeed, got %v", err)
	}
}

func TestEventQueueFullDropsNewest(t *testing.T) {
	for capacity := 1; capacity <= 16; capacity++ {
		q, err := NewEventQueue(capacity)
		if err != nil {
			t.Fatalf("capacity %d: unexpected error %v", capacity, err)
		}
		for i := 0; i < capacity; i++ {
			if err := q.Enqueue(Event(i + 1)); err != nil {
				t.Fatalf("capacity %d: enqueue %d failed: %v", capacity, i, err)
			}
		}
		if err := q.Enqueue(EventRightToggle); err != ErrFull {
			t.Errorf("capacity %d: Expected ErrFull, got %v", capacity, err)
		}
		if q.Len() != capacity {
			t.Errorf("capacity %d: Expected size %d after overflow, got %d", capacity, capacity, q.Len())
		}

		// The oldest item is still first; nothing was overwritten
		e, err := q.Dequeue()
		if err != nil || e != Event(1) {
			t.Errorf("capacity %d: Expected first event 1, got %d (%v)", capacity, e, err)
		}
	}
}

func TestEventQueueEmpty(t *testing.T) {
	q, _ := NewEventQueue(QueueCapacity)

	e, err := q.Dequeue()
	if err != ErrEmpty {
		t.Errorf("Expected ErrEmpty, got %v", err)
	}
	if e != EventIdle {
		t.Errorf("Expected idle event on empty dequeue, got %d", e)
	}
}

func TestEventQueueFIFOAcrossWrap(t *testing.T) {
	q, _ := NewEventQueue(3)
	rng := rand.New(rand.NewSource(1))

	var model []Event
	next := Event(1)
	for i := 0; i < 1000; i++ {
		if rng.Intn(2) == 0 {
			err := q.Enqueue(next)
			if len(model) == 3 {
				if err != ErrFull {
					t.Fatalf("step %d: Expected ErrFull, got %v", i, err)
				}
				continue
			}
			if err != nil {
				t.Fatalf("step %d: unexpected enqueue error %v", i, err)
			}
			model = append(model, next)
			next++
		} else {
			e, err := q.Dequeue()
			if len(model) == 0 {
				if err != ErrEmpty {
					t.Fatalf("step %d: Expected ErrEmpty, got %v", i, err)
				}
				continue
			}
			if err != nil {
				t.Fatalf("step %d: unexpected dequeue error %v", i, err)
			}
			if e != model[0] {
				t.Fatalf("step %d: Expected %d, got %d", i, model[0], e)
			}
			model = model[1:]
		}
		if q.Len() != len(model) {
			t.Fatalf("step %d: Expected size %d, got %d", i, len(model), q.Len())
		}
		if (q.tail-q.head+q.capacity)%q.capacity != q.size%q.capacity {
			t.Fatalf("step %d: cursors head=%d tail=%d disagree with size %d", i, q.head, q.tail, q.size)
		}
	}

	for len(model) > 0 {
		e, _ := q.Dequeue()
		if e != model[0] {
			t.Fatalf("drain: Expected %d, got %d", model[0], e)
		}
		model = model[1:]
	}
	if q.Len() != 0 {
		t.Errorf("Expected empty queue, got size %d", q.Len())
	}
	if _, err := q.Dequeue(); err != ErrEmpty {
		t.Errorf("Expected ErrEmpty after drain, got %v", err)
	}
}

func TestEventQueueDestroy(t *testing.T) {
	q, _ := NewEventQueue(4)
	_ = q.Enqueue(EventLeftToggle)
	q.Destroy()

	if err := q.Enqueue(EventLeftToggle); err != ErrDestroyed {
		t.Errorf("Expected ErrDestroyed on enqueue, got %v", err)
	}
	if _, err := q.Dequeue(); err != ErrDestroyed {
		t.Errorf("Expected ErrDestroyed on dequeue, got %v", err)
	}
	if q.Cap() != 0 {
		t.Errorf("Expected capacity 0 after destroy, got %d", q.Cap())
	}
}

func TestQueueSelfTest(t *testing.T) {
	if err := QueueSelfTest(QueueCapacity); err != nil {
		t.Errorf("Expected self test to pass, got %v", err)
	}
	if err := QueueSelfTest(0); err != ErrInvalidArgument {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}
