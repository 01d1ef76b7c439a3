package core

import "errors"

// MaxQueueCapacity is the size of the static event pool queues are carved from
const MaxQueueCapacity = 256

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOutOfMemory     = errors.New("out of memory")
	ErrFull            = errors.New("queue full")
	ErrEmpty           = errors.New("queue empty")
	ErrDestroyed       = errors.New("queue destroyed")
)

// EventQueue is a fixed-capacity circular buffer of event codes.
// It does no locking of its own: the single producer (button callbacks) and
// the single consumer (main loop) each hold a critical section around their call.
type EventQueue struct {
	items    []Event
	capacity int
	size     int
	head     int // next read position
	tail     int // next write position
}

// NewEventQueue allocates a queue holding up to capacity events
func NewEventQueue(capacity int) (*EventQueue, error) {
	if capacity <= 0 {
		return nil, ErrInvalidArgument
	}
	if capacity > MaxQueueCapacity {
		return nil, ErrOutOfMemory
	}
	return &EventQueue{
		items:    make([]Event, capacity),
		capacity: capacity,
	}, nil
}

// Enqueue appends an event. When the queue is full the new event is dropped
// and ErrFull is returned; queued events are never overwritten.
func (q *EventQueue) Enqueue(e Event) error {
	if q.items == nil {
		return ErrDestroyed
	}
	if q.size == q.capacity {
		return ErrFull
	}
	q.items[q.tail] = e
	q.tail = (q.tail + 1) % q.capacity
	q.size++
	return nil
}

// Dequeue removes the oldest event. ErrEmpty is the normal "nothing to do" signal.
func (q *EventQueue) Dequeue() (Event, error) {
	if q.items == nil {
		return EventIdle, ErrDestroyed
	}
	if q.size == 0 {
		return EventIdle, ErrEmpty
	}
	e := q.items[q.head]
	q.head = (q.head + 1) % q.capacity
	q.size--
	return e, nil
}

// Len returns the number of queued events
func (q *EventQueue) Len() int {
	return q.size
}

// Cap returns the queue capacity
func (q *EventQueue) Cap() int {
	return q.capacity
}

// Destroy releases the storage. The queue must not be used afterwards.
func (q *EventQueue) Destroy() {
	q.items = nil
	q.capacity = 0
	q.size = 0
	q.head = 0
	q.tail = 0
}

var errSelfTest = errors.New("queue self test failed")

// QueueSelfTest exercises a scratch queue of the given capacity: fill it,
// overflow it, drain it in order, underflow it and destroy it.
func QueueSelfTest(capacity int) error {
	q, err := NewEventQueue(capacity)
	if err != nil {
		return err
	}
	defer q.Destroy()

	for i := 0; i < capacity; i++ {
		if err := q.Enqueue(Event(i)); err != nil {
			return errSelfTest
		}
	}
	if err := q.Enqueue(Event(capacity)); err != ErrFull {
		return errSelfTest
	}
	for i := 0; i < capacity; i++ {
		e, err := q.Dequeue()
		if err != nil || e != Event(i) {
			return errSelfTest
		}
	}
	if _, err := q.Dequeue(); err != ErrEmpty {
		return errSelfTest
	}
	return nil
}
