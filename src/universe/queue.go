package universe

import "sync"

// EntropyEvent is a pattern proposed for injection
// Origin is nil when the engine has to pick the placement itself
type EntropyEvent struct {
	Pattern *Pattern
	Origin  *Point
}

// EventQueue is the unbounded FIFO between the entropy source and the engine
// Send never blocks and never drops, TryRecv never waits
type EventQueue struct {
	mu     sync.Mutex
	items  []EntropyEvent
	head   int
	closed bool
}

func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Send appends the event, fails with ErrReceiverGone once the receiver closed the queue
func (q *EventQueue) Send(ev EntropyEvent) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrReceiverGone
	}
	q.items = append(q.items, ev)
	return nil
}

// TryRecv pops the oldest event if there is one
func (q *EventQueue) TryRecv() (EntropyEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head == len(q.items) {
		return EntropyEvent{}, false
	}
	ev := q.items[q.head]
	q.items[q.head] = EntropyEvent{}
	q.head++
	//compact when the consumed prefix dominates the slice
	if q.head > 32 && q.head*2 >= len(q.items) {
		n := copy(q.items, q.items[q.head:])
		q.items = q.items[:n]
		q.head = 0
	}
	return ev, true
}

// Len returns the count of pending events
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Close drops the receiving side, pending events are discarded
func (q *EventQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.items = nil
	q.head = 0
	q.mu.Unlock()
}
