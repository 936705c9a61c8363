package engine

import "container/heap"

// EventType identifies the handler an event is dispatched to
type EventType string

// Event is a discrete event on the simulation clock
type Event struct {
	Type     EventType
	Time     float64
	Priority int // lower values run first at equal times
	Data     any

	seq uint64
}

// before orders events by time, then priority, then scheduling order
func (e *Event) before(o *Event) bool {
	if e.Time != o.Time {
		return e.Time < o.Time
	}
	if e.Priority != o.Priority {
		return e.Priority < o.Priority
	}
	return e.seq < o.seq
}

type eventHeap []*Event

func (h eventHeap) Len() int           { return len(h) }
func (h eventHeap) Less(i, j int) bool { return h[i].before(h[j]) }
func (h eventHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) { *h = append(*h, x.(*Event)) }

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return ev
}

// EventQueue is the future event list of one engine. It is not safe for
// concurrent use.
type EventQueue struct {
	events eventHeap
	next   uint64
}

// NewEventQueue creates an empty queue
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Schedule inserts an event. Events with equal time and priority leave the
// queue in the order they were scheduled.
func (q *EventQueue) Schedule(ev *Event) {
	q.next++
	ev.seq = q.next
	heap.Push(&q.events, ev)
}

// Next removes and returns the earliest event, or nil when empty
func (q *EventQueue) Next() *Event {
	if len(q.events) == 0 {
		return nil
	}
	return heap.Pop(&q.events).(*Event)
}

// Clear drops every pending event
func (q *EventQueue) Clear() {
	clear(q.events)
	q.events = q.events[:0]
}

// Size returns the number of pending events
func (q *EventQueue) Size() int { return len(q.events) }

// IsEmpty reports whether no events are pending
func (q *EventQueue) IsEmpty() bool { return len(q.events) == 0 }
