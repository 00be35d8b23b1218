// Package queue carries link access notifications from the redirect path to
// the metadata merger. Producers never block: the redirect that generated an
// event must not wait on bookkeeping.
package queue

import "time"

// Event records a single use of an alias.
type Event struct {
	Alias     string
	Timestamp time.Time
}

// Queue is a non-blocking multi-producer/multi-consumer event queue backed by
// a buffered channel.
type Queue struct {
	ch chan Event
}

// DefaultCapacity is roughly 13 seconds of headroom at 5k redirects/s.
const DefaultCapacity = 65536

func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{ch: make(chan Event, capacity)}
}

// Push enqueues ev without blocking. It reports false if the queue is full
// and the event was dropped; callers log and count the drop but must not fail
// the request that produced it.
func (q *Queue) Push(ev Event) bool {
	select {
	case q.ch <- ev:
		return true
	default:
		return false
	}
}

// TryPop dequeues one event without blocking.
func (q *Queue) TryPop() (Event, bool) {
	select {
	case ev := <-q.ch:
		return ev, true
	default:
		return Event{}, false
	}
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return len(q.ch)
}
