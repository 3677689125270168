// Package queue implements the mailbox between the listener goroutines and the
// tick thread.
package queue

import "sync"

// Observer is notified about queue occupancy. Implementations must be cheap:
// they run inside the queue's critical section.
type Observer interface {
	Depth(n int)
	Dropped()
}

// Queue is a FIFO safe for any number of concurrent producers and a single
// consumer. Drain swaps the backing slice, so its cost does not depend on
// the number of queued items.
type Queue[T any] struct {
	mu       sync.Mutex
	items    []T
	capacity int
	observer Observer
}

// Option configures a Queue.
type Option func(*options)

type options struct {
	capacity int
	observer Observer
}

// WithCapacity caps the number of pending items. Enqueue drops the newest item
// once the cap is reached. Zero or negative means unbounded (the default).
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithObserver registers an occupancy observer.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// New creates an empty queue.
func New[T any](opts ...Option) *Queue[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Queue[T]{
		capacity: o.capacity,
		observer: o.observer,
	}
}

// Enqueue appends item. It returns false only when a capacity is configured
// and already reached.
func (q *Queue[T]) Enqueue(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.capacity > 0 && len(q.items) >= q.capacity {
		if q.observer != nil {
			q.observer.Dropped()
		}
		return false
	}
	q.items = append(q.items, item)
	if q.observer != nil {
		q.observer.Depth(len(q.items))
	}
	return true
}

// Drain returns everything enqueued so far in insertion order and leaves the
// queue empty. Items enqueued after Drain returns belong to the next drain.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	items := q.items
	q.items = nil
	if q.observer != nil {
		q.observer.Depth(0)
	}
	q.mu.Unlock()
	return items
}

// Len reports the number of pending items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
