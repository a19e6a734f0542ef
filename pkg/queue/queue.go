// Package queue provides the FIFO handoff buffers between pipeline stages
package queue

import (
	"sync"
	"time"
)

// Queue is a mutex-guarded FIFO shared by one stage that produces and one
// stage that consumes. Every mutation is stamped with a sequence number taken
// while the lock is held, so observers can order transitions across queues
// without ever holding two locks at once.
type Queue[T any] struct {
	name   string
	seq    *Sequencer
	items  []T
	signal chan struct{}
	mu     sync.Mutex
}

// Option configures a Queue
type Option func(*options)

type options struct {
	name string
	seq  *Sequencer
}

// WithName labels the queue for logging
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithSequencer shares a sequencer with other queues
func WithSequencer(seq *Sequencer) Option {
	return func(o *options) { o.seq = seq }
}

// New creates an empty queue
func New[T any](opts ...Option) *Queue[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return &Queue[T]{
		name:   o.name,
		seq:    o.seq,
		signal: make(chan struct{}, 1),
	}
}

// Name returns the queue label
func (q *Queue[T]) Name() string {
	return q.name
}

// Push appends an item at the tail and returns the transition stamp
func (q *Queue[T]) Push(item T) uint64 {
	q.mu.Lock()
	q.items = append(q.items, item)
	stamp := q.seq.Next()
	q.mu.Unlock()

	// Wake a waiting consumer; a pending wakeup is enough.
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return stamp
}

// TryPop removes the head without waiting
func (q *Queue[T]) TryPop() (T, uint64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, 0, false
	}

	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]

	return item, q.seq.Next(), true
}

// PopWait removes the head, waiting up to timeout for one to arrive.
// It returns ok=false when the timeout elapses on an empty queue.
func (q *Queue[T]) PopWait(timeout time.Duration) (T, uint64, bool) {
	if item, stamp, ok := q.TryPop(); ok {
		return item, stamp, true
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-q.signal:
			if item, stamp, ok := q.TryPop(); ok {
				return item, stamp, true
			}
		case <-timer.C:
			// One last look: a push may have raced the timer.
			return q.TryPop()
		}
	}
}

// Drain removes every item present at this instant in one critical section.
// An empty drain still yields a stamp.
func (q *Queue[T]) Drain() ([]T, uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.items
	q.items = nil

	return items, q.seq.Next()
}

// Snapshot returns a copy of the queued items, head first
func (q *Queue[T]) Snapshot() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}

// Len returns the number of queued items
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
