// Package mocks provides test doubles for the pipeline interfaces.
// interfaces_mock.go is generated by mockgen; the fakes below are hand written.
package mocks

import (
	"fmt"
	"sync"

	"github.com/poltergeist/diner/pkg/interfaces"
	"github.com/poltergeist/diner/pkg/types"
)

var (
	_ interfaces.EventSink      = (*Recorder)(nil)
	_ interfaces.EventPublisher = (*Recorder)(nil)
	_ interfaces.RandomSource   = (*SequenceSource)(nil)
)

// Recorder captures every event it sees. It can act as a sink behind a
// dispatcher or as a publisher handed straight to actors.
type Recorder struct {
	mu     sync.Mutex
	events []types.Event
	closed bool
	err    error
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// SetHandleError makes Handle fail with err after recording
func (r *Recorder) SetHandleError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Handle implements interfaces.EventSink
func (r *Recorder) Handle(event types.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

// Publish implements interfaces.EventPublisher
func (r *Recorder) Publish(event types.Event) {
	_ = r.Handle(event)
}

// Close implements interfaces.EventSink
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Closed reports whether Close was called
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []types.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfKind returns the recorded events of one kind
func (r *Recorder) OfKind(kind types.EventKind) []types.Event {
	var out []types.Event
	for _, ev := range r.Events() {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// OrderIDs returns the ids carried by events of one kind, in event order
func (r *Recorder) OrderIDs(kind types.EventKind) []int {
	var ids []int
	for _, ev := range r.OfKind(kind) {
		ids = append(ids, types.OrderIDs(ev.Orders)...)
	}
	return ids
}

// SequenceSource replays fixed values, clamped into the requested range.
// When the script runs out it returns min.
type SequenceSource struct {
	mu     sync.Mutex
	values []int
	calls  [][2]int
}

// NewSequenceSource creates a scripted random source
func NewSequenceSource(values ...int) *SequenceSource {
	return &SequenceSource{values: values}
}

// IntRange implements interfaces.RandomSource
func (s *SequenceSource) IntRange(min, max int) int {
	if min > max {
		panic(fmt.Sprintf("invalid range [%d, %d]", min, max))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, [2]int{min, max})
	if len(s.values) == 0 {
		return min
	}

	v := s.values[0]
	s.values = s.values[1:]
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Calls returns the ranges requested so far
func (s *SequenceSource) Calls() [][2]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][2]int, len(s.calls))
	copy(out, s.calls)
	return out
}
