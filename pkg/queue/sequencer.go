package queue

import "sync/atomic"

// Sequencer hands out strictly increasing stamps starting at 1.
// A nil Sequencer is valid and always returns 0.
type Sequencer struct {
	last atomic.Uint64
}

// NewSequencer creates a sequencer
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// Next returns the next stamp
func (s *Sequencer) Next() uint64 {
	if s == nil {
		return 0
	}
	return s.last.Add(1)
}

// Last returns the most recently issued stamp
func (s *Sequencer) Last() uint64 {
	if s == nil {
		return 0
	}
	return s.last.Load()
}
