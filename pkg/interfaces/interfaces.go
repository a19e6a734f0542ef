// Package interfaces provides abstractions for dependency injection and testability
package interfaces

//go:generate mockgen -destination=../mocks/interfaces_mock.go -package=mocks github.com/poltergeist/diner/pkg/interfaces RandomSource,EventSink,EventPublisher

import (
	"github.com/poltergeist/diner/pkg/queue"
	"github.com/poltergeist/diner/pkg/state"
	"github.com/poltergeist/diner/pkg/types"
)

// RandomSource supplies uniformly distributed integers in an inclusive range.
// Implementations panic when min > max.
type RandomSource interface {
	IntRange(min, max int) int
}

// EventSink renders or forwards pipeline notifications. Handle is called
// from a single goroutine in sequence order.
type EventSink interface {
	Handle(event types.Event) error
	Close() error
}

// EventPublisher accepts notifications from actors. Publish must not block
// on sink I/O.
type EventPublisher interface {
	Publish(event types.Event)
}

// PipelineDependencies holds the shared state handed to every actor
type PipelineDependencies struct {
	Pending   *queue.Queue[types.Order]
	Ready     *queue.Queue[types.Order]
	Sequencer *queue.Sequencer
	Stop      *state.StopFlag
	Random    RandomSource
	Publisher EventPublisher
}
