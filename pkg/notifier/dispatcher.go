// Package notifier delivers pipeline notifications to output sinks
package notifier

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/poltergeist/diner/pkg/interfaces"
	"github.com/poltergeist/diner/pkg/logger"
	"github.com/poltergeist/diner/pkg/types"
)

var _ interfaces.EventPublisher = (*Dispatcher)(nil)

// Dispatcher releases published events to its sinks in sequence order.
// Actors publish right after a stamped queue transition, possibly out of
// order with each other; the dispatcher holds an event back until every
// lower stamp has been delivered. Events with Seq 0 bypass ordering.
type Dispatcher struct {
	logger logger.Logger

	sinkIDs []string
	sinks   map[string]interfaces.EventSink

	held      map[uint64]types.Event
	immediate []types.Event
	next      uint64
	delivered int
	closed    bool
	mu        sync.Mutex

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

// NewDispatcher creates a dispatcher and starts its delivery goroutine
func NewDispatcher(log logger.Logger, sinks ...interfaces.EventSink) *Dispatcher {
	if log == nil {
		log = logger.Discard()
	}

	d := &Dispatcher{
		logger: log.WithTarget("notifier"),
		sinks:  make(map[string]interfaces.EventSink),
		held:   make(map[uint64]types.Event),
		next:   1,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	for _, s := range sinks {
		d.Subscribe(s)
	}

	d.wg.Add(1)
	go d.loop()

	return d
}

// Subscribe adds a sink and returns its subscription ID
func (d *Dispatcher) Subscribe(sink interfaces.EventSink) string {
	id := uuid.New().String()

	d.mu.Lock()
	defer d.mu.Unlock()

	d.sinks[id] = sink
	d.sinkIDs = append(d.sinkIDs, id)
	return id
}

// Unsubscribe removes a sink without closing it
func (d *Dispatcher) Unsubscribe(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.sinks[id]; !ok {
		return false
	}
	delete(d.sinks, id)
	for i, sid := range d.sinkIDs {
		if sid == id {
			d.sinkIDs = append(d.sinkIDs[:i], d.sinkIDs[i+1:]...)
			break
		}
	}
	return true
}

// Publish queues an event for delivery. It never waits on a sink.
func (d *Dispatcher) Publish(event types.Event) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn("Dropping event published after close",
			logger.WithField("kind", event.Kind),
			logger.WithField("seq", event.Seq))
		return
	}

	if event.Seq == 0 {
		d.immediate = append(d.immediate, event)
	} else {
		d.held[event.Seq] = event
	}
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Delivered returns how many events reached the sinks
func (d *Dispatcher) Delivered() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.delivered
}

// Close flushes every held event, including any left behind a missing stamp,
// then closes all sinks.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	close(d.done)
	d.wg.Wait()

	d.mu.Lock()
	sinks := d.orderedSinks()
	d.mu.Unlock()

	var firstErr error
	for _, s := range sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close sink: %w", err)
		}
	}
	return firstErr
}

func (d *Dispatcher) loop() {
	defer d.wg.Done()

	for {
		closing := false
		select {
		case <-d.wake:
		case <-d.done:
			closing = true
		}

		batch, sinks := d.collect(closing)
		d.deliver(batch, sinks)

		if closing {
			return
		}
	}
}

// collect takes every event that is ready to go out
func (d *Dispatcher) collect(flush bool) ([]types.Event, []interfaces.EventSink) {
	d.mu.Lock()
	defer d.mu.Unlock()

	batch := d.immediate
	d.immediate = nil

	for {
		ev, ok := d.held[d.next]
		if !ok {
			break
		}
		delete(d.held, d.next)
		batch = append(batch, ev)
		d.next++
	}

	if flush && len(d.held) > 0 {
		seqs := make([]uint64, 0, len(d.held))
		for seq := range d.held {
			seqs = append(seqs, seq)
		}
		sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })

		d.logger.Debug("Flushing events behind missing stamps",
			logger.WithField("expected", d.next),
			logger.WithField("held", len(seqs)))

		for _, seq := range seqs {
			batch = append(batch, d.held[seq])
			delete(d.held, seq)
		}
		d.next = seqs[len(seqs)-1] + 1
	}

	d.delivered += len(batch)
	return batch, d.orderedSinks()
}

func (d *Dispatcher) orderedSinks() []interfaces.EventSink {
	out := make([]interfaces.EventSink, 0, len(d.sinkIDs))
	for _, id := range d.sinkIDs {
		out = append(out, d.sinks[id])
	}
	return out
}

func (d *Dispatcher) deliver(batch []types.Event, sinks []interfaces.EventSink) {
	for _, ev := range batch {
		for _, s := range sinks {
			if err := s.Handle(ev); err != nil {
				d.logger.Warn("Sink failed to handle event",
					logger.WithField("kind", ev.Kind),
					logger.WithField("seq", ev.Seq),
					logger.WithField("error", err))
			}
		}
	}
}
