// Package state tracks the run state shared by pipeline actors
package state

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// StopFlag is the process-wide termination signal. It starts unset and can
// only move to set; every later read observes it set.
type StopFlag struct {
	set  atomic.Bool
	done chan struct{}
	once sync.Once

	mu     sync.Mutex
	reason string
	at     time.Time
}

// NewStopFlag creates an unset flag
func NewStopFlag() *StopFlag {
	return &StopFlag{done: make(chan struct{})}
}

// Stop sets the flag. It reports whether this call was the one that set it.
func (f *StopFlag) Stop(reason string) bool {
	first := false
	f.once.Do(func() {
		f.mu.Lock()
		f.reason = reason
		f.at = time.Now()
		f.mu.Unlock()

		f.set.Store(true)
		close(f.done)
		first = true
	})
	return first
}

// IsSet reports whether the flag has been set
func (f *StopFlag) IsSet() bool {
	return f.set.Load()
}

// Done is closed once the flag is set
func (f *StopFlag) Done() <-chan struct{} {
	return f.done
}

// Reason returns who set the flag and when
func (f *StopFlag) Reason() (string, time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reason, f.at
}

// ActorState is the lifecycle of a single actor
type ActorState string

const (
	ActorIdle    ActorState = "idle"
	ActorRunning ActorState = "running"
	ActorStopped ActorState = "stopped"
)

// Registry records the lifecycle of every actor in a run
type Registry struct {
	states    map[string]ActorState
	stoppedAt map[string]time.Time
	mu        sync.RWMutex
}

// NewRegistry creates a registry with the given actors idle
func NewRegistry(actors ...string) *Registry {
	r := &Registry{
		states:    make(map[string]ActorState, len(actors)),
		stoppedAt: make(map[string]time.Time, len(actors)),
	}
	for _, a := range actors {
		r.states[a] = ActorIdle
	}
	return r
}

// MarkRunning moves an actor to running
func (r *Registry) MarkRunning(actor string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.states[actor] == ActorStopped {
		return fmt.Errorf("actor %s already stopped", actor)
	}
	r.states[actor] = ActorRunning
	return nil
}

// MarkStopped moves an actor to its terminal state
func (r *Registry) MarkStopped(actor string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.states[actor] == ActorStopped {
		return
	}
	r.states[actor] = ActorStopped
	r.stoppedAt[actor] = time.Now()
}

// State returns the current state of an actor
func (r *Registry) State(actor string) ActorState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.states[actor]; ok {
		return s
	}
	return ActorIdle
}

// StoppedAt returns when the actor stopped
func (r *Registry) StoppedAt(actor string) (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.stoppedAt[actor]
	return t, ok
}

// AllStopped reports whether every known actor has stopped
func (r *Registry) AllStopped() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.states {
		if s != ActorStopped {
			return false
		}
	}
	return true
}

// Actors returns the registered actor names, sorted
func (r *Registry) Actors() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.states))
	for name := range r.states {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
