package state_test

import (
	"sync"
	"testing"
	"time"

	"github.com/poltergeist/diner/pkg/state"
)

func TestStopFlag_OneWay(t *testing.T) {
	f := state.NewStopFlag()

	if f.IsSet() {
		t.Fatal("new flag should be unset")
	}

	if !f.Stop("courier") {
		t.Error("first Stop should report that it set the flag")
	}
	if f.Stop("signal") {
		t.Error("second Stop should be a no-op")
	}

	for i := 0; i < 100; i++ {
		if !f.IsSet() {
			t.Fatal("flag must stay set once set")
		}
	}

	reason, at := f.Reason()
	if reason != "courier" {
		t.Errorf("expected reason 'courier', got %q", reason)
	}
	if at.IsZero() {
		t.Error("expected stop time to be recorded")
	}
}

func TestStopFlag_DoneClosed(t *testing.T) {
	f := state.NewStopFlag()

	select {
	case <-f.Done():
		t.Fatal("done should not be closed before Stop")
	default:
	}

	f.Stop("test")

	select {
	case <-f.Done():
	case <-time.After(time.Second):
		t.Fatal("done was not closed")
	}
}

func TestStopFlag_ConcurrentStop(t *testing.T) {
	f := state.NewStopFlag()

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.Stop("racer") {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if winners != 1 {
		t.Errorf("expected exactly one winner, got %d", winners)
	}
}

func TestRegistry_Lifecycle(t *testing.T) {
	r := state.NewRegistry("intake", "kitchen", "courier")

	if r.AllStopped() {
		t.Fatal("idle actors are not stopped")
	}

	for _, a := range r.Actors() {
		if err := r.MarkRunning(a); err != nil {
			t.Fatalf("mark running %s: %v", a, err)
		}
	}

	r.MarkStopped("courier")
	if r.State("courier") != state.ActorStopped {
		t.Errorf("expected courier stopped, got %s", r.State("courier"))
	}
	if r.AllStopped() {
		t.Error("intake and kitchen are still running")
	}

	r.MarkStopped("intake")
	r.MarkStopped("kitchen")
	if !r.AllStopped() {
		t.Error("expected all actors stopped")
	}

	if _, ok := r.StoppedAt("kitchen"); !ok {
		t.Error("expected stop time for kitchen")
	}
}

func TestRegistry_StoppedIsTerminal(t *testing.T) {
	r := state.NewRegistry("courier")
	r.MarkStopped("courier")

	if err := r.MarkRunning("courier"); err == nil {
		t.Error("expected error restarting a stopped actor")
	}
}
