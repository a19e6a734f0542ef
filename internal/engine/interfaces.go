package engine

import (
	"context"
	"time"
)

// Actor names, also used as logger targets
const (
	ActorIntake  = "intake"
	ActorKitchen = "kitchen"
	ActorCourier = "courier"
)

// Actor is one independently scheduled stage of the pipeline. Run returns
// once the actor has observed the termination flag at a safe point.
type Actor interface {
	Name() string
	Run(ctx context.Context) error
}

// pause sleeps for d. It returns false if ctx ended first, which only
// happens when the run is aborted.
func pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// pauseUntil is pause that also ends early, returning false, once stop is
// closed
func pauseUntil(ctx context.Context, stop <-chan struct{}, d time.Duration) bool {
	select {
	case <-stop:
		return false
	default:
	}
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-stop:
		return false
	case <-ctx.Done():
		return false
	}
}
