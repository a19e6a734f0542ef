package engine

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/poltergeist/diner/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// SafeGroup wraps errgroup.Group with panic recovery. A panicking actor,
// e.g. one that hit a violated random-range precondition, ends the run
// with an error.
type SafeGroup struct {
	group  *errgroup.Group
	logger logger.Logger
}

// NewSafeGroup creates a new SafeGroup with panic recovery
func NewSafeGroup(ctx context.Context, log logger.Logger) (*SafeGroup, context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	return &SafeGroup{
		group:  g,
		logger: log,
	}, ctx
}

// Go runs fn in a new goroutine. A panic is converted to an error that
// names the goroutine and is logged with its stack trace.
func (sg *SafeGroup) Go(name string, fn func() error) {
	sg.group.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				sg.logger.Error("Goroutine panic recovered",
					logger.WithField("actor", name),
					logger.WithField("panic", r),
					logger.WithField("stack_trace", string(debug.Stack())))

				if perr, ok := r.(error); ok {
					err = fmt.Errorf("%s panicked: %w", name, perr)
				} else {
					err = fmt.Errorf("%s panicked: %v", name, r)
				}
			}
		}()

		return fn()
	})
}

// Wait blocks until all goroutines have completed and returns the first error
func (sg *SafeGroup) Wait() error {
	return sg.group.Wait()
}
