package engine

import (
	"context"
	"time"

	"github.com/poltergeist/diner/pkg/config"
	"github.com/poltergeist/diner/pkg/interfaces"
	"github.com/poltergeist/diner/pkg/logger"
	"github.com/poltergeist/diner/pkg/state"
	"github.com/poltergeist/diner/pkg/types"
)

// actor carries what every stage shares
type actor struct {
	name     string
	cfg      *config.Config
	deps     interfaces.PipelineDependencies
	registry *state.Registry
	logger   logger.Logger
}

func newActor(name string, cfg *config.Config, deps interfaces.PipelineDependencies, registry *state.Registry, log logger.Logger) actor {
	if log == nil {
		log = logger.Discard()
	}
	if registry == nil {
		registry = state.NewRegistry(name)
	}
	return actor{
		name:     name,
		cfg:      cfg,
		deps:     deps,
		registry: registry,
		logger:   log.WithTarget(name),
	}
}

// Name implements Actor
func (a *actor) Name() string {
	return a.name
}

// bind attaches run-scoped context fields to the actor's log lines.
// It must be called before Run.
func (a *actor) bind(ctx context.Context, base logger.Logger) {
	a.logger = logger.WithContext(ctx, base).WithTarget(a.name)
}

// start marks the actor running and returns the func that marks it stopped
func (a *actor) start() (func(), error) {
	if err := a.registry.MarkRunning(a.name); err != nil {
		return nil, err
	}
	a.logger.Debug("Actor started")
	return func() {
		a.registry.MarkStopped(a.name)
		a.logger.Debug("Actor stopped")
	}, nil
}

// shouldStop is the safe-point check: the flag, or an aborted run
func (a *actor) shouldStop(ctx context.Context) bool {
	return a.deps.Stop.IsSet() || ctx.Err() != nil
}

func (a *actor) publish(seq uint64, kind types.EventKind, orders ...types.Order) {
	a.publishEvent(types.Event{Seq: seq, Kind: kind, Orders: orders})
}

func (a *actor) publishEvent(ev types.Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	a.deps.Publisher.Publish(ev)
}
