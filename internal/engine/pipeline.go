package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/poltergeist/diner/pkg/config"
	dcontext "github.com/poltergeist/diner/pkg/context"
	"github.com/poltergeist/diner/pkg/interfaces"
	"github.com/poltergeist/diner/pkg/logger"
	"github.com/poltergeist/diner/pkg/state"
	"github.com/poltergeist/diner/pkg/types"
)

// Pipeline wires the three actors together and supervises a single run
type Pipeline struct {
	config   *config.Config
	logger   logger.Logger
	deps     interfaces.PipelineDependencies
	registry *state.Registry

	intake  *Intake
	kitchen *Kitchen
	courier *Courier

	ran bool
	mu  sync.Mutex
}

// New creates a pipeline. Every dependency is required.
func New(cfg *config.Config, log logger.Logger, deps interfaces.PipelineDependencies) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config", ErrMissingDependency)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := checkDependencies(deps); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Discard()
	}

	registry := state.NewRegistry(ActorIntake, ActorKitchen, ActorCourier)

	return &Pipeline{
		config:   cfg,
		logger:   log,
		deps:     deps,
		registry: registry,
		intake:   NewIntake(cfg, deps, registry, log),
		kitchen:  NewKitchen(cfg, deps, registry, log),
		courier:  NewCourier(cfg, deps, registry, log),
	}, nil
}

func checkDependencies(deps interfaces.PipelineDependencies) error {
	switch {
	case deps.Pending == nil:
		return fmt.Errorf("%w: pending queue", ErrMissingDependency)
	case deps.Ready == nil:
		return fmt.Errorf("%w: ready queue", ErrMissingDependency)
	case deps.Sequencer == nil:
		return fmt.Errorf("%w: sequencer", ErrMissingDependency)
	case deps.Stop == nil:
		return fmt.Errorf("%w: stop flag", ErrMissingDependency)
	case deps.Random == nil:
		return fmt.Errorf("%w: random source", ErrMissingDependency)
	case deps.Publisher == nil:
		return fmt.Errorf("%w: publisher", ErrMissingDependency)
	}
	return nil
}

// Registry exposes the actors' lifecycle states
func (p *Pipeline) Registry() *state.Registry {
	return p.registry
}

// Dependencies returns the shared state the actors run against
func (p *Pipeline) Dependencies() interfaces.PipelineDependencies {
	return p.deps
}

// Courier returns the courier actor
func (p *Pipeline) Courier() *Courier {
	return p.courier
}

// Run starts all three actors and blocks until every one of them has
// stopped. The courier is joined first. Cancelling ctx raises the
// termination flag and cuts every wait short. A panic or error in any
// actor aborts the run; the summary is still returned alongside it.
func (p *Pipeline) Run(ctx context.Context) (*types.Summary, error) {
	p.mu.Lock()
	if p.ran {
		p.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	p.ran = true
	p.mu.Unlock()

	ctx = dcontext.EnrichContext(ctx)
	start := time.Now()
	log := logger.WithContext(ctx, p.logger).WithTarget("pipeline")

	log.Info("Starting pipeline",
		logger.WithField("time_unit", p.config.TimeUnit),
		logger.WithField("threshold", p.config.DeliveryThreshold))

	group, gctx := NewSafeGroup(ctx, log)

	stopOnDone := context.AfterFunc(gctx, func() {
		if p.deps.Stop.Stop("run aborted: " + context.Cause(gctx).Error()) {
			log.Warn("Run aborted before the delivery threshold")
		}
	})
	defer stopOnDone()

	p.courier.bind(ctx, p.logger)
	p.kitchen.bind(ctx, p.logger)
	p.intake.bind(ctx, p.logger)

	courierDone := make(chan struct{})
	group.Go(ActorCourier, func() error {
		defer close(courierDone)
		return p.courier.Run(dcontext.WithActor(gctx, ActorCourier))
	})
	for _, a := range []Actor{p.kitchen, p.intake} {
		group.Go(a.Name(), func() error {
			return a.Run(dcontext.WithActor(gctx, a.Name()))
		})
	}

	<-courierDone
	log.Debug("Courier joined")
	err := group.Wait()

	summary := p.summarize(time.Since(start))
	p.deps.Publisher.Publish(types.Event{
		Seq:     p.deps.Sequencer.Next(),
		Kind:    types.EventProgramEnd,
		Time:    time.Now(),
		Summary: summary,
	})

	if err != nil {
		log.Error("Pipeline failed", logger.WithField("error", err))
		return summary, fmt.Errorf("pipeline run failed: %w", err)
	}

	reason, _ := p.deps.Stop.Reason()
	log.Success("Pipeline finished",
		logger.WithField("reason", reason),
		logger.WithField("produced", summary.Produced),
		logger.WithField("delivered", summary.Delivered))
	return summary, nil
}

func (p *Pipeline) summarize(elapsed time.Duration) *types.Summary {
	return &types.Summary{
		Produced:    p.intake.Produced(),
		Delivered:   len(p.courier.Delivered()),
		LeftPending: p.deps.Pending.Snapshot(),
		LeftReady:   p.deps.Ready.Snapshot(),
		Elapsed:     elapsed,
	}
}
