package engine

import (
	"io"

	"github.com/poltergeist/diner/pkg/config"
	"github.com/poltergeist/diner/pkg/interfaces"
	"github.com/poltergeist/diner/pkg/logger"
	"github.com/poltergeist/diner/pkg/notifier"
	"github.com/poltergeist/diner/pkg/queue"
	"github.com/poltergeist/diner/pkg/random"
	"github.com/poltergeist/diner/pkg/state"
	"github.com/poltergeist/diner/pkg/types"
)

// DependencyFactory creates default implementations of the pipeline's
// dependencies from configuration
type DependencyFactory struct {
	config *config.Config
	logger logger.Logger
	out    io.Writer
}

// NewDependencyFactory creates a new dependency factory. Console
// notifications are written to out.
func NewDependencyFactory(cfg *config.Config, log logger.Logger, out io.Writer) *DependencyFactory {
	if log == nil {
		log = logger.Discard()
	}
	if out == nil {
		out = io.Discard
	}
	return &DependencyFactory{
		config: cfg,
		logger: log,
		out:    out,
	}
}

// CreateDefaults creates fresh queues sharing one sequencer, a stop flag,
// a seeded random source and a dispatcher fanning out to the configured
// sinks. The caller owns the dispatcher and must Close it after the run.
func (f *DependencyFactory) CreateDefaults() (interfaces.PipelineDependencies, *notifier.Dispatcher) {
	seq := queue.NewSequencer()
	dispatcher := f.createDispatcher()

	deps := interfaces.PipelineDependencies{
		Pending:   queue.New[types.Order](queue.WithName("pending"), queue.WithSequencer(seq)),
		Ready:     queue.New[types.Order](queue.WithName("ready"), queue.WithSequencer(seq)),
		Sequencer: seq,
		Stop:      state.NewStopFlag(),
		Random:    random.New(f.config.Seed),
		Publisher: dispatcher,
	}
	return deps, dispatcher
}

// CreateWithOverrides creates dependencies with specific overrides.
// Queues are only replaced as a pair so they keep sharing a sequencer.
func (f *DependencyFactory) CreateWithOverrides(overrides interfaces.PipelineDependencies) (interfaces.PipelineDependencies, *notifier.Dispatcher) {
	deps, dispatcher := f.CreateDefaults()

	if overrides.Pending != nil && overrides.Ready != nil && overrides.Sequencer != nil {
		deps.Pending = overrides.Pending
		deps.Ready = overrides.Ready
		deps.Sequencer = overrides.Sequencer
	}
	if overrides.Stop != nil {
		deps.Stop = overrides.Stop
	}
	if overrides.Random != nil {
		deps.Random = overrides.Random
	}
	if overrides.Publisher != nil {
		deps.Publisher = overrides.Publisher
	}

	return deps, dispatcher
}

func (f *DependencyFactory) createDispatcher() *notifier.Dispatcher {
	n := f.config.Notifications

	var sinks []interfaces.EventSink
	if n.Console {
		sinks = append(sinks, notifier.NewConsoleSink(f.out, n.Colors))
	}
	if n.Log {
		sinks = append(sinks, notifier.NewLogSink(f.logger))
	}
	if n.Desktop {
		sinks = append(sinks, notifier.NewDesktopSink(notifier.DesktopConfig{
			Enabled: true,
			Sound:   n.Sound,
		}, f.logger))
	}

	f.logger.Debug("Notification sinks configured", logger.WithField("count", len(sinks)))
	return notifier.NewDispatcher(f.logger, sinks...)
}
