package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/poltergeist/diner/internal/engine"
	"github.com/poltergeist/diner/pkg/config"
	"github.com/poltergeist/diner/pkg/logger"
	"github.com/poltergeist/diner/pkg/process"
	"github.com/poltergeist/diner/pkg/queue"
	"github.com/poltergeist/diner/pkg/state"
	"github.com/poltergeist/diner/pkg/types"
)

func (c *CLI) runSimulation(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := c.loadConfig()
	if err != nil {
		c.printError(err.Error())
		return err
	}

	log := c.newLogger(cfg)

	if c.config.CPUProfile != "" {
		stopProfile, err := startCPUProfile(c.config.CPUProfile)
		if err != nil {
			return err
		}
		defer func() {
			if err := stopProfile(); err != nil {
				log.Warn("Failed to write cpu profile", logger.WithField("error", err))
			}
		}()
	}
	if used := c.manager.ConfigFileUsed(); used != "" {
		log.Debug("Using config file", logger.WithField("file", used))
	}

	factory := engine.NewDependencyFactory(cfg, log, c.output)
	deps, dispatcher := factory.CreateDefaults()

	pipeline, err := engine.New(cfg, log, deps)
	if err != nil {
		dispatcher.Close()
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// First signal: stop at the next safe point. Second: abort every wait.
	pm := process.NewManager(log)
	pm.RegisterShutdownHandler(func(reason string) {
		deps.Stop.Stop(reason)
	})
	pm.RegisterForceHandler(func(string) {
		cancel()
	})
	pm.SetHeartbeat(cfg.Units(cfg.CourierInterval), func() {
		logQueueDepth(log, deps.Pending, deps.Ready)
	})
	pm.Start(ctx)
	defer pm.Stop()

	if stop := c.watchConfig(log); stop != nil {
		defer stop()
	}

	c.printInfo(fmt.Sprintf("Starting diner v%s (1 unit = %s, stop after %d deliveries)",
		c.config.Version, cfg.TimeUnit, cfg.DeliveryThreshold))

	summary, runErr := pipeline.Run(ctx)
	closeErr := dispatcher.Close()

	if runErr != nil {
		c.printError(runErr.Error())
		return runErr
	}
	if closeErr != nil {
		c.printWarning(closeErr.Error())
	}

	c.reportSummary(summary, deps.Stop)
	return nil
}

func logQueueDepth(log logger.Logger, queues ...*queue.Queue[types.Order]) {
	fields := make([]logger.Field, 0, len(queues))
	for _, q := range queues {
		fields = append(fields, logger.WithField(q.Name(), q.Len()))
	}
	log.Debug("Queue depth", fields...)
}

// watchConfig re-applies the log level whenever the config file changes
func (c *CLI) watchConfig(log logger.Logger) func() {
	path := c.manager.ConfigFileUsed()
	setter, ok := log.(logger.LevelSetter)
	if path == "" || !ok {
		return nil
	}

	rm := config.NewReloadManager(path, log)
	rm.AddCallback(func(cfg *config.Config, err error) {
		if err != nil {
			log.Warn("Ignoring configuration change", logger.WithField("error", err))
			return
		}
		if err := setter.SetLevel(cfg.LogLevel); err != nil {
			log.Warn("Failed to apply log level", logger.WithField("error", err))
		}
	})

	if err := rm.StartWatching(); err != nil {
		log.Warn("Configuration reload disabled", logger.WithField("error", err))
		return nil
	}
	return func() {
		rm.StopWatching()
	}
}

func (c *CLI) reportSummary(summary *types.Summary, stop *state.StopFlag) {
	if summary == nil {
		return
	}

	reason, _ := stop.Reason()
	if summary.Undelivered() > 0 {
		c.printWarning(fmt.Sprintf("%d order(s) were not delivered", summary.Undelivered()))
	}
	c.printSuccess(fmt.Sprintf("Delivered %d of %d orders in %s (%s)",
		summary.Delivered, summary.Produced, summary.Elapsed.Round(time.Millisecond), reason))
}
