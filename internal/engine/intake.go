package engine

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/poltergeist/diner/pkg/config"
	"github.com/poltergeist/diner/pkg/interfaces"
	"github.com/poltergeist/diner/pkg/logger"
	"github.com/poltergeist/diner/pkg/state"
	"github.com/poltergeist/diner/pkg/types"
)

var _ Actor = (*Intake)(nil)

// Intake generates orders with increasing IDs at random intervals and
// appends them to the pending queue
type Intake struct {
	actor
	nextID   int
	produced atomic.Int64
}

// NewIntake creates the order intake stage
func NewIntake(cfg *config.Config, deps interfaces.PipelineDependencies, registry *state.Registry, log logger.Logger) *Intake {
	return &Intake{actor: newActor(ActorIntake, cfg, deps, registry, log)}
}

// Produced returns how many orders have been appended to the pending queue
func (in *Intake) Produced() int {
	return int(in.produced.Load())
}

// Run generates orders until the termination flag is observed
func (in *Intake) Run(ctx context.Context) error {
	done, err := in.start()
	if err != nil {
		return err
	}
	defer done()

	for {
		delay := in.deps.Random.IntRange(in.cfg.IntakeDelay.Min, in.cfg.IntakeDelay.Max)
		if !pause(ctx, in.cfg.Units(delay)) {
			return nil
		}

		code := in.deps.Random.IntRange(int(types.FirstDish), int(types.LastDish))
		dish, err := types.ParseDish(code)
		if err != nil {
			return fmt.Errorf("intake: %w", err)
		}

		in.nextID++
		order := types.Order{ID: in.nextID, Dish: dish}
		seq := in.deps.Pending.Push(order)
		in.produced.Add(1)

		in.logger.Debug("Order arrived",
			logger.WithField("order_id", order.ID),
			logger.WithField("dish", order.Dish))
		in.publish(seq, types.EventOrderArrived, order)

		if in.shouldStop(ctx) {
			return nil
		}
	}
}
