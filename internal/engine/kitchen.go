package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/poltergeist/diner/pkg/config"
	"github.com/poltergeist/diner/pkg/interfaces"
	"github.com/poltergeist/diner/pkg/logger"
	"github.com/poltergeist/diner/pkg/state"
	"github.com/poltergeist/diner/pkg/types"
)

var _ Actor = (*Kitchen)(nil)

// Kitchen takes orders from the pending queue one at a time, cooks each
// for a random time and appends it to the ready queue
type Kitchen struct {
	actor
	cooked atomic.Int64
}

// NewKitchen creates the kitchen stage
func NewKitchen(cfg *config.Config, deps interfaces.PipelineDependencies, registry *state.Registry, log logger.Logger) *Kitchen {
	return &Kitchen{actor: newActor(ActorKitchen, cfg, deps, registry, log)}
}

// Cooked returns how many orders have been handed to the ready queue
func (k *Kitchen) Cooked() int {
	return int(k.cooked.Load())
}

// Run cooks orders until the termination flag is observed. An order that
// was taken is always delivered to the ready queue before Run returns.
func (k *Kitchen) Run(ctx context.Context) error {
	done, err := k.start()
	if err != nil {
		return err
	}
	defer done()

	for {
		order, seq, ok := k.deps.Pending.PopWait(k.cfg.PollInterval)
		if !ok {
			if k.shouldStop(ctx) {
				return nil
			}
			continue
		}

		units := k.deps.Random.IntRange(k.cfg.CookTime.Min, k.cfg.CookTime.Max)
		cookTime := k.cfg.Units(units)

		k.logger.Debug("Cooking order",
			logger.WithField("order_id", order.ID),
			logger.WithField("cook_units", units))
		k.publishEvent(types.Event{
			Seq:       seq,
			Kind:      types.EventOrderTaken,
			Orders:    []types.Order{order},
			CookUnits: units,
			CookTime:  cookTime,
		})

		// An aborted run only shortens the cook
		cookStart := time.Now()
		pause(ctx, cookTime)

		seq = k.deps.Ready.Push(order)
		k.cooked.Add(1)

		k.logger.Debug("Order ready",
			logger.WithField("order_id", order.ID),
			logger.WithField("cooked_for", time.Since(cookStart).Round(time.Millisecond)))
		k.publish(seq, types.EventOrderReady, order)

		if k.shouldStop(ctx) {
			return nil
		}
	}
}
