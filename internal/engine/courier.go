package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/poltergeist/diner/pkg/config"
	"github.com/poltergeist/diner/pkg/interfaces"
	"github.com/poltergeist/diner/pkg/logger"
	"github.com/poltergeist/diner/pkg/state"
	"github.com/poltergeist/diner/pkg/types"
)

var _ Actor = (*Courier)(nil)

// Courier periodically takes every ready order at once. It raises the
// termination flag once the delivered total reaches the threshold.
type Courier struct {
	actor

	mu        sync.Mutex
	delivered []types.Order
	batches   int
}

// NewCourier creates the courier stage
func NewCourier(cfg *config.Config, deps interfaces.PipelineDependencies, registry *state.Registry, log logger.Logger) *Courier {
	return &Courier{actor: newActor(ActorCourier, cfg, deps, registry, log)}
}

// Delivered returns a copy of every order delivered so far, in delivery order
func (c *Courier) Delivered() []types.Order {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]types.Order, len(c.delivered))
	copy(out, c.delivered)
	return out
}

// Batches returns how many pickups the courier has made, empty ones included
func (c *Courier) Batches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.batches
}

// Run picks up ready orders every courier interval until the threshold is
// reached or the flag is raised elsewhere
func (c *Courier) Run(ctx context.Context) error {
	done, err := c.start()
	if err != nil {
		return err
	}
	defer done()

	for {
		if !pauseUntil(ctx, c.deps.Stop.Done(), c.cfg.Units(c.cfg.CourierInterval)) {
			return nil
		}

		batch, seq := c.deps.Ready.Drain()
		total := c.record(batch)

		c.logger.Debug("Courier pickup",
			logger.WithField("order_ids", types.OrderIDs(batch)),
			logger.WithField("delivered_total", total))
		c.publish(seq, types.EventOrdersDelivered, batch...)

		if total >= c.cfg.DeliveryThreshold {
			if c.deps.Stop.Stop(fmt.Sprintf("courier delivered %d orders", total)) {
				c.logger.Info("Delivery threshold reached, stopping",
					logger.WithField("delivered_total", total),
					logger.WithField("threshold", c.cfg.DeliveryThreshold))
			}
			return nil
		}

		if c.shouldStop(ctx) {
			return nil
		}
	}
}

func (c *Courier) record(batch []types.Order) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.delivered = append(c.delivered, batch...)
	c.batches++
	return len(c.delivered)
}
