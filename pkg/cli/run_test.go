package cli

import (
	"bytes"
	"testing"

	"github.com/poltergeist/diner/pkg/logger"
	"github.com/poltergeist/diner/pkg/queue"
	"github.com/poltergeist/diner/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestLogQueueDepth_UsesQueueNames(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("debug", &buf)

	seq := queue.NewSequencer()
	pending := queue.New[types.Order](queue.WithName("pending"), queue.WithSequencer(seq))
	ready := queue.New[types.Order](queue.WithName("ready"), queue.WithSequencer(seq))
	pending.Push(types.Order{ID: 1, Dish: types.DishPizza})
	pending.Push(types.Order{ID: 2, Dish: types.DishSoup})
	ready.Push(types.Order{ID: 3, Dish: types.DishSushi})

	logQueueDepth(log, pending, ready)

	assert.Contains(t, buf.String(), "Queue depth {pending=2, ready=1}")
}
