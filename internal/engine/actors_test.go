package engine

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/poltergeist/diner/pkg/logger"
	"github.com/poltergeist/diner/pkg/mocks"
	"github.com/poltergeist/diner/pkg/state"
	"github.com/poltergeist/diner/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestKitchenCourier_ConcurrentProducersNoLoss(t *testing.T) {
	const producers, perProducer = 4, 25

	cfg := createTestConfig()
	cfg.CookTime.Min, cfg.CookTime.Max = 0, 0
	cfg.CourierInterval = 1
	cfg.DeliveryThreshold = producers * perProducer

	rec := mocks.NewRecorder()
	deps := createTestDependencies(cfg, rec)
	registry := state.NewRegistry(ActorKitchen, ActorCourier)

	kitchen := NewKitchen(cfg, deps, registry, logger.Discard())
	courier := NewCourier(cfg, deps, registry, logger.Discard())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var g errgroup.Group
	g.Go(func() error { return kitchen.Run(ctx) })
	g.Go(func() error { return courier.Run(ctx) })

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				deps.Pending.Push(types.Order{ID: p*perProducer + i + 1, Dish: types.DishSoup})
			}
		}(p)
	}
	wg.Wait()

	require.NoError(t, g.Wait())

	ids := types.OrderIDs(courier.Delivered())
	require.Len(t, ids, producers*perProducer)
	sort.Ints(ids)
	for i, id := range ids {
		assert.Equal(t, i+1, id)
	}
	assert.Equal(t, producers*perProducer, kitchen.Cooked())
	assert.True(t, registry.AllStopped())
}

func TestKitchen_FinishesOrderInFlight(t *testing.T) {
	cfg := createTestConfig()
	cfg.CookTime.Min, cfg.CookTime.Max = 50, 50

	rec := mocks.NewRecorder()
	deps := createTestDependencies(cfg, rec)
	kitchen := NewKitchen(cfg, deps, nil, logger.Discard())

	deps.Pending.Push(types.Order{ID: 1, Dish: types.DishSteak})

	done := make(chan error, 1)
	go func() { done <- kitchen.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		return len(rec.OfKind(types.EventOrderTaken)) == 1
	}, 5*time.Second, time.Millisecond)
	deps.Stop.Stop("test")

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("kitchen did not stop")
	}

	ready := deps.Ready.Snapshot()
	require.Len(t, ready, 1)
	assert.Equal(t, 1, ready[0].ID)

	taken := rec.OfKind(types.EventOrderTaken)[0]
	assert.Equal(t, 50, taken.CookUnits)
	assert.Equal(t, 50*time.Millisecond, taken.CookTime)
}

func TestKitchen_IdleStopsOnFlag(t *testing.T) {
	cfg := createTestConfig()
	deps := createTestDependencies(cfg, mocks.NewRecorder())
	kitchen := NewKitchen(cfg, deps, nil, logger.Discard())

	deps.Stop.Stop("test")
	require.NoError(t, kitchen.Run(context.Background()))
	assert.Zero(t, kitchen.Cooked())
}

func TestCourier_EmptyPickupIsPublished(t *testing.T) {
	cfg := createTestConfig()
	cfg.CourierInterval = 1

	rec := mocks.NewRecorder()
	deps := createTestDependencies(cfg, rec)
	courier := NewCourier(cfg, deps, nil, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- courier.Run(ctx) }()

	require.Eventually(t, func() bool {
		return len(rec.OfKind(types.EventOrdersDelivered)) >= 2
	}, 5*time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	for _, ev := range rec.OfKind(types.EventOrdersDelivered) {
		assert.Empty(t, ev.Orders)
		assert.NotZero(t, ev.Seq)
	}
	assert.False(t, deps.Stop.IsSet())
	assert.GreaterOrEqual(t, courier.Batches(), 2)
}

func TestCourier_RaisesFlagAtThreshold(t *testing.T) {
	cfg := createTestConfig()
	cfg.CourierInterval = 1
	cfg.DeliveryThreshold = 3

	deps := createTestDependencies(cfg, mocks.NewRecorder())
	for id := 1; id <= 5; id++ {
		deps.Ready.Push(types.Order{ID: id, Dish: types.DishSalad})
	}

	courier := NewCourier(cfg, deps, nil, logger.Discard())
	require.NoError(t, courier.Run(context.Background()))

	// One pickup takes everything that was ready
	assert.Equal(t, []int{1, 2, 3, 4, 5}, types.OrderIDs(courier.Delivered()))
	assert.Equal(t, 1, courier.Batches())
	assert.True(t, deps.Stop.IsSet())
	assert.Zero(t, deps.Ready.Len())
}

func TestCourier_StopsPromptlyOnFlag(t *testing.T) {
	cfg := createTestConfig()
	cfg.CourierInterval = 60_000

	deps := createTestDependencies(cfg, mocks.NewRecorder())
	deps.Ready.Push(types.Order{ID: 1, Dish: types.DishSoup})
	courier := NewCourier(cfg, deps, nil, logger.Discard())

	done := make(chan error, 1)
	go func() { done <- courier.Run(context.Background()) }()

	time.Sleep(20 * time.Millisecond)
	deps.Stop.Stop("signal: interrupt")

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("courier waited out its interval after the flag was raised")
	}

	// The ready order stays queued and is reported as undelivered
	assert.Zero(t, courier.Batches())
	assert.Equal(t, 1, deps.Ready.Len())
}

func TestIntake_ProducesIncreasingIDs(t *testing.T) {
	cfg := createTestConfig()
	cfg.IntakeDelay.Min, cfg.IntakeDelay.Max = 1, 1

	rnd := mocks.NewSequenceSource(1, 1, 1, 5, 1, 3)
	deps := createTestDependencies(cfg, mocks.NewRecorder())
	deps.Random = rnd

	intake := NewIntake(cfg, deps, nil, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- intake.Run(ctx) }()

	require.Eventually(t, func() bool { return deps.Pending.Len() >= 3 }, 5*time.Second, time.Millisecond)
	deps.Stop.Stop("test")
	cancel()
	require.NoError(t, <-done)

	pending := deps.Pending.Snapshot()
	require.GreaterOrEqual(t, len(pending), 3)
	assert.Equal(t, types.Order{ID: 1, Dish: types.DishPizza}, pending[0])
	assert.Equal(t, types.Order{ID: 2, Dish: types.DishSushi}, pending[1])
	assert.Equal(t, types.Order{ID: 3, Dish: types.DishSteak}, pending[2])
	for i, o := range pending {
		assert.Equal(t, i+1, o.ID)
	}
	assert.Equal(t, len(pending), intake.Produced())

	calls := rnd.Calls()
	assert.Equal(t, [2]int{1, 1}, calls[0])
	assert.Equal(t, [2]int{int(types.FirstDish), int(types.LastDish)}, calls[1])
}

func TestActor_RunAfterStopFails(t *testing.T) {
	cfg := createTestConfig()
	deps := createTestDependencies(cfg, mocks.NewRecorder())
	registry := state.NewRegistry(ActorKitchen)
	kitchen := NewKitchen(cfg, deps, registry, logger.Discard())

	deps.Stop.Stop("test")
	require.NoError(t, kitchen.Run(context.Background()))
	assert.Error(t, kitchen.Run(context.Background()))
}

func TestSafeGroup_RecoversPanic(t *testing.T) {
	g, _ := NewSafeGroup(context.Background(), logger.Discard())
	g.Go("boom", func() error { panic("kaboom") })
	g.Go("fine", func() error { return nil })

	err := g.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom panicked: kaboom")
}

func TestPause(t *testing.T) {
	assert.True(t, pause(context.Background(), time.Millisecond))
	assert.True(t, pause(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, pause(ctx, time.Hour))
	assert.False(t, pause(ctx, 0))
}

func TestPauseUntil(t *testing.T) {
	stop := make(chan struct{})
	assert.True(t, pauseUntil(context.Background(), stop, time.Millisecond))
	assert.True(t, pauseUntil(context.Background(), stop, 0))

	close(stop)
	assert.False(t, pauseUntil(context.Background(), stop, time.Hour))
	assert.False(t, pauseUntil(context.Background(), stop, 0))
}
