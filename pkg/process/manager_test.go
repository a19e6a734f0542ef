package process_test

import (
	"context"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/poltergeist/diner/pkg/logger"
	"github.com/poltergeist/diner/pkg/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reasons struct {
	mu  sync.Mutex
	got []string
}

func (r *reasons) add(prefix string) process.ShutdownHandler {
	return func(reason string) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.got = append(r.got, prefix+reason)
	}
}

func (r *reasons) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.got...)
}

func TestManager_ShutdownRunsHandlersInReverse(t *testing.T) {
	m := process.NewManager(logger.Discard())
	var r reasons
	m.RegisterShutdownHandler(r.add("first:"))
	m.RegisterShutdownHandler(r.add("second:"))
	m.RegisterForceHandler(r.add("force:"))

	m.Shutdown("test")
	assert.Equal(t, []string{"second:test", "first:test"}, r.list())

	m.Shutdown("again")
	assert.Equal(t, []string{"second:test", "first:test", "force:again"}, r.list())
}

func TestManager_ContextCancelRequestsShutdown(t *testing.T) {
	m := process.NewManager(logger.Discard())
	var r reasons
	m.RegisterShutdownHandler(r.add(""))

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	defer m.Stop()
	require.True(t, m.IsRunning())

	cancel()
	require.Eventually(t, func() bool { return len(r.list()) == 1 }, 2*time.Second, time.Millisecond)
	assert.Equal(t, "context done", r.list()[0])
}

func TestManager_SignalRequestsShutdown(t *testing.T) {
	m := process.NewManager(logger.Discard(), syscall.SIGUSR1)
	var r reasons
	m.RegisterShutdownHandler(r.add("graceful:"))
	m.RegisterForceHandler(r.add("force:"))

	m.Start(context.Background())
	defer m.Stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))
	require.Eventually(t, func() bool { return len(r.list()) == 1 }, 2*time.Second, time.Millisecond)

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))
	require.Eventually(t, func() bool { return len(r.list()) == 2 }, 2*time.Second, time.Millisecond)

	got := r.list()
	assert.Contains(t, got[0], "graceful:signal")
	assert.Contains(t, got[1], "force:signal")
}

func TestManager_StopEndsHeartbeat(t *testing.T) {
	m := process.NewManager(logger.Discard())

	var mu sync.Mutex
	beats := 0
	m.SetHeartbeat(time.Millisecond, func() {
		mu.Lock()
		beats++
		mu.Unlock()
	})

	m.Start(context.Background())
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return beats >= 2
	}, 2*time.Second, time.Millisecond)

	m.Stop()
	assert.False(t, m.IsRunning())

	mu.Lock()
	after := beats
	mu.Unlock()
	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, after, beats)
	mu.Unlock()

	// Stopping twice is a no-op
	m.Stop()
}
