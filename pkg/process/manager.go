// Package process provides process lifecycle and signal handling
package process

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/poltergeist/diner/pkg/logger"
)

// DefaultSignals are trapped when none are given
var DefaultSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}

// ShutdownHandler receives the reason shutdown was requested
type ShutdownHandler func(reason string)

// Manager handles process lifecycle and signals. The first signal runs the
// shutdown handlers; a second one runs the force handlers.
type Manager struct {
	logger           logger.Logger
	signals          []os.Signal
	shutdownHandlers []ShutdownHandler
	forceHandlers    []ShutdownHandler
	heartbeatFunc    func()
	heartbeatEvery   time.Duration
	stop             chan struct{}
	wg               sync.WaitGroup
	mu               sync.Mutex
	running          bool
	shuttingDown     bool
}

// NewManager creates a new process manager
func NewManager(log logger.Logger, signals ...os.Signal) *Manager {
	if log == nil {
		log = logger.Discard()
	}
	if len(signals) == 0 {
		signals = DefaultSignals
	}
	return &Manager{
		logger:  log.WithTarget("process"),
		signals: signals,
	}
}

// RegisterShutdownHandler adds a handler for the first shutdown request
func (m *Manager) RegisterShutdownHandler(handler ShutdownHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.shutdownHandlers = append(m.shutdownHandlers, handler)
}

// RegisterForceHandler adds a handler for a repeated shutdown request
func (m *Manager) RegisterForceHandler(handler ShutdownHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.forceHandlers = append(m.forceHandlers, handler)
}

// SetHeartbeat runs fn every interval while the manager is running
func (m *Manager) SetHeartbeat(interval time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.heartbeatEvery = interval
	m.heartbeatFunc = fn
}

// Start traps signals until Stop is called. Cancelling ctx counts as a
// shutdown request.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.shuttingDown = false
	m.stop = make(chan struct{})
	stop := m.stop
	m.mu.Unlock()

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, m.signals...)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer signal.Stop(sigChan)

		done := ctx.Done()
		for {
			select {
			case <-stop:
				return
			case <-done:
				done = nil
				m.Shutdown("context done")
			case sig := <-sigChan:
				m.logger.Info("Received signal", logger.WithField("signal", sig))
				m.Shutdown(fmt.Sprintf("signal: %s", sig))
			}
		}
	}()

	m.mu.Lock()
	interval, beat := m.heartbeatEvery, m.heartbeatFunc
	m.mu.Unlock()
	if beat != nil && interval > 0 {
		m.startHeartbeat(ctx, stop, interval, beat)
	}
}

// Stop releases the signal trap and waits for background goroutines
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stop)
	m.mu.Unlock()

	m.wg.Wait()
}

// IsRunning checks if the process manager is running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Shutdown runs the shutdown handlers in reverse registration order. A
// repeated request runs the force handlers instead.
func (m *Manager) Shutdown(reason string) {
	m.mu.Lock()
	force := m.shuttingDown
	m.shuttingDown = true

	source := m.shutdownHandlers
	if force {
		source = m.forceHandlers
	}
	handlers := make([]ShutdownHandler, len(source))
	copy(handlers, source)
	m.mu.Unlock()

	if force {
		m.logger.Warn("Forcing shutdown", logger.WithField("reason", reason))
	} else {
		m.logger.Info("Initiating graceful shutdown...", logger.WithField("reason", reason))
	}

	for i := len(handlers) - 1; i >= 0; i-- {
		handlers[i](reason)
	}
}

func (m *Manager) startHeartbeat(ctx context.Context, stop <-chan struct{}, interval time.Duration, beat func()) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				beat()
			}
		}
	}()
}
