// Package context carries run-scoped tracing values through the pipeline
package context

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ctxKey int

const (
	runIDKey ctxKey = iota
	actorKey
	startTimeKey
)

const (
	unknownRun   = "unknown-run"
	unknownActor = "unknown-actor"
)

// WithRunID adds a run ID to the context, generating one when empty
func WithRunID(parent context.Context, runID string) context.Context {
	if runID == "" {
		runID = GenerateRunID()
	}
	return context.WithValue(parent, runIDKey, runID)
}

// GetRunID retrieves the run ID from context
func GetRunID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok && id != "" {
		return id
	}
	return unknownRun
}

// HasRunID reports whether the context carries a run ID
func HasRunID(ctx context.Context) bool {
	return GetRunID(ctx) != unknownRun
}

// WithActor names the actor executing under this context
func WithActor(parent context.Context, actor string) context.Context {
	return context.WithValue(parent, actorKey, actor)
}

// GetActor retrieves the actor name from context
func GetActor(ctx context.Context) string {
	if a, ok := ctx.Value(actorKey).(string); ok && a != "" {
		return a
	}
	return unknownActor
}

// WithStartTime adds the run start time to the context
func WithStartTime(parent context.Context, startTime time.Time) context.Context {
	return context.WithValue(parent, startTimeKey, startTime)
}

// GetStartTime retrieves the run start time from context
func GetStartTime(ctx context.Context) (time.Time, bool) {
	t, ok := ctx.Value(startTimeKey).(time.Time)
	return t, ok
}

// GetElapsed returns the time since the run started, or zero if unknown
func GetElapsed(ctx context.Context) time.Duration {
	if start, ok := GetStartTime(ctx); ok {
		return time.Since(start)
	}
	return 0
}

// GenerateRunID creates a new unique run ID
func GenerateRunID() string {
	return "run_" + uuid.New().String()
}

// EnrichContext stamps a run ID (if missing) and the start time
func EnrichContext(parent context.Context) context.Context {
	ctx := parent
	if !HasRunID(ctx) {
		ctx = WithRunID(ctx, "")
	}
	return WithStartTime(ctx, time.Now())
}
