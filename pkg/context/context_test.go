package context_test

import (
	"context"
	"strings"
	"testing"
	"time"

	dcontext "github.com/poltergeist/diner/pkg/context"
)

func TestRunID(t *testing.T) {
	ctx := context.Background()
	if dcontext.HasRunID(ctx) {
		t.Fatal("background context should have no run id")
	}

	ctx = dcontext.WithRunID(ctx, "")
	if !strings.HasPrefix(dcontext.GetRunID(ctx), "run_") {
		t.Errorf("expected generated run id, got %s", dcontext.GetRunID(ctx))
	}

	ctx = dcontext.WithRunID(context.Background(), "run_fixed")
	if dcontext.GetRunID(ctx) != "run_fixed" {
		t.Errorf("expected run_fixed, got %s", dcontext.GetRunID(ctx))
	}
}

func TestActor(t *testing.T) {
	ctx := dcontext.WithActor(context.Background(), "kitchen")
	if dcontext.GetActor(ctx) != "kitchen" {
		t.Errorf("expected kitchen, got %s", dcontext.GetActor(ctx))
	}
	if dcontext.GetActor(context.Background()) != "unknown-actor" {
		t.Error("expected unknown actor default")
	}
}

func TestEnrichContext(t *testing.T) {
	ctx := dcontext.EnrichContext(dcontext.WithRunID(context.Background(), "run_keep"))

	if dcontext.GetRunID(ctx) != "run_keep" {
		t.Error("existing run id should be kept")
	}
	if _, ok := dcontext.GetStartTime(ctx); !ok {
		t.Fatal("expected start time")
	}

	time.Sleep(time.Millisecond)
	if dcontext.GetElapsed(ctx) <= 0 {
		t.Error("expected positive elapsed time")
	}
	if dcontext.GetElapsed(context.Background()) != 0 {
		t.Error("expected zero elapsed without start time")
	}
}

func TestRunIDSurvivesLayering(t *testing.T) {
	ctx := dcontext.WithRunID(context.Background(), "run_x")
	ctx = dcontext.WithActor(ctx, "kitchen")
	ctx = dcontext.WithStartTime(ctx, time.Now())

	if got := dcontext.GetRunID(ctx); got != "run_x" {
		t.Errorf("expected run_x, got %s", got)
	}
	if got := dcontext.GetActor(ctx); got != "kitchen" {
		t.Errorf("expected kitchen, got %s", got)
	}
	if _, ok := dcontext.GetStartTime(ctx); !ok {
		t.Error("expected start time")
	}
}

func TestEnrichContext_GeneratesRunID(t *testing.T) {
	ctx := dcontext.EnrichContext(context.Background())

	if !dcontext.HasRunID(ctx) {
		t.Fatal("expected a generated run id")
	}
	if !strings.HasPrefix(dcontext.GetRunID(ctx), "run_") {
		t.Errorf("unexpected run id %s", dcontext.GetRunID(ctx))
	}
	if _, ok := dcontext.GetStartTime(ctx); !ok {
		t.Error("expected start time")
	}
}
