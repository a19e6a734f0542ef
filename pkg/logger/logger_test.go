package logger_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	dcontext "github.com/poltergeist/diner/pkg/context"
	"github.com/poltergeist/diner/pkg/logger"
)

func TestCreateLogger(t *testing.T) {
	log := logger.CreateLogger("", "info")
	if log == nil {
		t.Fatal("expected logger to be created")
	}
}

func TestLogger_WithTarget(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("info", &buf)

	log.WithTarget("kitchen").Info("taking order")

	output := buf.String()
	if !strings.Contains(output, "[kitchen]") {
		t.Errorf("expected target name in log output, got %q", output)
	}
}

func TestLogger_Success(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("info", &buf)

	log.Success("all orders delivered")

	if !strings.Contains(buf.String(), "all orders delivered") {
		t.Error("expected success message in log output")
	}
}

func TestLogger_FieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("info", &buf)

	log.Info("order arrived",
		logger.WithField("order_id", 3),
		logger.WithField("dish", "Soup"),
	)

	output := buf.String()
	if !strings.Contains(output, "{dish=Soup, order_id=3}") {
		t.Errorf("expected sorted fields, got %q", output)
	}
}

func TestLogger_ErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("error", &buf)

	log.Debug("should not appear")
	log.Info("should not appear")
	log.Warn("should not appear")
	log.Error("should appear")

	output := buf.String()
	if strings.Contains(output, "should not appear") {
		t.Error("lower level logs should not appear with error level")
	}
	if !strings.Contains(output, "should appear") {
		t.Error("error level log should appear")
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("info", &buf)
	courier := log.WithTarget("courier")

	courier.Debug("hidden")

	setter, ok := log.(logger.LevelSetter)
	if !ok {
		t.Fatal("expected TargetLogger to implement LevelSetter")
	}
	if err := setter.SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}

	courier.Debug("visible")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Error("debug message logged before level change")
	}
	if !strings.Contains(output, "visible") {
		t.Error("level change should apply to derived target loggers")
	}

	if err := setter.SetLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLogger_WithContext(t *testing.T) {
	var buf bytes.Buffer
	base := logger.CreateLoggerWithOutput("info", &buf)

	ctx := dcontext.WithRunID(context.Background(), "run_test")
	log := logger.WithContext(ctx, base).WithTarget("intake")
	log.Info("new order")

	output := buf.String()
	if !strings.Contains(output, "run_id=run_test") {
		t.Errorf("expected run id in output, got %q", output)
	}
	if !strings.Contains(output, "[intake]") {
		t.Errorf("expected target in output, got %q", output)
	}
}
