package engine

import "errors"

// Sentinel errors for pipeline operations.
// These enable reliable error checking with errors.Is()
var (
	// ErrAlreadyRunning indicates Run was called twice on the same pipeline
	ErrAlreadyRunning = errors.New("pipeline already ran")

	// ErrMissingDependency indicates a required dependency was nil
	ErrMissingDependency = errors.New("missing pipeline dependency")
)
