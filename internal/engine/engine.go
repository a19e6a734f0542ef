// Package engine runs the diner's order pipeline.
// This package consolidates the following functionality:
// - Pipeline supervision (one run, courier joined first)
// - The intake, kitchen and courier actors
// - Dependency construction from configuration
package engine

// This file serves as the package documentation.
// The actual implementation is split across multiple files for clarity:
// - pipeline.go: Run supervision and the end-of-run summary
// - intake.go, kitchen.go, courier.go: The three actors
// - actor.go: State shared by every actor
// - factory.go: Dependency injection factory
// - safegroup.go: Panic-safe concurrency utilities
// - errors.go: Sentinel errors
