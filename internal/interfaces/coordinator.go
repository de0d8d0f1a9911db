package interfaces

import "context"

// Coordinator drives the poll-filter-dispatch loop.
type Coordinator interface {
	// RunCycle executes a single fetch/dispatch pass.
	RunCycle(ctx context.Context) error
	// Run loops RunCycle at the configured interval until ctx ends.
	Run(ctx context.Context) error
}
