package radar

import (
	"context"
	"time"
)

// Reader produces step, direction, and distance updates into shared sweep
// state. Exactly one variant runs per process, chosen by configuration; both
// honor the same contract, so the rest of the program never knows which one
// is active.
type Reader interface {
	// Run blocks until the context is cancelled or the reader's input is
	// exhausted. Per-iteration faults are logged and skipped; Run never
	// returns because of a malformed line.
	Run(ctx context.Context) error
}

const (
	// settleDelay gives the sensor time to reset after the port opens
	// before the ready signal is sent.
	defaultSettleDelay = 2 * time.Second

	// defaultSimInterval matches the hardware's combined motor move and
	// stabilization time per step.
	defaultSimInterval = 80 * time.Millisecond

	// simMinDistance is the low end of the simulated reading range (cm).
	simMinDistance = 50.0
)
