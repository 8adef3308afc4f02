package radar

import (
	"context"
	"math/rand"
	"time"

	"github.com/banshee-data/sweepscope/internal/sweep"
	"github.com/banshee-data/sweepscope/internal/timeutil"
)

// SimulatedReader is an in-process stand-in for the hardware sensor. Each
// tick it records a uniformly random distance at the current step and
// advances the sweep, honoring the same shared-state contract as the
// hardware reader.
type SimulatedReader struct {
	state *sweep.State
	clock timeutil.Clock
	rng   *rand.Rand

	// Interval is the simulated per-step timing. Defaults to 80ms, the
	// hardware's motor move plus stabilization delay.
	Interval time.Duration
}

// NewSimulatedReader creates a simulated reader over the given state. The
// random source is seeded from the clock so runs differ.
func NewSimulatedReader(state *sweep.State, clock timeutil.Clock) *SimulatedReader {
	return &SimulatedReader{
		state:    state,
		clock:    clock,
		rng:      rand.New(rand.NewSource(clock.Now().UnixNano())),
		Interval: defaultSimInterval,
	}
}

// Run generates readings until the context is cancelled. While the sweep is
// paused the ticker keeps firing but the state is left untouched.
func (r *SimulatedReader) Run(ctx context.Context) error {
	ticker := r.clock.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			v := simMinDistance + r.rng.Float64()*(r.state.MaxRange()-simMinDistance)
			r.state.RecordAndAdvance(v)
		}
	}
}
