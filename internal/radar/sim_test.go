package radar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/sweepscope/internal/sweep"
	"github.com/banshee-data/sweepscope/internal/timeutil"
)

func TestSimulatedReaderGeneratesReadings(t *testing.T) {
	t.Parallel()

	state, err := sweep.NewState(4, 400)
	require.NoError(t, err)

	clock := timeutil.NewMockClock(time.Unix(1000, 0))
	r := NewSimulatedReader(state, clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx)
	}()

	// tick the simulated motor three steps
	require.Eventually(t, func() bool {
		clock.Advance(r.Interval)
		return state.Snapshot().Step >= 3
	}, time.Second, time.Millisecond)

	snap := state.Snapshot()
	for i := 0; i < 3; i++ {
		d := snap.Distances[i]
		assert.GreaterOrEqualf(t, d, 50.0, "reading at step %d below simulated range", i)
		assert.LessOrEqualf(t, d, 400.0, "reading at step %d above max range", i)
	}

	cancel()
	<-done
}

func TestSimulatedReaderIdlesWhilePaused(t *testing.T) {
	t.Parallel()

	state, err := sweep.NewState(4, 400)
	require.NoError(t, err)
	state.SetRunning(false)

	clock := timeutil.NewMockClock(time.Unix(1000, 0))
	r := NewSimulatedReader(state, clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	for i := 0; i < 20; i++ {
		clock.Advance(r.Interval)
	}
	// readers are asynchronous; give any stray tick a chance to land
	time.Sleep(20 * time.Millisecond)

	snap := state.Snapshot()
	assert.Equal(t, 0, snap.Step)
	for i, d := range snap.Distances {
		assert.Zerof(t, d, "distance at step %d", i)
	}
}
