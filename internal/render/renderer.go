package render

import (
	"context"
	"math"
	"time"

	"github.com/banshee-data/sweepscope/internal/sweep"
	"github.com/banshee-data/sweepscope/internal/timeutil"
)

// FramePeriod is the render cadence. Each frame is O(N) trigonometry over
// the distance buffer, far inside this budget.
const FramePeriod = 50 * time.Millisecond

// Renderer snapshots sweep state on a fixed cadence and produces frames. It
// retains the last beam angle across frames so the beam freezes in place
// when the sweep stops.
type Renderer struct {
	state *sweep.State
	clock timeutil.Clock

	seq       uint64
	lastTheta float64
}

// NewRenderer creates a renderer over the given state.
func NewRenderer(state *sweep.State, clock timeutil.Clock) *Renderer {
	return &Renderer{state: state, clock: clock}
}

// Render takes one consistent snapshot and projects it into a frame. The
// lock is held only inside Snapshot; projection and beam math run on the
// copy.
func (r *Renderer) Render(now time.Time) Frame {
	snap := r.state.Snapshot()

	if snap.Running {
		r.lastTheta = sweep.Angle(snap.Step, r.state.StepDegrees())
	}

	maxRange := r.state.MaxRange()
	r.seq++
	return Frame{
		Seq:       r.seq,
		Timestamp: now,
		Points:    sweep.Project(snap.Distances, r.state.StepDegrees()),
		Beam: Beam{
			AngleRadians: r.lastTheta,
			End: sweep.Point{
				X: maxRange * math.Cos(r.lastTheta),
				Y: maxRange * math.Sin(r.lastTheta),
			},
		},
		Step:    snap.Step,
		Running: snap.Running,
	}
}

// Run renders a frame every FramePeriod and hands it to publish until the
// context is cancelled. The publish callback must not block; frame fanout to
// slow consumers is the publisher's problem.
func (r *Renderer) Run(ctx context.Context, publish func(Frame)) error {
	ticker := r.clock.NewTicker(FramePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C():
			publish(r.Render(now))
		}
	}
}
