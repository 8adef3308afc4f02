// Package render turns sweep state snapshots into drawable frames: a point
// cloud of projected readings plus a beam segment at the sweep angle.
package render

import (
	"time"

	"github.com/banshee-data/sweepscope/internal/sweep"
)

// Beam is the line segment from the origin to the point at maximum range
// along the retained beam angle.
type Beam struct {
	AngleRadians float64     `json:"angle_radians"`
	End          sweep.Point `json:"end"`
}

// Frame is one rendered view of the sweep, ready for a display client to
// draw. Points holds one projected position per angular step in ascending
// index order; zero-distance steps sit at the origin.
type Frame struct {
	Seq       uint64        `json:"seq"`
	Timestamp time.Time     `json:"timestamp"`
	Points    []sweep.Point `json:"points"`
	Beam      Beam          `json:"beam"`
	Step      int           `json:"step"`
	Running   bool          `json:"running"`
}
