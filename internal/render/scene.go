package render

import (
	"fmt"
	"math"

	"github.com/banshee-data/sweepscope/internal/sweep"
)

// Spoke is one radial reference line, drawn from the origin to the outer
// ring, with a degree label placed just past its end.
type Spoke struct {
	AngleDegrees int         `json:"angle_degrees"`
	End          sweep.Point `json:"end"`
	LabelAt      sweep.Point `json:"label_at"`
	Label        string      `json:"label"`
}

// Scene is the static background geometry of the radar display: concentric
// range rings and 45° spokes. It is computed once at startup and drawn by
// clients beneath the dynamic layers.
type Scene struct {
	MaxRange float64   `json:"max_range"`
	Rings    []float64 `json:"rings"`
	Spokes   []Spoke   `json:"spokes"`
}

const (
	sceneRingCount    = 5
	spokeStepDegrees  = 45
	labelRadiusFactor = 1.05
)

// BuildScene computes the reference geometry for the given maximum range:
// rings at maxRange·{1/5..5/5} and labelled spokes every 45°.
func BuildScene(maxRange float64) Scene {
	rings := make([]float64, 0, sceneRingCount)
	for i := 1; i <= sceneRingCount; i++ {
		rings = append(rings, maxRange*float64(i)/sceneRingCount)
	}

	spokes := make([]Spoke, 0, 360/spokeStepDegrees)
	for deg := 0; deg < 360; deg += spokeStepDegrees {
		theta := float64(deg) * math.Pi / 180
		cos, sin := math.Cos(theta), math.Sin(theta)
		spokes = append(spokes, Spoke{
			AngleDegrees: deg,
			End:          sweep.Point{X: maxRange * cos, Y: maxRange * sin},
			LabelAt:      sweep.Point{X: labelRadiusFactor * maxRange * cos, Y: labelRadiusFactor * maxRange * sin},
			Label:        fmt.Sprintf("%d°", deg),
		})
	}

	return Scene{MaxRange: maxRange, Rings: rings, Spokes: spokes}
}
