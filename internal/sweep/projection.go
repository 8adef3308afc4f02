package sweep

import "math"

// Point is a Cartesian position in sensor-local coordinates (centimeters,
// origin at the sensor).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Angle returns the fixed angular position of a step index, in radians.
// Angles never change for a given index: index i sits at i*stepDegrees.
func Angle(index, stepDegrees int) float64 {
	return float64(index*stepDegrees) * math.Pi / 180
}

// Project converts a distance buffer into Cartesian points, one per step in
// ascending index order. A zero distance projects to the origin; that is a
// valid point, not a gap.
func Project(distances []float64, stepDegrees int) []Point {
	points := make([]Point, len(distances))
	for i, d := range distances {
		theta := Angle(i, stepDegrees)
		points[i] = Point{X: d * math.Cos(theta), Y: d * math.Sin(theta)}
	}
	return points
}
