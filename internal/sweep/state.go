// Package sweep holds the shared state of a rotating distance sensor: one
// distance slot per angular step, the current step index, the sweep direction,
// and the running flag. Exactly one reader mutates the state; the renderer
// only takes snapshots.
package sweep

import (
	"fmt"
	"sync"
)

// State is the single shared-state object between the active reader and the
// renderer. All mutation goes through its methods so that every critical
// section, including distance buffer writes, runs under the same mutex.
type State struct {
	mu        sync.Mutex
	distances []float64
	step      int
	direction int
	running   bool

	stepDegrees int
	maxRange    float64
}

// Snapshot is a consistent read-only copy of the sweep state.
type Snapshot struct {
	Distances []float64
	Step      int
	Direction int
	Running   bool
}

// NewState creates sweep state for the given angular step size (degrees) and
// maximum sensor range (centimeters). The step size must divide 360 evenly;
// the resulting buffer length 360/stepDegrees is fixed for the process
// lifetime. The sweep starts at step 0, direction +1, running.
func NewState(stepDegrees int, maxRange float64) (*State, error) {
	if stepDegrees <= 0 || 360%stepDegrees != 0 {
		return nil, fmt.Errorf("step size %d°: must be a positive divisor of 360", stepDegrees)
	}
	if maxRange <= 0 {
		return nil, fmt.Errorf("max range %v: must be positive", maxRange)
	}
	return &State{
		distances:   make([]float64, 360/stepDegrees),
		direction:   1,
		running:     true,
		stepDegrees: stepDegrees,
		maxRange:    maxRange,
	}, nil
}

// NumSteps returns the fixed number of angular steps in a full rotation.
func (s *State) NumSteps() int { return len(s.distances) }

// StepDegrees returns the configured angular step size in degrees.
func (s *State) StepDegrees() int { return s.stepDegrees }

// MaxRange returns the configured maximum range in centimeters.
func (s *State) MaxRange() float64 { return s.maxRange }

// RecordDistance stores a distance reading at the current step, overwriting
// the previous reading for that step.
func (s *State) RecordDistance(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.distances[s.step] = v
}

// AdvanceStep moves the current step one position in the sweep direction,
// wrapping at both ends of the rotation.
func (s *State) AdvanceStep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = s.wrap(s.step + s.direction)
}

// ReverseDirection flips the sweep direction.
func (s *State) ReverseDirection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.direction = -s.direction
}

// SetRunning starts or pauses the sweep. While paused the simulated reader
// generates nothing and the renderer freezes the beam at its last angle.
func (s *State) SetRunning(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = running
}

// RecordAndAdvance stores a reading at the current step and advances one step
// in a single critical section. It is a no-op returning false while the sweep
// is paused. The simulated reader uses this to emulate one motor step.
func (s *State) RecordAndAdvance(v float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return false
	}
	s.distances[s.step] = v
	s.step = s.wrap(s.step + s.direction)
	return true
}

// Snapshot copies the full distance buffer and sweep position. The copy is
// independent of later mutation so callers can project and draw without
// holding the lock.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	distances := make([]float64, len(s.distances))
	copy(distances, s.distances)
	return Snapshot{
		Distances: distances,
		Step:      s.step,
		Direction: s.direction,
		Running:   s.running,
	}
}

// wrap normalizes a step index into [0, NumSteps). Callers must hold s.mu.
func (s *State) wrap(step int) int {
	n := len(s.distances)
	return ((step % n) + n) % n
}
