package radar

import (
	"context"
	"time"

	"github.com/banshee-data/sweepscope/internal/monitoring"
	"github.com/banshee-data/sweepscope/internal/sweep"
	"github.com/banshee-data/sweepscope/internal/timeutil"
)

// LineSource is the slice of the serial mux the hardware reader needs:
// a subscription to inbound lines and a way to send the ready signal.
type LineSource interface {
	Subscribe() (string, chan string)
	Unsubscribe(string)
	Send(string) error
}

// HardwareReader consumes protocol lines from a serial mux and applies them
// to sweep state. Construction requires an already-open port; a port that
// failed to open means no reader runs at all and the display stays static.
type HardwareReader struct {
	source LineSource
	state  *sweep.State
	clock  timeutil.Clock

	// SettleDelay is the pause between port open and the ready signal.
	// Defaults to two seconds, the sensor's reset time.
	SettleDelay time.Duration
}

// NewHardwareReader creates a reader over the given line source.
func NewHardwareReader(source LineSource, state *sweep.State, clock timeutil.Clock) *HardwareReader {
	return &HardwareReader{
		source:      source,
		state:       state,
		clock:       clock,
		SettleDelay: defaultSettleDelay,
	}
}

// Run waits out the settle delay, sends the ready signal, then applies every
// inbound line to the sweep state until the context is cancelled or the line
// source closes.
func (r *HardwareReader) Run(ctx context.Context) error {
	select {
	case <-r.clock.After(r.SettleDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := r.source.Send(ReadySignal); err != nil {
		// The sensor holds its motor until it sees RDY, so a failed send
		// leaves a static display. Keep listening regardless.
		monitoring.Logf("failed to send ready signal: %v", err)
	} else {
		monitoring.Logf("sent %s signal to sensor", ReadySignal)
	}

	id, lines := r.source.Subscribe()
	defer r.source.Unsubscribe(id)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			r.apply(line)
		}
	}
}

// apply decodes one line and mutates sweep state accordingly. Faults are
// logged and the reader moves on.
func (r *HardwareReader) apply(line string) {
	msg, err := ParseLine(line)
	if err != nil {
		monitoring.Logf("error parsing distance value: %v", err)
		return
	}

	switch msg.Kind {
	case KindEmpty:
	case KindDistance:
		r.state.RecordDistance(msg.Distance)
	case KindStepForward:
		r.state.AdvanceStep()
	case KindChangeDirection:
		r.state.ReverseDirection()
	default:
		monitoring.Logf("received unknown command: %q", msg.Raw)
	}
}
