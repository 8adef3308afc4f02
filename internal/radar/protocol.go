// Package radar implements the sweep sensor's line protocol and the two
// reader variants (hardware serial and simulated) that feed sweep state.
package radar

import (
	"fmt"
	"strconv"
	"strings"
)

// ReadySignal is the token sent to the sensor after the settle delay to
// request the start of data transmission.
const ReadySignal = "RDY"

// Protocol tokens emitted by the sensor firmware.
const (
	distancePrefix = "Distance:"
	tokenStepFwd   = "FWR"
	tokenChangeDir = "CDR"
)

// MessageKind classifies a line received from the sensor.
type MessageKind int

const (
	// KindEmpty marks a blank line, skipped without logging.
	KindEmpty MessageKind = iota
	// KindDistance carries one distance reading for the current step.
	KindDistance
	// KindStepForward advances the sweep one step in the current direction.
	KindStepForward
	// KindChangeDirection reverses the sweep direction.
	KindChangeDirection
	// KindUnknown is any other non-empty line; logged and ignored.
	KindUnknown
)

// Message is one decoded protocol line.
type Message struct {
	Kind     MessageKind
	Distance float64 // set for KindDistance
	Raw      string  // trimmed line as received
}

// ParseLine decodes a single line from the sensor. Decoding is lenient:
// invalid UTF-8 bytes are dropped and surrounding whitespace is trimmed. A
// Distance message with an unparseable payload returns an error; the caller
// logs it and moves on without touching the buffer.
func ParseLine(line string) (Message, error) {
	line = strings.TrimSpace(strings.ToValidUTF8(line, ""))

	switch {
	case line == "":
		return Message{Kind: KindEmpty}, nil
	case strings.HasPrefix(line, distancePrefix):
		v, err := strconv.ParseFloat(strings.TrimSpace(line[len(distancePrefix):]), 64)
		if err != nil {
			return Message{Kind: KindUnknown, Raw: line}, fmt.Errorf("malformed distance payload %q: %w", line, err)
		}
		return Message{Kind: KindDistance, Distance: v, Raw: line}, nil
	case line == tokenStepFwd:
		return Message{Kind: KindStepForward, Raw: line}, nil
	case line == tokenChangeDir:
		return Message{Kind: KindChangeDirection, Raw: line}, nil
	default:
		return Message{Kind: KindUnknown, Raw: line}, nil
	}
}
