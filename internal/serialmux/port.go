package serialmux

import "io"

// Porter is the minimal interface the mux needs from a serial port. Keeping
// it to ReadWriter+Closer lets unit tests run against in-memory ports with no
// hardware attached.
type Porter interface {
	io.ReadWriter
	io.Closer
}
