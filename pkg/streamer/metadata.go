// Package streamer exposes the blocking burst API over the flexsdr
// dataplane: an RX streamer assembling per-channel sample bursts from the
// demux FIFOs, and a TX streamer fragmenting caller samples into
// timestamped packets.
package streamer

import "errors"

// ErrTimeout is returned by Recv when the timeout expires with zero
// samples gathered. A partial burst is a successful return, not an error.
var ErrTimeout = errors.New("streamer: timeout")

// RxMetadata describes one received burst.
type RxMetadata struct {
	HasTimeSpec bool
	TimeSpec    float64 // seconds, earliest timestamp seen this call
	SOB         bool
	EOB         bool
}

// TxMetadata describes one transmitted burst.
type TxMetadata struct {
	HasTimeSpec bool
	TimeSpec    float64 // seconds; first packet is stamped TimeSpec*tick_rate
	SOB         bool
	EOB         bool
}
