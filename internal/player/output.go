package player

import (
	"github.com/gopxl/beep/v2"
)

// Driver acquires output devices. The engine opens one fresh Device per
// play and releases it when that playback stops or is replaced; devices are
// never cached across plays, so a device left in a bad state by one track
// cannot leak into the next.
type Driver interface {
	Open(format beep.Format) (Device, error)
}

// Device is one exclusively-owned output device/stream pair.
type Device interface {
	// NewSink creates a sink bound to this device. A device carries at
	// most one sink over its lifetime.
	NewSink() Sink
	// Close stops the device and releases it. Idempotent.
	Close() error
}

// Sink consumes a decoded stream and reports when it has drained.
type Sink interface {
	// Append hands the sink a stream and starts playback.
	Append(s beep.Streamer) error
	// Empty reports whether the sink has no more queued or playing audio.
	// A stopped sink is empty.
	Empty() bool
	// Stop halts playback immediately.
	Stop()
}
