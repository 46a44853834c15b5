package player

import (
	"sync"

	"github.com/gopxl/beep/v2"
)

// MockDriver is a test double for Driver. Sinks start non-empty on Append
// and report empty once stopped or after FinishPlayback.
type MockDriver struct {
	mu      sync.Mutex
	devices []*MockDevice
	openErr error
}

// NewMockDriver creates a mock output driver for testing.
func NewMockDriver() *MockDriver {
	return &MockDriver{}
}

func (d *MockDriver) Open(format beep.Format) (Device, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.openErr != nil {
		return nil, d.openErr
	}
	dev := &MockDevice{format: format}
	d.devices = append(d.devices, dev)
	return dev, nil
}

// Test helpers

// SetOpenError makes subsequent Open calls fail.
func (d *MockDriver) SetOpenError(err error) {
	d.mu.Lock()
	d.openErr = err
	d.mu.Unlock()
}

// OpenCount returns how many devices have been acquired.
func (d *MockDriver) OpenCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.devices)
}

// Device returns the i-th acquired device.
func (d *MockDriver) Device(i int) *MockDevice {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.devices[i]
}

// LastDevice returns the most recently acquired device, or nil.
func (d *MockDriver) LastDevice() *MockDevice {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.devices) == 0 {
		return nil
	}
	return d.devices[len(d.devices)-1]
}

// MockDevice records its lifecycle and hands out a single MockSink.
type MockDevice struct {
	format beep.Format

	mu     sync.Mutex
	sink   *MockSink
	closed bool
}

func (d *MockDevice) NewSink() Sink {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sink = &MockSink{}
	return d.sink
}

func (d *MockDevice) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

// Closed reports whether the device has been released.
func (d *MockDevice) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Sink returns the device's sink, or nil if none was created.
func (d *MockDevice) Sink() *MockSink {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sink
}

// MockSink simulates queued audio without touching any hardware.
type MockSink struct {
	mu        sync.Mutex
	streamer  beep.Streamer
	appendErr error
	playing   bool
	stopped   bool
}

func (s *MockSink) Append(streamer beep.Streamer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	s.streamer = streamer
	s.playing = true
	return nil
}

func (s *MockSink) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped || !s.playing
}

func (s *MockSink) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
}

// Test helpers

// SetAppendError makes Append fail, simulating a device start failure.
func (s *MockSink) SetAppendError(err error) {
	s.mu.Lock()
	s.appendErr = err
	s.mu.Unlock()
}

// FinishPlayback simulates the queued audio draining naturally.
func (s *MockSink) FinishPlayback() {
	s.mu.Lock()
	s.playing = false
	s.mu.Unlock()
}

// Stopped reports whether Stop was called.
func (s *MockSink) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

var (
	_ Driver = (*MockDriver)(nil)
	_ Device = (*MockDevice)(nil)
	_ Sink   = (*MockSink)(nil)
)
