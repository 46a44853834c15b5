package player

import (
	"encoding/binary"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/gopxl/beep/v2"
)

// The real output path runs on malgo (miniaudio). Unlike a process-global
// speaker, malgo lets a context and device be created and torn down per
// play, which is exactly the ownership model the engine wants.

type malgoDriver struct{}

// NewMalgoDriver returns the default output driver.
func NewMalgoDriver() Driver {
	return malgoDriver{}
}

func (malgoDriver) Open(format beep.Format) (Device, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, err
	}
	return &malgoDevice{ctx: ctx, format: format}, nil
}

type malgoDevice struct {
	ctx    *malgo.AllocatedContext
	format beep.Format
	dev    *malgo.Device
}

func (d *malgoDevice) NewSink() Sink {
	return &malgoSink{device: d}
}

func (d *malgoDevice) Close() error {
	if d.dev != nil {
		d.dev.Uninit()
		d.dev = nil
	}
	if d.ctx != nil {
		err := d.ctx.Uninit()
		d.ctx.Free()
		d.ctx = nil
		return err
	}
	return nil
}

// malgoSink feeds a beep streamer to the device's data callback as
// interleaved stereo S16 and tracks when the stream has drained.
type malgoSink struct {
	device *malgoDevice

	mu       sync.Mutex
	streamer beep.Streamer
	scratch  [][2]float64
	drained  bool
	stopped  bool
}

func (s *malgoSink) Append(streamer beep.Streamer) error {
	s.mu.Lock()
	s.streamer = streamer
	s.mu.Unlock()

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatS16
	cfg.Playback.Channels = 2
	cfg.SampleRate = uint32(s.device.format.SampleRate)
	cfg.Alsa.NoMMap = 1

	dev, err := malgo.InitDevice(s.device.ctx.Context, cfg, malgo.DeviceCallbacks{Data: s.fill})
	if err != nil {
		return err
	}
	if err := dev.Start(); err != nil {
		dev.Uninit()
		return err
	}

	s.device.dev = dev
	return nil
}

func (s *malgoSink) fill(out, _ []byte, frameCount uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || s.drained || s.streamer == nil {
		clear(out)
		return
	}

	n := int(frameCount)
	if len(s.scratch) < n {
		s.scratch = make([][2]float64, n)
	}

	got, ok := s.streamer.Stream(s.scratch[:n])
	for i := range got {
		binary.LittleEndian.PutUint16(out[i*4:], uint16(sampleToS16(s.scratch[i][0])))
		binary.LittleEndian.PutUint16(out[i*4+2:], uint16(sampleToS16(s.scratch[i][1])))
	}

	// The rest of the buffer must be silence, not stale garbage.
	clear(out[got*4:])

	if !ok {
		s.drained = true
	}
}

func (s *malgoSink) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped || s.drained || s.streamer == nil
}

func (s *malgoSink) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
}

func sampleToS16(v float64) int16 {
	v = max(min(v, 1.0), -1.0)
	return int16(v * 32767)
}
