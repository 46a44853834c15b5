package player

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

// constStreamer emits a fixed value for a fixed number of frames.
type constStreamer struct {
	value     float64
	remaining int
}

func (s *constStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.remaining == 0 {
		return 0, false
	}
	for n < len(samples) && s.remaining > 0 {
		samples[n][0] = s.value
		samples[n][1] = s.value
		n++
		s.remaining--
	}
	return n, true
}

func (s *constStreamer) Err() error { return nil }

func TestMalgoSink_FillEncodesS16(t *testing.T) {
	sink := &malgoSink{}
	sink.streamer = &constStreamer{value: 0.5, remaining: 4}

	out := make([]byte, 4*4) // 4 stereo S16 frames
	sink.fill(out, nil, 4)

	v := 0.5
	want := int16(v * 32767)
	for i := range 8 {
		got := int16(binary.LittleEndian.Uint16(out[i*2:]))
		assert.Equal(t, want, got, "sample %d", i)
	}
	assert.False(t, sink.Empty(), "sink empty while the streamer still has frames")
}

func TestMalgoSink_DrainsAndPadsSilence(t *testing.T) {
	sink := &malgoSink{}
	sink.streamer = &constStreamer{value: 1.0, remaining: 2}

	out := make([]byte, 4*4)
	sink.fill(out, nil, 4)

	// Two frames of signal, then silence.
	assert.Equal(t, int16(32767), int16(binary.LittleEndian.Uint16(out[0:])))
	for i := 8; i < len(out); i++ {
		assert.Zero(t, out[i], "byte %d should be silence", i)
	}

	// A second fill observes the drained streamer.
	sink.fill(out, nil, 4)
	assert.True(t, sink.Empty(), "sink should be empty after the streamer drained")
}

func TestMalgoSink_StopSilencesOutput(t *testing.T) {
	sink := &malgoSink{}
	sink.streamer = &constStreamer{value: 1.0, remaining: 100}

	sink.Stop()

	out := make([]byte, 4*4)
	for i := range out {
		out[i] = 0xAA
	}
	sink.fill(out, nil, 4)

	for i, b := range out {
		assert.Zero(t, b, "byte %d after Stop", i)
	}
	assert.True(t, sink.Empty(), "stopped sink should be empty")
}

func TestSampleToS16_Clamps(t *testing.T) {
	tests := []struct {
		in   float64
		want int16
	}{
		{0, 0},
		{1.0, 32767},
		{-1.0, -32767},
		{2.5, 32767},
		{-3.0, -32767},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sampleToS16(tt.in), "sampleToS16(%v)", tt.in)
	}
}
