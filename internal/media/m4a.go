package media

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/alac"
	"github.com/llehouerou/go-faad2"
	"github.com/llehouerou/go-m4a"
)

// m4aStream reads samples from a go-m4a container and decodes them with
// faad2 (AAC) or alac (ALAC), auto-detected from the container.
type m4aStream struct {
	container  *m4a.Reader
	closer     io.Closer
	codec      m4a.CodecType
	err        error
	sampleIdx  int
	totalLen   int
	sampleSize int // bits per sample (16 or 24)
	channels   int

	aac  *faad2.Decoder
	alac *alac.Alac

	// Decoded frames pending delivery to Stream.
	pending [][2]float64
	offset  int
}

func decodeM4A(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	container, err := m4a.Open(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}

	codec := container.Codec()
	rate := container.SampleRate()
	channels := container.Channels()

	precision := 2
	if codec == m4a.CodecALAC && container.SampleSize() == 24 {
		precision = 3
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(rate),
		NumChannels: 2, // mono is duplicated to stereo
		Precision:   precision,
	}

	s := &m4aStream{
		container:  container,
		closer:     rc,
		codec:      codec,
		totalLen:   int(container.Duration().Seconds() * float64(rate)),
		sampleSize: int(container.SampleSize()),
		channels:   int(channels),
	}

	switch codec {
	case m4a.CodecAAC:
		decoder, err := faad2.NewDecoder(context.Background())
		if err != nil {
			return nil, beep.Format{}, err
		}
		if err := decoder.Init(context.Background(), container.CodecConfig()); err != nil {
			decoder.Close(context.Background())
			return nil, beep.Format{}, err
		}
		s.aac = decoder

	case m4a.CodecALAC:
		decoder, err := alac.NewWithConfig(alac.Config{
			SampleRate:  int(rate),
			SampleSize:  int(container.SampleSize()),
			NumChannels: int(channels),
			FrameSize:   4096, // ALAC default
		})
		if err != nil {
			return nil, beep.Format{}, err
		}
		s.alac = decoder

	case m4a.CodecUnknown:
		return nil, beep.Format{}, errors.New("m4a: unknown codec in container")
	}

	return s, format, nil
}

func (s *m4aStream) Stream(samples [][2]float64) (n int, ok bool) {
	if s.err != nil {
		return 0, false
	}

	for n < len(samples) {
		if s.offset < len(s.pending) {
			copied := copy(samples[n:], s.pending[s.offset:])
			s.offset += copied
			n += copied
			continue
		}

		if s.sampleIdx >= s.container.SampleCount() {
			return n, n > 0
		}

		data, err := s.container.ReadSample(s.sampleIdx)
		if err != nil {
			s.err = err
			return n, n > 0
		}
		s.sampleIdx++

		switch s.codec {
		case m4a.CodecAAC:
			pcm, err := s.aac.Decode(context.Background(), data)
			if err != nil {
				s.err = err
				return n, n > 0
			}
			s.pending = int16Frames(pcm, s.channels)

		case m4a.CodecALAC:
			raw := s.alac.Decode(data)
			if s.sampleSize == 24 {
				s.pending = pcm24Frames(raw, s.channels)
			} else {
				s.pending = pcm16Frames(raw, s.channels)
			}

		case m4a.CodecUnknown:
			s.err = errors.New("m4a: unknown codec")
			return n, n > 0
		}

		s.offset = 0
	}

	return n, true
}

func (s *m4aStream) Err() error {
	return s.err
}

func (s *m4aStream) Len() int {
	return s.totalLen
}

func (s *m4aStream) Position() int {
	pos := s.container.SampleTime(s.sampleIdx)
	return int(pos.Seconds() * float64(s.container.SampleRate()))
}

func (s *m4aStream) Seek(p int) error {
	p = min(max(p, 0), s.totalLen)

	rate := s.container.SampleRate()
	pos := time.Duration(float64(p) / float64(rate) * float64(time.Second))

	s.sampleIdx = s.container.SeekToTime(pos)
	s.pending = nil
	s.offset = 0
	s.err = nil
	return nil
}

func (s *m4aStream) Close() error {
	if s.aac != nil {
		s.aac.Close(context.Background())
	}
	// The ALAC decoder has no resources to release.
	return s.closer.Close()
}
