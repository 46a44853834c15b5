package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-faad2"
)

// Raw .aac files are ADTS streams: a sequence of AAC access units, each
// prefixed with a 7-byte (or 9-byte with CRC) header carrying the codec
// parameters. The container has no index, so the whole file is scanned once
// at open time to build one; each AAC frame decodes to 1024 samples.

const adtsFrameSamples = 1024

var adtsSampleRates = [...]int{
	96000, 88200, 64000, 48000, 44100, 32000, 24000,
	22050, 16000, 12000, 11025, 8000, 7350,
}

type adtsFrame struct {
	offset int64 // file offset of the header
	header int   // header length: 7, or 9 with CRC
	length int   // total frame length including header
}

// adtsStream decodes a raw ADTS AAC stream with faad2.
type adtsStream struct {
	rc       io.ReadSeekCloser
	decoder  *faad2.Decoder
	frames   []adtsFrame
	frameIdx int
	channels int
	err      error

	pending [][2]float64
	offset  int
	buf     []byte
}

func decodeADTS(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	frames, profile, rateIdx, chanCfg, err := scanADTS(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}
	if len(frames) == 0 {
		return nil, beep.Format{}, errors.New("adts: no frames found")
	}

	decoder, err := faad2.NewDecoder(context.Background())
	if err != nil {
		return nil, beep.Format{}, err
	}
	if err := decoder.Init(context.Background(), audioSpecificConfig(profile, rateIdx, chanCfg)); err != nil {
		decoder.Close(context.Background())
		return nil, beep.Format{}, err
	}

	channels := int(chanCfg)
	if channels == 0 || channels > 2 {
		channels = 2
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(adtsSampleRates[rateIdx]),
		NumChannels: 2,
		Precision:   2,
	}

	s := &adtsStream{
		rc:       rc,
		decoder:  decoder,
		frames:   frames,
		channels: channels,
	}
	return s, format, nil
}

// scanADTS walks the stream and indexes every frame. The codec parameters
// are taken from the first header; streams that change parameters mid-file
// are not supported.
func scanADTS(rc io.ReadSeeker) (frames []adtsFrame, profile, rateIdx, chanCfg byte, err error) {
	if _, err = rc.Seek(0, io.SeekStart); err != nil {
		return nil, 0, 0, 0, err
	}

	var offset int64
	header := make([]byte, 7)
	first := true

	for {
		_, rerr := io.ReadFull(rc, header)
		if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
			break
		}
		if rerr != nil {
			return nil, 0, 0, 0, rerr
		}

		if header[0] != 0xFF || header[1]&0xF6 != 0xF0 {
			return nil, 0, 0, 0, fmt.Errorf("adts: bad sync word at offset %d", offset)
		}

		p := header[2] >> 6
		ri := (header[2] >> 2) & 0x0F
		cc := (header[2]&0x01)<<2 | header[3]>>6
		if int(ri) >= len(adtsSampleRates) {
			return nil, 0, 0, 0, fmt.Errorf("adts: invalid sample rate index %d", ri)
		}
		if first {
			profile, rateIdx, chanCfg = p, ri, cc
			first = false
		}

		length := int(header[3]&0x03)<<11 | int(header[4])<<3 | int(header[5])>>5
		if length < 7 {
			return nil, 0, 0, 0, fmt.Errorf("adts: invalid frame length %d", length)
		}

		headerLen := 7
		if header[1]&0x01 == 0 { // CRC present
			headerLen = 9
		}

		frames = append(frames, adtsFrame{offset: offset, header: headerLen, length: length})

		offset += int64(length)
		if _, err = rc.Seek(offset, io.SeekStart); err != nil {
			return nil, 0, 0, 0, err
		}
	}

	return frames, profile, rateIdx, chanCfg, nil
}

// audioSpecificConfig builds the 2-byte AudioSpecificConfig faad2 expects,
// equivalent to what an MP4 container would carry in its esds box.
func audioSpecificConfig(profile, rateIdx, chanCfg byte) []byte {
	objectType := profile + 1 // ADTS profile is the object type minus one
	return []byte{
		objectType<<3 | rateIdx>>1,
		(rateIdx&0x01)<<7 | chanCfg<<3,
	}
}

func (s *adtsStream) Stream(samples [][2]float64) (n int, ok bool) {
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

		if s.frameIdx >= len(s.frames) {
			return n, n > 0
		}

		frame := s.frames[s.frameIdx]
		payload := frame.length - frame.header
		if len(s.buf) < payload {
			s.buf = make([]byte, payload)
		}

		if _, err := s.rc.Seek(frame.offset+int64(frame.header), io.SeekStart); err != nil {
			s.err = err
			return n, n > 0
		}
		if _, err := io.ReadFull(s.rc, s.buf[:payload]); err != nil {
			s.err = err
			return n, n > 0
		}
		s.frameIdx++

		pcm, err := s.decoder.Decode(context.Background(), s.buf[:payload])
		if err != nil {
			s.err = err
			return n, n > 0
		}
		s.pending = int16Frames(pcm, s.channels)
		s.offset = 0
	}

	return n, true
}

func (s *adtsStream) Err() error {
	return s.err
}

func (s *adtsStream) Len() int {
	return len(s.frames) * adtsFrameSamples
}

func (s *adtsStream) Position() int {
	buffered := len(s.pending) - s.offset
	return s.frameIdx*adtsFrameSamples - buffered
}

func (s *adtsStream) Seek(p int) error {
	p = min(max(p, 0), s.Len())
	s.frameIdx = p / adtsFrameSamples
	s.pending = nil
	s.offset = 0
	s.err = nil
	return nil
}

func (s *adtsStream) Close() error {
	s.decoder.Close(context.Background())
	return s.rc.Close()
}
