package media

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Decode opens a decoder for the given stream, picking the codec from the
// path's extension. The returned streamer owns rc; closing the streamer
// closes rc. The caller must close rc itself only when Decode fails.
func Decode(rc io.ReadSeekCloser, path string) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMP3:
		return decodeMP3(rc)
	case ExtWAV:
		return wav.Decode(rc)
	case ExtOGG:
		return vorbis.Decode(rc)
	case ExtFLAC:
		// Some taggers prepend an ID3v2 tag to FLAC files, which the
		// FLAC decoder chokes on.
		if err := skipID3v2(rc); err != nil {
			return nil, beep.Format{}, err
		}
		return flac.Decode(rc)
	case ExtM4A:
		return decodeM4A(rc)
	case ExtAAC:
		return decodeADTS(rc)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
}

// skipID3v2 advances rc past an ID3v2 tag if one is present, otherwise
// rewinds to the start.
func skipID3v2(rc io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := rc.Read(header)
	if err != nil {
		return err
	}
	if n < 10 || string(header[0:3]) != "ID3" {
		_, err = rc.Seek(0, io.SeekStart)
		return err
	}

	// ID3v2 size is a syncsafe integer in bytes 6-9: 7 bits per byte.
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = rc.Seek(10+size, io.SeekStart)
	return err
}
