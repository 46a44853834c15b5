package media

import (
	"os"
	"time"
)

// ProbeDuration estimates the playable duration of an audio file as its
// frame count over its sample rate. Duration is advisory: ok is false when
// the file cannot be opened or probed, or when the container carries no
// usable length, never an error.
func ProbeDuration(path string) (time.Duration, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false
	}

	streamer, format, err := Decode(f, path)
	if err != nil {
		f.Close()
		return 0, false
	}
	defer streamer.Close()

	length := streamer.Len()
	if length <= 0 || format.SampleRate <= 0 {
		return 0, false
	}
	return format.SampleRate.D(length), true
}
