// Package media decodes local audio files into beep streams and probes
// their duration and tag metadata. It is the single place that knows which
// container formats and codecs the application can handle.
package media

import (
	"errors"
	"path/filepath"
	"strings"
)

// File extensions recognized as playable audio.
const (
	ExtMP3  = ".mp3"
	ExtWAV  = ".wav"
	ExtOGG  = ".ogg"
	ExtFLAC = ".flac"
	ExtM4A  = ".m4a"
	ExtAAC  = ".aac"
)

// ErrUnsupported is returned when a file's format cannot be decoded.
var ErrUnsupported = errors.New("unsupported audio format")

// Extensions returns the recognized audio extensions, without dots.
func Extensions() []string {
	return []string{"mp3", "wav", "ogg", "flac", "m4a", "aac"}
}

// IsAudioFile reports whether the path has a recognized audio extension.
// The match is case-insensitive.
func IsAudioFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMP3, ExtWAV, ExtOGG, ExtFLAC, ExtM4A, ExtAAC:
		return true
	}
	return false
}
