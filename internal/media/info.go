package media

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dhowden/tag"
)

// TrackInfo holds display metadata for an audio file.
type TrackInfo struct {
	Path     string
	Title    string
	Artist   string
	Album    string
	Year     int
	Track    int
	Duration time.Duration
}

// ReadTrackInfo reads tag metadata from an audio file. A file without tags
// (or with unreadable ones) still yields usable info: the title falls back
// to the file name.
func ReadTrackInfo(path string) (*TrackInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info := &TrackInfo{
		Path:  path,
		Title: filepath.Base(path),
	}

	m, err := tag.ReadFrom(f)
	if err != nil {
		return info, nil
	}

	if title := m.Title(); title != "" {
		info.Title = title
	}
	info.Artist = m.Artist()
	info.Album = m.Album()
	info.Year = m.Year()
	info.Track, _ = m.Track()

	return info, nil
}
