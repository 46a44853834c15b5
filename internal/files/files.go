// Package files lists playable audio files and performs simple file
// operations on them (rename, copy).
package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/llehouerou/ripple/internal/media"
)

// ErrInvalidDir is returned when a listing target does not exist or is not
// a directory.
var ErrInvalidDir = errors.New("not a directory")

// AudioFile describes one playable file. DurationSeconds is advisory and
// nil when the duration could not be probed.
type AudioFile struct {
	Name            string   `json:"name"`
	Path            string   `json:"path"`
	DurationSeconds *float64 `json:"duration_seconds"`
}

// List returns the audio files directly inside dir (no recursion), sorted
// by name ascending. Each entry carries a probed duration when available.
func List(dir string) ([]AudioFile, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDir, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	files := make([]AudioFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !media.IsAudioFile(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		file := AudioFile{Name: entry.Name(), Path: path}
		if d, ok := media.ProbeDuration(path); ok {
			seconds := d.Seconds()
			file.DurationSeconds = &seconds
		}
		files = append(files, file)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Rename renames the file at oldPath to newName within the same directory
// and returns the new path.
func Rename(oldPath, newName string) (string, error) {
	parent := filepath.Dir(oldPath)
	newPath := filepath.Join(parent, newName)

	if err := os.Rename(oldPath, newPath); err != nil {
		return "", fmt.Errorf("rename %s: %w", oldPath, err)
	}
	return newPath, nil
}

// Copy copies each file into destDir, creating it if absent, and returns
// the destination paths in input order.
func Copy(paths []string, destDir string) ([]string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", destDir, err)
	}

	copied := make([]string, 0, len(paths))
	for _, src := range paths {
		dest := filepath.Join(destDir, filepath.Base(src))
		if err := copyFile(src, dest); err != nil {
			return nil, err
		}
		copied = append(copied, dest)
	}
	return copied, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("copy to %s: %w", dest, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
