// Package playback is the command surface of the engine: it ties the
// player, file enumerator, favorites store, and play history together and
// fans playback events out to subscribers.
package playback

import (
	"github.com/llehouerou/ripple/internal/files"
	"github.com/llehouerou/ripple/internal/history"
	"github.com/llehouerou/ripple/internal/media"
)

// Service defines the playback service contract.
type Service interface {
	// Playback control
	Play(path string) error
	Stop()

	// State queries
	CurrentPath() (string, bool)
	IsPlaying() bool
	TrackInfo() *media.TrackInfo

	// File browsing and operations
	ListAudioFiles(dir string) ([]files.AudioFile, error)
	Rename(oldPath, newName string) (string, error)
	Copy(paths []string, destDir string) ([]string, error)

	// Favorites
	ListFavorites() ([]string, error)
	AddFavorite(path string) error
	RemoveFavorite(path string) error

	// Play history
	RecentPlays(limit int) ([]history.Play, error)

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}
