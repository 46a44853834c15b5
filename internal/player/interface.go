package player

import (
	"github.com/llehouerou/ripple/internal/media"
)

// Interface defines the engine contract for dependency injection and testing.
type Interface interface {
	Play(path string) error
	Stop()
	CurrentPath() (string, bool)
	IsPlaying() bool
	TrackInfo() *media.TrackInfo
	FinishedChan() <-chan string
	OnFinished(fn func(path string))
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
