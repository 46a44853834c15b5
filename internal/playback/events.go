package playback

// TrackStarted is emitted when playback starts on a track.
type TrackStarted struct {
	Path string
}

// TrackFinished is emitted when a track plays to its natural end.
//
// Emitted exactly once per successful play that runs to completion. NOT
// emitted when playback is cut short by Stop or replaced by another Play;
// the engine's watcher suppresses those.
type TrackFinished struct {
	Path string
}
