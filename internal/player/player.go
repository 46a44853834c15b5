// Package player implements the playback engine: a single-stream audio
// player that owns the output device for the track it is playing and
// detects natural end of playback.
package player

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"

	"github.com/llehouerou/ripple/internal/media"
)

const (
	// settleDelay gives the previous device time to release before a new
	// one is acquired.
	settleDelay = 50 * time.Millisecond

	// openRetries and openBackoff absorb transient open failures, e.g. a
	// prior Stop still releasing a handle or a removable-drive hiccup.
	openRetries = 3
	openBackoff = 100 * time.Millisecond

	// pollInterval bounds how long after audio exhaustion the finished
	// notification fires.
	pollInterval = 100 * time.Millisecond
)

// Classification errors, checked with errors.Is.
var (
	ErrDecode = errors.New("cannot decode audio")
	ErrDevice = errors.New("audio output unavailable")
)

// Player plays one audio file at a time. Play replaces any running
// playback; a background watcher per play emits the path on FinishedChan
// when that track runs out naturally. All methods are safe for concurrent
// use, though transport control is expected to come from a single caller.
type Player struct {
	driver Driver

	mu          sync.Mutex
	sink        Sink
	device      Device
	streamer    beep.StreamSeekCloser
	file        *os.File
	currentPath string
	trackInfo   *media.TrackInfo

	// generation identifies the play in flight. Stop and Play both bump
	// it, so a watcher holding a stale generation can never report a
	// finish for a track it no longer owns - even a replay of the same
	// path.
	generation uint64

	settle  time.Duration
	backoff time.Duration
	retries int
	poll    time.Duration

	finishedCh chan string
	onFinished func(path string)
}

// New creates a player backed by the default audio output.
func New() *Player {
	return NewWithDriver(NewMalgoDriver())
}

// NewWithDriver creates a player on a specific output driver.
func NewWithDriver(d Driver) *Player {
	return &Player{
		driver:     d,
		settle:     settleDelay,
		backoff:    openBackoff,
		retries:    openRetries,
		poll:       pollInterval,
		finishedCh: make(chan string, 8),
	}
}

// Play stops any running playback and starts the given file. On success a
// watcher goroutine is spawned that will emit the path on FinishedChan
// once the track has played out, unless a later Play or Stop supersedes it.
func (p *Player) Play(path string) error {
	p.Stop()

	// Let the released device settle before acquiring a new one.
	time.Sleep(p.settle)

	f, err := p.openWithRetry(path)
	if err != nil {
		return err
	}

	streamer, format, err := media.Decode(f, path)
	if err != nil {
		f.Close()
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	device, err := p.driver.Open(format)
	if err != nil {
		streamer.Close()
		f.Close()
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}

	sink := device.NewSink()
	if err := sink.Append(streamer); err != nil {
		device.Close()
		streamer.Close()
		f.Close()
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}

	info, _ := media.ReadTrackInfo(path)
	if info != nil && streamer.Len() > 0 {
		info.Duration = format.SampleRate.D(streamer.Len())
	}

	p.mu.Lock()
	p.sink = sink
	p.device = device
	p.streamer = streamer
	p.file = f
	p.currentPath = path
	p.trackInfo = info
	p.generation++
	gen := p.generation
	p.mu.Unlock()

	go p.watch(path, gen)
	return nil
}

// Stop halts playback and releases the sink and device. Calling Stop on an
// already-stopped player is a no-op; Stop never fails.
func (p *Player) Stop() {
	p.mu.Lock()
	sink, device, streamer, file := p.sink, p.device, p.streamer, p.file
	p.sink, p.device, p.streamer, p.file = nil, nil, nil, nil
	p.currentPath = ""
	p.trackInfo = nil
	p.generation++ // invalidate any in-flight watcher
	p.mu.Unlock()

	if sink != nil {
		sink.Stop()
	}
	if device != nil {
		device.Close()
	}
	if streamer != nil {
		streamer.Close()
	}
	if file != nil {
		file.Close() // usually already closed via the streamer
	}
}

// CurrentPath returns the path of the track the engine considers playing.
// It is a correlation token, not a guarantee that audio is still flowing.
func (p *Player) CurrentPath() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentPath, p.currentPath != ""
}

// IsPlaying reports whether a sink exists and still has queued audio.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sink != nil && !p.sink.Empty()
}

// TrackInfo returns metadata for the current track, or nil when stopped.
func (p *Player) TrackInfo() *media.TrackInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.trackInfo
}

// FinishedChan delivers the path of each track that plays out naturally.
// At most one value is delivered per successful Play.
func (p *Player) FinishedChan() <-chan string {
	return p.finishedCh
}

// OnFinished registers a callback invoked from the watcher goroutine when
// a track finishes. Set it before the first Play.
func (p *Player) OnFinished(fn func(path string)) {
	p.onFinished = fn
}

// openWithRetry opens path, retrying on failure with a fixed backoff.
// Exhausting the retries surfaces the last error annotated with the
// attempt count.
func (p *Player) openWithRetry(path string) (*os.File, error) {
	var lastErr error
	for attempt := 1; attempt <= p.retries; attempt++ {
		f, err := os.Open(path)
		if err == nil {
			return f, nil
		}
		lastErr = err
		if attempt < p.retries {
			time.Sleep(p.backoff)
		}
	}
	return nil, fmt.Errorf("open failed after %d attempts: %w", p.retries, lastErr)
}
