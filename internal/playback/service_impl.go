package playback

import (
	"errors"
	"sync"

	"github.com/llehouerou/ripple/internal/favorites"
	"github.com/llehouerou/ripple/internal/files"
	"github.com/llehouerou/ripple/internal/history"
	"github.com/llehouerou/ripple/internal/media"
	"github.com/llehouerou/ripple/internal/notify"
	"github.com/llehouerou/ripple/internal/player"
)

// ErrClosed is returned by operations on a closed service.
var ErrClosed = errors.New("playback service is closed")

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	player    player.Interface
	favorites *favorites.Store
	history   *history.Store
	notifier  notify.Notifier

	subs   []*Subscription
	subsMu sync.RWMutex

	done   chan struct{}
	closed bool
	mu     sync.Mutex
}

// New creates a playback service around the given engine. The history
// store and notifier are optional; pass nil to disable them.
func New(p player.Interface, favs *favorites.Store, hist *history.Store, notifier notify.Notifier) Service {
	s := &serviceImpl{
		player:    p,
		favorites: favs,
		history:   hist,
		notifier:  notifier,
		done:      make(chan struct{}),
	}
	go s.pump()
	return s
}

// pump forwards finished-track notifications from the engine to the
// subscribers and the side-effect sinks.
func (s *serviceImpl) pump() {
	for {
		select {
		case path := <-s.player.FinishedChan():
			s.handleFinished(path)
		case <-s.done:
			return
		}
	}
}

func (s *serviceImpl) handleFinished(path string) {
	if s.history != nil {
		_ = s.history.Record(path)
	}
	if s.notifier != nil {
		notify.TrackFinished(s.notifier, path)
	}

	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendFinished(TrackFinished{Path: path})
	}
}

func (s *serviceImpl) Play(path string) error {
	if err := s.player.Play(path); err != nil {
		return err
	}

	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendStarted(TrackStarted{Path: path})
	}
	return nil
}

func (s *serviceImpl) Stop() {
	s.player.Stop()
}

func (s *serviceImpl) CurrentPath() (string, bool) {
	return s.player.CurrentPath()
}

func (s *serviceImpl) IsPlaying() bool {
	return s.player.IsPlaying()
}

func (s *serviceImpl) TrackInfo() *media.TrackInfo {
	return s.player.TrackInfo()
}

func (s *serviceImpl) ListAudioFiles(dir string) ([]files.AudioFile, error) {
	return files.List(dir)
}

func (s *serviceImpl) Rename(oldPath, newName string) (string, error) {
	return files.Rename(oldPath, newName)
}

func (s *serviceImpl) Copy(paths []string, destDir string) ([]string, error) {
	return files.Copy(paths, destDir)
}

func (s *serviceImpl) ListFavorites() ([]string, error) {
	return s.favorites.List()
}

func (s *serviceImpl) AddFavorite(path string) error {
	return s.favorites.Add(path)
}

func (s *serviceImpl) RemoveFavorite(path string) error {
	return s.favorites.Remove(path)
}

func (s *serviceImpl) RecentPlays(limit int) ([]history.Play, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.Recent(limit)
}

// Subscribe creates a new event subscription.
func (s *serviceImpl) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// Close stops playback and shuts down the service.
func (s *serviceImpl) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	s.player.Stop()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()

	if s.history != nil {
		_ = s.history.Close()
	}
	return nil
}
