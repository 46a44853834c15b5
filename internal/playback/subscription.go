package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	TrackStarted  <-chan TrackStarted
	TrackFinished <-chan TrackFinished
	Done          <-chan struct{}

	// Internal write channels
	startedCh  chan TrackStarted
	finishedCh chan TrackFinished
	doneCh     chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		startedCh:  make(chan TrackStarted, eventBufferSize),
		finishedCh: make(chan TrackFinished, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.TrackStarted = s.startedCh
	s.TrackFinished = s.finishedCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendStarted sends a track-started event (non-blocking).
func (s *Subscription) sendStarted(e TrackStarted) {
	select {
	case s.startedCh <- e:
	default:
		// Drop if buffer full
	}
}

// sendFinished sends a track-finished event (non-blocking).
func (s *Subscription) sendFinished(e TrackFinished) {
	select {
	case s.finishedCh <- e:
	default:
	}
}
