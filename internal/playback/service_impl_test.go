package playback

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/llehouerou/ripple/internal/favorites"
	"github.com/llehouerou/ripple/internal/files"
	"github.com/llehouerou/ripple/internal/history"
	"github.com/llehouerou/ripple/internal/media"
	"github.com/llehouerou/ripple/internal/notify"
)

// fakeEngine implements player.Interface with a script-controlled finished
// channel so service tests need no audio stack.
type fakeEngine struct {
	playErr  error
	current  string
	playing  bool
	stops    int
	finished chan string
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{finished: make(chan string, 8)}
}

func (f *fakeEngine) Play(path string) error {
	if f.playErr != nil {
		return f.playErr
	}
	f.current = path
	f.playing = true
	return nil
}

func (f *fakeEngine) Stop() {
	f.stops++
	f.current = ""
	f.playing = false
}

func (f *fakeEngine) CurrentPath() (string, bool) { return f.current, f.current != "" }
func (f *fakeEngine) IsPlaying() bool             { return f.playing }
func (f *fakeEngine) TrackInfo() *media.TrackInfo { return nil }
func (f *fakeEngine) FinishedChan() <-chan string { return f.finished }
func (f *fakeEngine) OnFinished(func(string))     {}

func newTestService(t *testing.T, engine *fakeEngine, hist *history.Store, n notify.Notifier) Service {
	t.Helper()
	favs := favorites.NewStore(filepath.Join(t.TempDir(), "favorites.json"))
	svc := New(engine, favs, hist, n)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func recvFinished(t *testing.T, sub *Subscription) TrackFinished {
	t.Helper()
	select {
	case e := <-sub.TrackFinished:
		return e
	case <-time.After(time.Second):
		t.Fatal("no TrackFinished event within 1s")
		return TrackFinished{}
	}
}

func TestPlay_EmitsTrackStarted(t *testing.T) {
	engine := newFakeEngine()
	svc := newTestService(t, engine, nil, nil)
	sub := svc.Subscribe()

	if err := svc.Play("/music/a.mp3"); err != nil {
		t.Fatalf("Play: %v", err)
	}

	select {
	case e := <-sub.TrackStarted:
		if e.Path != "/music/a.mp3" {
			t.Errorf("TrackStarted.Path = %q", e.Path)
		}
	case <-time.After(time.Second):
		t.Fatal("no TrackStarted event")
	}
}

func TestPlay_ErrorEmitsNothing(t *testing.T) {
	engine := newFakeEngine()
	engine.playErr = errors.New("device gone")
	svc := newTestService(t, engine, nil, nil)
	sub := svc.Subscribe()

	if err := svc.Play("/music/a.mp3"); err == nil {
		t.Fatal("Play succeeded despite engine error")
	}

	select {
	case e := <-sub.TrackStarted:
		t.Fatalf("unexpected TrackStarted for %q", e.Path)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFinished_FansOutToAllSubscribers(t *testing.T) {
	engine := newFakeEngine()
	svc := newTestService(t, engine, nil, nil)
	sub1 := svc.Subscribe()
	sub2 := svc.Subscribe()

	engine.finished <- "/music/a.mp3"

	if e := recvFinished(t, sub1); e.Path != "/music/a.mp3" {
		t.Errorf("sub1 path = %q", e.Path)
	}
	if e := recvFinished(t, sub2); e.Path != "/music/a.mp3" {
		t.Errorf("sub2 path = %q", e.Path)
	}
}

func TestFinished_RecordsHistory(t *testing.T) {
	hist, err := history.OpenPath(filepath.Join(t.TempDir(), "ripple.db"))
	if err != nil {
		t.Fatal(err)
	}
	engine := newFakeEngine()
	svc := newTestService(t, engine, hist, nil)
	sub := svc.Subscribe()

	engine.finished <- "/music/a.mp3"
	recvFinished(t, sub)

	plays, err := svc.RecentPlays(10)
	if err != nil {
		t.Fatalf("RecentPlays: %v", err)
	}
	if len(plays) != 1 || plays[0].Path != "/music/a.mp3" {
		t.Errorf("RecentPlays() = %v, want one play of /music/a.mp3", plays)
	}
}

type recordingNotifier struct {
	bodies chan string
}

func (r *recordingNotifier) Notify(n notify.Notification) (uint32, error) {
	r.bodies <- n.Body
	return 1, nil
}

func (r *recordingNotifier) Close(uint32) error { return nil }

func TestFinished_SendsNotification(t *testing.T) {
	engine := newFakeEngine()
	notifier := &recordingNotifier{bodies: make(chan string, 1)}
	svc := newTestService(t, engine, nil, notifier)
	defer svc.Close()

	engine.finished <- "/music/album/song.mp3"

	select {
	case body := <-notifier.bodies:
		if body != "song.mp3" {
			t.Errorf("notification body = %q, want song.mp3", body)
		}
	case <-time.After(time.Second):
		t.Fatal("no notification sent")
	}
}

func TestStop_Delegates(t *testing.T) {
	engine := newFakeEngine()
	svc := newTestService(t, engine, nil, nil)

	svc.Play("/music/a.mp3")
	svc.Stop()

	if engine.stops == 0 {
		t.Error("Stop did not reach the engine")
	}
	if svc.IsPlaying() {
		t.Error("IsPlaying() = true after Stop")
	}
	if _, ok := svc.CurrentPath(); ok {
		t.Error("CurrentPath set after Stop")
	}
}

func TestFavorites_RoundTrip(t *testing.T) {
	svc := newTestService(t, newFakeEngine(), nil, nil)

	if err := svc.AddFavorite("/music/a.mp3"); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	got, err := svc.ListFavorites()
	if err != nil {
		t.Fatalf("ListFavorites: %v", err)
	}
	if len(got) != 1 || got[0] != "/music/a.mp3" {
		t.Errorf("ListFavorites() = %v", got)
	}

	if err := svc.RemoveFavorite("/music/a.mp3"); err != nil {
		t.Fatalf("RemoveFavorite: %v", err)
	}
	got, _ = svc.ListFavorites()
	if len(got) != 0 {
		t.Errorf("ListFavorites() after remove = %v", got)
	}
}

func TestListAudioFiles_InvalidDir(t *testing.T) {
	svc := newTestService(t, newFakeEngine(), nil, nil)

	if _, err := svc.ListAudioFiles("/nonexistent"); !errors.Is(err, files.ErrInvalidDir) {
		t.Errorf("error = %v, want ErrInvalidDir", err)
	}
}

func TestRecentPlays_NoHistoryStore(t *testing.T) {
	svc := newTestService(t, newFakeEngine(), nil, nil)

	plays, err := svc.RecentPlays(10)
	if err != nil {
		t.Fatalf("RecentPlays: %v", err)
	}
	if len(plays) != 0 {
		t.Errorf("RecentPlays() = %v, want empty", plays)
	}
}

func TestClose_StopsEngineAndSubscriptions(t *testing.T) {
	engine := newFakeEngine()
	favs := favorites.NewStore(filepath.Join(t.TempDir(), "favorites.json"))
	svc := New(engine, favs, nil, nil)
	sub := svc.Subscribe()

	if err := svc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if engine.stops == 0 {
		t.Error("Close did not stop the engine")
	}
	select {
	case <-sub.Done:
	case <-time.After(time.Second):
		t.Fatal("subscription Done not closed")
	}

	if err := svc.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close error = %v, want ErrClosed", err)
	}
}
