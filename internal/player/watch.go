package player

import "time"

// watch polls the sink until it reports empty, then decides whether the
// emptiness means "this track finished". Empty can equally mean the engine
// was stopped or another track replaced this one; only a watcher whose
// generation still matches the engine's may claim the finish. The losing
// watcher exits silently.
func (p *Player) watch(path string, gen uint64) {
	ticker := time.NewTicker(p.poll)
	defer ticker.Stop()

	for range ticker.C {
		p.mu.Lock()
		// A missing sink counts as empty: Stop may have raced ahead of
		// the first poll.
		if p.sink != nil && !p.sink.Empty() {
			p.mu.Unlock()
			continue
		}

		current := p.generation == gen
		if current {
			// Clear the path so no later check can match this play again.
			p.currentPath = ""
			p.trackInfo = nil
		}
		p.mu.Unlock()

		if current {
			p.emitFinished(path)
		}
		return
	}
}

func (p *Player) emitFinished(path string) {
	select {
	case p.finishedCh <- path:
	default:
	}
	if fn := p.onFinished; fn != nil {
		fn(path)
	}
}
