package session

import "sync"

// Watcher merges the two independently polled finished flags into a single
// completion event. The two polls race freely; whichever seat's observation
// arrives last triggers the callback, and only the first both-true
// observation triggers it at all.
type Watcher struct {
	mu     sync.Mutex
	done   [2]bool
	fired  bool
	onBoth func()
}

// NewWatcher creates a watcher firing onBoth exactly once.
func NewWatcher(onBoth func()) *Watcher {
	return &Watcher{onBoth: onBoth}
}

// Observe records the latest finished flag for a seat. A true observation is
// sticky: the backend's finished flag is monotone, so a stale false read
// never un-finishes a seat.
func (w *Watcher) Observe(slot Slot, finished bool) {
	w.mu.Lock()
	i := 0
	if slot == Slot2 {
		i = 1
	}
	w.done[i] = w.done[i] || finished
	fire := !w.fired && w.done[0] && w.done[1]
	if fire {
		w.fired = true
	}
	w.mu.Unlock()

	if fire && w.onBoth != nil {
		w.onBoth()
	}
}

// Fired reports whether the completion event has been emitted.
func (w *Watcher) Fired() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fired
}
