// Package watch refreshes the dashboard when the repository changes
// underneath it.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces the event bursts git produces on checkout, commit,
// and fetch into a single refresh.
const debounceWindow = 250 * time.Millisecond

// Watcher observes the .git directory and emits one signal per settled burst
// of changes.
type Watcher struct {
	fs     *fsnotify.Watcher
	events chan struct{}
	done   chan struct{}

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

// New starts watching the repository at root. Events arrive on Events after
// the debounce window elapses.
func New(root string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fs:     fs,
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	gitDir := filepath.Join(root, ".git")
	for _, p := range []string{gitDir, filepath.Join(gitDir, "refs", "heads")} {
		// Missing paths are fine: a bare-ish layout still gets HEAD events.
		_ = fs.Add(p)
	}

	go w.loop()
	return w, nil
}

// Events delivers one value per settled change burst. The channel has a
// buffer of one; an unconsumed signal absorbs later ones.
func (w *Watcher) Events() <-chan struct{} { return w.events }

// Close stops watching and releases the fsnotify handle.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case _, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.trigger()
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the manual refresh key still works.
		}
	}
}

// trigger schedules an emit after the debounce window, replacing any pending
// one. Only the most recently scheduled emit fires.
func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seq++
	seq := w.seq

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceWindow, func() {
		w.mu.Lock()
		stale := seq != w.seq
		w.mu.Unlock()
		if stale {
			return
		}
		select {
		case w.events <- struct{}{}:
		default:
		}
	})
}
