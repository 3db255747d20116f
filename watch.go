// FILE: lixenwraith/cascade/watch.go
package cascade

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// DefaultDebounce is the coalescence period for bursts of file events,
// so an editor's write-then-rename sequence triggers one reload.
const DefaultDebounce = 500 * time.Millisecond

// ReloadEvent reports one watcher-applied reload of a backing file.
// Err is non-nil when the file could not be re-read; the in-memory
// config is left untouched in that case.
type ReloadEvent struct {
	Path string
	Err  error
}

// Watch starts reload-on-change for the backing file with the default
// debounce. Watching is strictly opt-in: no goroutine exists until the
// first call. The watcher directory is created if missing.
//
// The returned channel receives one event per applied reload until ctx
// is cancelled. Reload runs on the watcher goroutine; callers that also
// touch this config from other goroutines must synchronize externally.
func (f *FileConfig) Watch(ctx context.Context) (<-chan ReloadEvent, error) {
	return f.WatchWithDebounce(ctx, DefaultDebounce)
}

// WatchWithDebounce is Watch with a custom debounce period.
func (f *FileConfig) WatchWithDebounce(ctx context.Context, debounce time.Duration) (<-chan ReloadEvent, error) {
	if f.watcher == nil {
		w, err := newFileWatcher(f, debounce)
		if err != nil {
			return nil, err
		}
		f.watcher = w
		go w.run()
	}

	token := uuid.NewString()
	ch := f.watcher.subscribe(token)

	watcher := f.watcher
	go func() {
		<-ctx.Done()
		watcher.unsubscribe(token)
	}()

	return ch, nil
}

// StopWatch stops the file watcher, if any, and closes all subscriber
// channels.
func (f *FileConfig) StopWatch() {
	if f.watcher != nil {
		f.watcher.stop()
		f.watcher = nil
	}
}

// fileWatcher wraps fsnotify for a single backing file. It watches the
// containing directory rather than the file itself so atomic
// temp-and-rename saves are observed across inode swaps.
type fileWatcher struct {
	fc       *FileConfig
	path     string
	debounce time.Duration
	fsw      *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once

	mu   sync.Mutex
	subs map[string]chan ReloadEvent
}

func newFileWatcher(fc *FileConfig, debounce time.Duration) (*fileWatcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	dir := filepath.Dir(fc.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create watch directory '%s': %w", dir, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch directory '%s': %w", dir, err)
	}

	return &fileWatcher{
		fc:       fc,
		path:     filepath.Clean(fc.path),
		debounce: debounce,
		fsw:      fsw,
		done:     make(chan struct{}),
		subs:     make(map[string]chan ReloadEvent),
	}, nil
}

func (w *fileWatcher) subscribe(token string) chan ReloadEvent {
	w.mu.Lock()
	defer w.mu.Unlock()
	ch := make(chan ReloadEvent, 1)
	w.subs[token] = ch
	return ch
}

func (w *fileWatcher) unsubscribe(token string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ch, ok := w.subs[token]; ok {
		delete(w.subs, token)
		close(ch)
	}
}

func (w *fileWatcher) stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.fsw.Close()
		w.mu.Lock()
		defer w.mu.Unlock()
		for token, ch := range w.subs {
			delete(w.subs, token)
			close(ch)
		}
	})
}

// notify delivers without blocking; a subscriber that hasn't drained its
// buffered event simply misses the intermediate one.
func (w *fileWatcher) notify(ev ReloadEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ch := range w.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (w *fileWatcher) run() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			err := w.fc.Reload()
			w.notify(ReloadEvent{Path: w.path, Err: err})

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.notify(ReloadEvent{Path: w.path, Err: err})
		}
	}
}
