package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	debounceDelay   = 50 * time.Millisecond
	eventBufferSize = 8
)

// Watcher notifies subscribers when the state file changes on disk, so a
// long-running view (the TUI) can reload state written by another
// process. The parent directory is watched rather than the file itself
// because saves replace the file via rename.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher

	mu       sync.Mutex
	subs     []chan struct{}
	debounce *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher for the given state file path. The parent
// directory is created if it doesn't exist.
func NewWatcher(path string) (*Watcher, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:    path,
		watcher: fsw,
		ctx:     ctx,
		cancel:  cancel,
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Watch returns a channel that receives a signal whenever the state file
// changes. The subscription ends when ctx is done or the watcher closes.
func (w *Watcher) Watch(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{}, eventBufferSize)

	w.mu.Lock()
	w.subs = append(w.subs, ch)
	w.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			w.unsubscribe(ch)
		case <-w.ctx.Done():
			// Close() cleans up all subscriber channels.
		}
	}()

	return ch
}

// Close stops watching and closes all subscriber channels.
func (w *Watcher) Close() error {
	w.cancel()

	w.mu.Lock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
	for _, ch := range w.subs {
		close(ch)
	}
	w.subs = nil
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) unsubscribe(ch chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, sub := range w.subs {
		if sub == ch {
			w.subs = append(w.subs[:i], w.subs[i+1:]...)
			close(ch)
			break
		}
	}
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// handleEvent debounces bursts of filesystem events for the state file
// into a single notification.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(debounceDelay, w.broadcast)
}

func (w *Watcher) broadcast() {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.ctx.Done():
		return
	default:
	}

	for _, ch := range w.subs {
		select {
		case ch <- struct{}{}:
		default:
			// Subscriber is lagging; it will reload on the next signal.
		}
	}
}
