// Package watch provides debounced file watching for the viewer's live
// reload of the viewed file and its configuration.
package watch

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned when using a closed watcher.
var ErrClosed = errors.New("watch: watcher closed")

// Event signals that a watched file changed on disk.
type Event struct {
	// Path is the absolute path of the changed file.
	Path string

	// Removed is true when the file was deleted or renamed away.
	Removed bool
}

// Watcher watches individual files and delivers debounced change events.
// Rapid write bursts (editors saving via rename, chunked writes) coalesce
// into a single event.
type Watcher struct {
	mu     sync.Mutex
	fsw    *fsnotify.Watcher
	files  map[string]bool
	closed bool

	debounce time.Duration
	pending  map[string]*time.Timer

	events chan Event
	errs   chan error
	done   chan struct{}
	wg     sync.WaitGroup
}

// New creates a watcher with the given debounce window. A zero or negative
// debounce delivers events immediately.
func New(debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		debounce: debounce,
		pending:  make(map[string]*time.Timer),
		events:   make(chan Event, 16),
		errs:     make(chan error, 4),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Watch adds a file to the watch set. The file's directory is watched so
// that rename-based saves are observed.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.files[abs] {
		return nil
	}
	if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	w.files[abs] = true
	return nil
}

// Events returns the change event channel.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher and releases its resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, t := range w.pending {
		t.Stop()
	}
	close(w.done)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// loop converts fsnotify events into debounced file events.
func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

// handle dispatches one fsnotify event for a tracked file.
func (w *Watcher) handle(ev fsnotify.Event) {
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	tracked := w.files[abs]
	w.mu.Unlock()
	if !tracked {
		return
	}

	removed := ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename)
	if !removed && !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
		return
	}

	if w.debounce <= 0 {
		w.emit(Event{Path: abs, Removed: removed})
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if t, ok := w.pending[abs]; ok {
		t.Stop()
	}
	event := Event{Path: abs, Removed: removed}
	w.pending[abs] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, abs)
		closed := w.closed
		w.mu.Unlock()
		if !closed {
			w.emit(event)
		}
	})
}

// emit delivers an event, dropping it if the channel is full.
func (w *Watcher) emit(ev Event) {
	select {
	case w.events <- ev:
	default:
	}
}
