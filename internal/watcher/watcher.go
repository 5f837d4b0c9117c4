// Package watcher provides file watching with debouncing for the watch
// and serve workflows. Rapid bursts of filesystem events for markup
// sources are grouped into a single change notification.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType represents the type of file change.
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

// String returns the string representation of the EventType.
func (e EventType) String() string {
	switch e {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	case EventTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// ChangeEvent represents one file change.
type ChangeEvent struct {
	Type    EventType
	Path    string
	ModTime time.Time
}

// FileFilter decides whether a path is interesting to the watcher.
type FileFilter func(path string) bool

// ChangeHandler receives a debounced batch of change events.
type ChangeHandler func(events []ChangeEvent) error

// MarkupFilter returns a filter accepting files with one of the given
// extensions (each including the leading dot).
func MarkupFilter(extensions []string) FileFilter {
	return func(path string) bool {
		ext := strings.ToLower(filepath.Ext(path))
		for _, want := range extensions {
			if ext == strings.ToLower(want) {
				return true
			}
		}

		return false
	}
}

// FileWatcher watches markup sources and delivers debounced change
// batches to registered handlers.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *debouncer

	mu       sync.RWMutex
	filters  []FileFilter
	handlers []ChangeHandler
}

// New creates a file watcher that groups changes arriving within the
// debounce delay into one batch.
func New(debounce time.Duration) (*FileWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &FileWatcher{
		watcher:   fsWatcher,
		debouncer: newDebouncer(debounce),
	}, nil
}

// AddFilter registers a file filter. With no filters every path matches;
// with filters a path must match at least one.
func (w *FileWatcher) AddFilter(filter FileFilter) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.filters = append(w.filters, filter)
}

// AddHandler registers a change handler.
func (w *FileWatcher) AddHandler(handler ChangeHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// AddPath watches a file or directory. Directories are watched
// recursively.
func (w *FileWatcher) AddPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return w.watcher.Add(path)
	}

	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(p)
		}

		return nil
	})
}

// Start runs the watch loop until the context is cancelled.
func (w *FileWatcher) Start(ctx context.Context) {
	go w.debouncer.run(ctx, w.dispatch)

	go func() {
		for {
			select {
			case <-ctx.Done():
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
	}()
}

// Stop closes the underlying watcher.
func (w *FileWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *FileWatcher) handleEvent(event fsnotify.Event) {
	if !w.matches(event.Name) {
		return
	}

	change := ChangeEvent{
		Type: mapEventType(event.Op),
		Path: event.Name,
	}
	if info, err := os.Stat(event.Name); err == nil {
		change.ModTime = info.ModTime()
	}

	w.debouncer.add(change)
}

func (w *FileWatcher) matches(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if len(w.filters) == 0 {
		return true
	}
	for _, filter := range w.filters {
		if filter(path) {
			return true
		}
	}

	return false
}

func (w *FileWatcher) dispatch(events []ChangeEvent) {
	w.mu.RLock()
	handlers := make([]ChangeHandler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.RUnlock()

	for _, handler := range handlers {
		// Handler errors are the handler's business; the watch loop
		// keeps running.
		_ = handler(events)
	}
}

func mapEventType(op fsnotify.Op) EventType {
	switch {
	case op.Has(fsnotify.Create):
		return EventTypeCreated
	case op.Has(fsnotify.Remove):
		return EventTypeDeleted
	case op.Has(fsnotify.Rename):
		return EventTypeRenamed
	default:
		return EventTypeModified
	}
}

// debouncer groups rapid changes into one batch per quiet period.
type debouncer struct {
	delay  time.Duration
	events chan ChangeEvent
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		events: make(chan ChangeEvent, 128),
	}
}

func (d *debouncer) add(event ChangeEvent) {
	select {
	case d.events <- event:
	default:
		// Channel full during an event storm; the batch already in
		// flight covers the change.
	}
}

func (d *debouncer) run(ctx context.Context, flush func([]ChangeEvent)) {
	var pending []ChangeEvent
	timer := time.NewTimer(d.delay)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.events:
			pending = append(pending, event)
			timer.Reset(d.delay)
		case <-timer.C:
			if len(pending) > 0 {
				flush(pending)
				pending = nil
			}
		}
	}
}
