// Package watch monitors a workbook and its mapping document and triggers
// regeneration whenever either changes.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config holds the watcher configuration.
type Config struct {
	// Paths are the files to watch: the input workbook and the mapping
	// document. Their parent directories are registered with the watcher so
	// editors that replace files on save are still observed.
	Paths []string
	// DebounceMs is how long to wait after the last write before
	// regenerating. Office applications fire several write events per save.
	DebounceMs int
}

// Event records one observed change and what came of it.
type Event struct {
	Time      time.Time `json:"time"`
	Path      string    `json:"path"`
	Operation string    `json:"operation"`
	Status    string    `json:"status"` // "processed", "error", "skipped"
	Error     string    `json:"error,omitempty"`
}

// Handler is called, debounced, when a watched file changes.
type Handler func(path string) error

// Watcher monitors the configured files and invokes the handler on change.
type Watcher struct {
	Config  Config
	Logger  *log.Logger
	Handler Handler

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	watched  map[string]bool
	debounce map[string]*time.Timer
	events   []Event
}

// New creates a new Watcher for the given files.
func New(config Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}

	if config.DebounceMs <= 0 {
		config.DebounceMs = 500
	}

	watched := make(map[string]bool, len(config.Paths))
	for _, p := range config.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("could not resolve %s: %w", p, err)
		}
		watched[abs] = true
	}

	return &Watcher{
		Config:   config,
		Logger:   log.New(os.Stderr, "[watch] ", log.LstdFlags),
		watcher:  fsw,
		watched:  watched,
		debounce: make(map[string]*time.Timer),
	}, nil
}

// Start begins watching. It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	dirs := make(map[string]bool)
	for path := range w.watched {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("could not watch %s: %w", dir, err)
		}
	}

	w.Logger.Printf("Watching %d file(s)", len(w.watched))

	for {
		select {
		case <-ctx.Done():
			w.Logger.Println("Stopping watcher")
			return w.watcher.Close()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Printf("Error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}

	path, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}
	if !w.matches(path) {
		return
	}

	// Debounce: wait before processing to avoid rapid fire on save.
	w.mu.Lock()
	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}
	op := event.Op.String()
	w.debounce[path] = time.AfterFunc(time.Duration(w.Config.DebounceMs)*time.Millisecond, func() {
		w.processFile(path, op)
	})
	w.mu.Unlock()
}

func (w *Watcher) processFile(path, operation string) {
	evt := Event{
		Time:      time.Now(),
		Path:      path,
		Operation: operation,
	}

	if w.Handler != nil {
		if err := w.Handler(path); err != nil {
			evt.Status = "error"
			evt.Error = err.Error()
			w.Logger.Printf("Error processing %s: %v", path, err)
		} else {
			evt.Status = "processed"
			w.Logger.Printf("Processed %s", path)
		}
	} else {
		evt.Status = "skipped"
	}

	w.mu.Lock()
	w.events = append(w.events, evt)
	w.mu.Unlock()
}

// matches reports whether a path is one of the watched files. Editor and
// Office temp files are ignored.
func (w *Watcher) matches(path string) bool {
	base := filepath.Base(path)
	if len(base) > 1 && (base[0] == '~' || base[0] == '.') {
		return false
	}
	return w.watched[path]
}

// Events returns all recorded events.
func (w *Watcher) Events() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	events := make([]Event, len(w.events))
	copy(events, w.events)
	return events
}

// Close releases the underlying file system watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
