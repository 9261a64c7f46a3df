package watcher

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"twixsite/config"
	"twixsite/favicon"
)

// Regenerator rebuilds the favicon set
type Regenerator interface {
	Run() (*favicon.Report, error)
}

// Watcher regenerates assets when the source SVG changes
type Watcher struct {
	cfg         *config.Config
	source      string
	regenerator Regenerator
	watcher     *fsnotify.Watcher
	events      chan Event

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool

	// runMu keeps regenerations from overlapping
	runMu sync.Mutex
}

// Event reports the outcome of one regeneration
type Event struct {
	Path   string
	Report *favicon.Report
	Err    error
}

// NewWatcher creates a watcher for the configured source under root
func NewWatcher(cfg *config.Config, root string, regenerator Regenerator) (*Watcher, error) {
	source, err := filepath.Abs(cfg.SourcePath(root))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source path: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		cfg:         cfg,
		source:      source,
		regenerator: regenerator,
		watcher:     fsWatcher,
		events:      make(chan Event, 16),
	}, nil
}

// Start begins monitoring the source directory.
// The directory is watched rather than the file so editors that replace the file are seen.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.source)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch folder %s: %w", dir, err)
	}
	log.Printf("Watching %s for changes", w.source)

	go w.processEvents()

	return nil
}

func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != w.source {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}

			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

// schedule debounces bursts of writes into a single regeneration
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.cfg.Debounce(), w.regenerate)
}

func (w *Watcher) regenerate() {
	w.runMu.Lock()
	log.Printf("🔄 Source changed, regenerating favicons: %s", w.source)
	report, err := w.regenerator.Run()
	w.runMu.Unlock()
	if err != nil {
		log.Printf("Failed to regenerate favicons: %v", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}

	select {
	case w.events <- Event{Path: w.source, Report: report, Err: err}:
	default:
		log.Printf("Dropping watcher event, channel full")
	}
}

// Events returns the regeneration event channel
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop stops the watcher and cancels any pending regeneration
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.events)
	w.mu.Unlock()

	return w.watcher.Close()
}
