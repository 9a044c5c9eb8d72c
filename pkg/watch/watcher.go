// Package watch monitors a directory for incoming taxonomy ZIP files.
package watch

import (
	"fmt"
	"strings"
	"sync"

	"gopkg.in/fsnotify.v1"
)

// Handler is invoked with the path of each newly arrived taxonomy ZIP.
type Handler func(path string)

// Watcher watches a directory and hands new ZIP files to a handler. A file
// is reported once per arrival: create and the first subsequent write both
// map to the same arrival.
type Watcher struct {
	dir     string
	handler Handler

	mu       sync.Mutex
	seen     map[string]bool
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
}

// NewWatcher creates a watcher for the given directory.
func NewWatcher(dir string, handler Handler) *Watcher {
	return &Watcher{
		dir:     dir,
		handler: handler,
		seen:    make(map[string]bool),
	}
}

// Start begins watching. It returns once the directory is registered; events
// are handled on a background goroutine until Stop is called.
func (w *Watcher) Start() error {
	if w.dir == "" {
		return fmt.Errorf("no directory configured for watching")
	}
	if w.handler == nil {
		return fmt.Errorf("no handler configured")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	w.watcher = watcher
	w.stopChan = make(chan struct{})

	go w.watchLoop()

	if err := watcher.Add(w.dir); err != nil {
		w.watcher.Close()
		return fmt.Errorf("watching directory %s: %w", w.dir, err)
	}

	return nil
}

// watchLoop handles file system events.
func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if !IsTaxonomyZip(event.Name) {
				continue
			}

			switch {
			case event.Op&fsnotify.Create == fsnotify.Create:
				w.handleArrival(event.Name)

			case event.Op&fsnotify.Write == fsnotify.Write:
				w.handleArrival(event.Name)

			case event.Op&fsnotify.Remove == fsnotify.Remove,
				event.Op&fsnotify.Rename == fsnotify.Rename:
				w.forget(event.Name)
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// handleArrival reports a ZIP path once per arrival.
func (w *Watcher) handleArrival(path string) {
	w.mu.Lock()
	already := w.seen[path]
	w.seen[path] = true
	w.mu.Unlock()

	if already {
		return
	}
	w.handler(path)
}

// forget clears the seen marker so a re-created file is reported again.
func (w *Watcher) forget(path string) {
	w.mu.Lock()
	delete(w.seen, path)
	w.mu.Unlock()
}

// Stop stops watching.
func (w *Watcher) Stop() {
	if w.stopChan != nil {
		close(w.stopChan)
	}
	if w.watcher != nil {
		w.watcher.Close()
	}
}

// IsTaxonomyZip reports whether the path names a ZIP file.
func IsTaxonomyZip(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".zip")
}
