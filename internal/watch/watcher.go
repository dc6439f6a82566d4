// Package watch reports changes made to the project directory by other
// programs, so the explorer can refresh the affected directories.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"edshell/internal/log"
	"edshell/pkg/pathutil"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before pending changes are delivered
const DefaultDebounce = 200 * time.Millisecond

// Change lists the entries of one directory touched within a debounce window
type Change struct {
	Dir       string
	Paths     []string
	Timestamp time.Time
}

// Watcher monitors a directory tree using fsnotify. fsnotify only watches
// single directories, so every directory of the tree is added on its own
// and new ones are picked up as they appear.
type Watcher struct {
	// Directories being watched
	directories map[string]bool

	// Skip reports entry names whose directories are not watched
	skip func(name string) bool

	debounce time.Duration

	// Channel delivering coalesced changes
	changes chan Change

	stopChan chan struct{}
	done     chan struct{}

	fsWatcher *fsnotify.Watcher

	// Guards directories and running
	mutex sync.RWMutex

	running bool
	stopped bool
}

// New creates a watcher. A debounce of zero uses DefaultDebounce; skip may
// be nil.
func New(debounce time.Duration, skip func(name string) bool) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		directories: map[string]bool{},
		skip:        skip,
		debounce:    debounce,
		changes:     make(chan Change, 64),
		stopChan:    make(chan struct{}),
		done:        make(chan struct{}),
		fsWatcher:   fsWatcher,
	}, nil
}

// AddDirectory watches a single directory
func (w *Watcher) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	dir = filepath.Clean(dir)
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.directories[dir] {
		return nil
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}
	w.directories[dir] = true
	log.LogWithFields(log.F("directory", dir)).Debug("watching directory")
	return nil
}

// AddTree watches root and every directory beneath it. Directories that
// cannot be read are logged and skipped; symlinks are not followed.
func (w *Watcher) AddTree(root string) error {
	if err := w.AddDirectory(root); err != nil {
		return err
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.LogWithFields(log.F("path", path), log.F("error", err)).Warn("not watching")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() || path == root {
			return nil
		}
		if w.skip != nil && w.skip(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.AddDirectory(path); err != nil {
			log.LogWithFields(log.F("path", path), log.F("error", err)).Warn("not watching")
		}
		return nil
	})
}

// forget drops path and everything beneath it from the watched set.
// fsnotify removes the watches itself when a directory goes away.
func (w *Watcher) forget(path string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	for dir := range w.directories {
		if pathutil.HasPrefix(dir, path) {
			delete(w.directories, dir)
		}
	}
}

// Changes returns the channel that delivers coalesced directory changes.
// It is closed by Stop.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start begins the event loop
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return fmt.Errorf("watcher already running")
	}
	if w.stopped {
		return fmt.Errorf("watcher has been stopped")
	}
	w.running = true

	go w.loop()
	log.Debug("watcher started")
	return nil
}

func (w *Watcher) loop() {
	defer close(w.done)

	pending := map[string][]string{}
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				w.flush(pending)
				return
			}
			if !w.accept(event) {
				continue
			}
			dir := filepath.Dir(event.Name)
			pending[dir] = appendUnique(pending[dir], event.Name)
			timer.Reset(w.debounce)
			fire = timer.C

		case <-fire:
			w.flush(pending)
			pending = map[string][]string{}
			fire = nil

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-w.stopChan:
			timer.Stop()
			return
		}
	}
}

// accept filters an event and keeps the watched set in step with the
// directories it creates or removes.
func (w *Watcher) accept(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if w.skip != nil && w.skip(filepath.Base(event.Name)) {
		return false
	}
	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
			if err := w.AddTree(event.Name); err != nil {
				log.LogWithFields(log.F("path", event.Name), log.F("error", err)).Warn("not watching new directory")
			}
		}
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.forget(event.Name)
	}
	return true
}

func (w *Watcher) flush(pending map[string][]string) {
	dirs := make([]string, 0, len(pending))
	for dir := range pending {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	now := time.Now()
	for _, dir := range dirs {
		change := Change{Dir: dir, Paths: pending[dir], Timestamp: now}
		// Never block the loop on a slow consumer
		select {
		case w.changes <- change:
		default:
			log.LogWithFields(log.F("directory", dir)).Warn("change channel is full, dropped change")
		}
	}
}

func appendUnique(paths []string, path string) []string {
	for _, p := range paths {
		if p == path {
			return paths
		}
	}
	return append(paths, path)
}

// Stop halts the event loop and closes the change channel
func (w *Watcher) Stop() {
	w.mutex.Lock()
	if w.stopped {
		w.mutex.Unlock()
		return
	}
	wasRunning := w.running
	w.running = false
	w.stopped = true
	w.mutex.Unlock()

	close(w.stopChan)
	if wasRunning {
		<-w.done
	}
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("error closing fsnotify watcher")
	}
	close(w.changes)
	log.Debug("watcher stopped")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// Directories returns the watched directories, sorted
func (w *Watcher) Directories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	dirs := make([]string, 0, len(w.directories))
	for dir := range w.directories {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}
