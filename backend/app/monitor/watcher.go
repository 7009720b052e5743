// Package monitor wraps fsnotify to report changes inside a watch folder.
package monitor

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

type Op string

const (
	OpCreate Op = "create"
	OpWrite  Op = "write"
	OpRemove Op = "remove"
	OpRename Op = "rename"
)

type Event struct {
	Op        Op
	Path      string
	Timestamp time.Time
}

const eventQueueSize = 128

type Watcher struct {
	watcher    *fsnotify.Watcher
	recursive  bool
	watchedDir map[string]struct{}
	mu         sync.Mutex
	log        zerolog.Logger

	events chan Event
	stop   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewWatcher starts watching root, and its subdirectories when recursive.
func NewWatcher(root string, recursive bool, log zerolog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("watcher: root is not a directory")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher:    fw,
		recursive:  recursive,
		watchedDir: make(map[string]struct{}),
		log:        log,
		events:     make(chan Event, eventQueueSize),
		stop:       make(chan struct{}),
	}

	if recursive {
		err = w.watchRecursive(abs)
	} else {
		err = w.addWatch(abs)
	}
	if err != nil {
		_ = fw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.processEvents()
	return w, nil
}

// Events is closed after Close returns.
func (w *Watcher) Events() <-chan Event { return w.events }

func (w *Watcher) processEvents() {
	defer w.wg.Done()
	defer close(w.events)

	for {
		select {
		case <-w.stop:
			return
		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(evt)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("file watcher error")
		}
	}
}

func (w *Watcher) handleEvent(evt fsnotify.Event) {
	path := filepath.Clean(evt.Name)
	now := time.Now()

	switch {
	case evt.Op&fsnotify.Create != 0:
		w.emit(Event{Op: OpCreate, Path: path, Timestamp: now})
		if w.recursive && isDir(path) {
			if err := w.watchRecursive(path); err != nil {
				w.log.Warn().Err(err).Str("path", path).Msg("failed to watch new directory")
			}
		}
	case evt.Op&fsnotify.Write != 0:
		w.emit(Event{Op: OpWrite, Path: path, Timestamp: now})
	case evt.Op&fsnotify.Remove != 0:
		w.emit(Event{Op: OpRemove, Path: path, Timestamp: now})
		w.removeWatch(path)
	case evt.Op&fsnotify.Rename != 0:
		w.emit(Event{Op: OpRename, Path: path, Timestamp: now})
		w.removeWatch(path)
	}
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.log.Warn().Err(err).Str("path", path).Msg("failed to access")
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		return w.addWatch(path)
	})
}

func (w *Watcher) addWatch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.watchedDir[dir]; exists {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.watchedDir[dir] = struct{}{}
	return nil
}

func (w *Watcher) removeWatch(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.watchedDir[path]; ok {
		// fsnotify drops watches on removed directories by itself
		_ = w.watcher.Remove(path)
		delete(w.watchedDir, path)
	}
}

// emit never blocks; the periodic scan covers dropped events.
func (w *Watcher) emit(evt Event) {
	select {
	case w.events <- evt:
	default:
		w.log.Debug().Str("path", evt.Path).Msg("watcher backpressure, dropping event")
	}
}

func (w *Watcher) Close() error {
	var closeErr error
	w.once.Do(func() {
		close(w.stop)
		closeErr = w.watcher.Close()
	})
	w.wg.Wait()
	return closeErr
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
