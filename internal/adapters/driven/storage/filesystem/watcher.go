package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/notevault/internal/core/ports/driven"
	"github.com/custodia-labs/notevault/internal/logger"
)

// DefaultDebounce is used when Watch is given a non-positive delay.
const DefaultDebounce = 250 * time.Millisecond

// Ensure Watcher implements the interface.
var _ driven.NoteWatcher = (*Watcher)(nil)

// Watcher turns raw fsnotify events into debounced note events. A path that
// changes repeatedly within the debounce window yields a single event whose
// kind reflects whether the file exists when the window closes.
type Watcher struct {
	store    *Store
	fsw      *fsnotify.Watcher
	debounce time.Duration
	log      logger.Component

	events chan driven.NoteEvent
	errors chan error
	fire   chan string

	mu     sync.Mutex
	timers map[string]*time.Timer

	// dirs and notes are the watched directories and the notes known to
	// exist, as vault paths. Only the loop goroutine touches them once it
	// has started.
	dirs  map[string]struct{}
	notes map[string]struct{}

	done      chan struct{}
	exited    chan struct{}
	closeOnce sync.Once
}

// Watch starts watching the vault root and every non-hidden subdirectory.
func (s *Store) Watch(debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		store:    s,
		fsw:      fsw,
		debounce: debounce,
		log:      logger.For("watch"),
		events:   make(chan driven.NoteEvent, 16),
		errors:   make(chan error, 4),
		fire:     make(chan string),
		timers:   make(map[string]*time.Timer),
		dirs:     make(map[string]struct{}),
		notes:    make(map[string]struct{}),
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
	}

	if err := w.addDirs(s.root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add directories to watcher: %w", err)
	}

	go w.loop()
	return w, nil
}

// Events returns debounced note events. Closed after Close.
func (w *Watcher) Events() <-chan driven.NoteEvent {
	return w.events
}

// Errors returns watcher errors. Closed after Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops watching and discards pending events.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		for p, t := range w.timers {
			t.Stop()
			delete(w.timers, p)
		}
		w.mu.Unlock()
		err = w.fsw.Close()
		<-w.exited
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.exited)
	defer close(w.errors)
	defer close(w.events)

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
			w.log.Warn("watcher error: %v", err)
			select {
			case w.errors <- err:
			default:
			}
		case path := <-w.fire:
			w.flush(path)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	rel, ok := w.store.rel(ev.Name)
	if !ok || hiddenPath(rel) {
		return
	}

	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		if _, ok := w.dirs[rel]; ok {
			w.dropTree(rel)
			return
		}
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			// Files may land in a new directory before it is watched.
			if err := w.addDirs(ev.Name); err != nil {
				w.log.Warn("watch %s: %v", rel, err)
			}
			w.scheduleTree(ev.Name)
			return
		}
	}

	if !w.store.accepts(filepath.Base(ev.Name)) {
		return
	}
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}
	w.schedule(rel)
}

// schedule starts or restarts the debounce timer for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.done:
		return
	default:
	}

	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		select {
		case w.fire <- path:
		case <-w.done:
		}
	})
}

// flush emits the settled state of path.
func (w *Watcher) flush(path string) {
	w.mu.Lock()
	delete(w.timers, path)
	w.mu.Unlock()

	kind := driven.NoteChanged
	if _, err := os.Stat(filepath.Join(w.store.root, filepath.FromSlash(path))); errors.Is(err, fs.ErrNotExist) {
		kind = driven.NoteRemoved
		delete(w.notes, path)
	} else {
		w.notes[path] = struct{}{}
	}
	w.log.Debug("%s %s", kind, path)

	select {
	case w.events <- driven.NoteEvent{Kind: kind, Path: path}:
	case <-w.done:
	}
}

func (w *Watcher) scheduleTree(dir string) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !w.store.accepts(d.Name()) {
			return nil
		}
		if rel, ok := w.store.rel(path); ok && !hiddenPath(rel) {
			w.schedule(rel)
		}
		return nil
	})
}

// dropTree handles a watched directory that was removed or moved away.
// Its notes vanish without events of their own, so each known note under
// it is rescheduled and flushes as removed once the directory is gone.
func (w *Watcher) dropTree(dir string) {
	prefix := dir + "/"
	for d := range w.dirs {
		if d == dir || strings.HasPrefix(d, prefix) {
			delete(w.dirs, d)
			_ = w.fsw.Remove(filepath.Join(w.store.root, filepath.FromSlash(d)))
		}
	}
	for note := range w.notes {
		if strings.HasPrefix(note, prefix) {
			w.schedule(note)
		}
	}
}

// addDirs recursively adds directories to the watcher, skipping hidden dirs,
// and records the notes found on the way.
func (w *Watcher) addDirs(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}
		if path != w.store.root && hidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, ok := w.store.rel(path)
		if !ok || path == w.store.root {
			if d.IsDir() {
				return w.fsw.Add(path)
			}
			return nil
		}
		if !d.IsDir() {
			if w.store.accepts(d.Name()) {
				w.notes[rel] = struct{}{}
			}
			return nil
		}
		w.dirs[rel] = struct{}{}
		return w.fsw.Add(path)
	})
}

func hiddenPath(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if hidden(part) {
			return true
		}
	}
	return false
}
