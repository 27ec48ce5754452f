package project

import (
	"io/fs"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gdtoolkit/sema/internal/golog"
)

// debounceWindow coalesces bursts of filesystem events (editors routinely
// emit several writes per save) into a single rescan.
const debounceWindow = 150 * time.Millisecond

// Watcher rescans a project root on filesystem change and publishes the
// resulting Snapshot via an atomic.Pointer. The watch loop is the only
// writer, so it publishes with a plain Store rather than the
// compare-and-swap loop cache.Store uses for its index.
type Watcher struct {
	root string

	current atomic.Pointer[Snapshot]

	fsw       *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
	log       *golog.Logger
}

// Watch scans root once, starts watching its directory tree, and returns
// a Watcher whose Current snapshot is refreshed on every subsequent
// create/write/remove/rename of a ".gd" file. Callers must call Close
// when done.
func Watch(root string) (*Watcher, error) {
	snap, err := Scan(root)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := addRecursive(fsw, root); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{root: root, fsw: fsw, done: make(chan struct{}), log: golog.Default}
	w.current.Store(snap)

	go w.loop()
	return w, nil
}

// Current returns the most recently published Snapshot.
func (w *Watcher) Current() *Snapshot {
	return w.current.Load()
}

// Close stops the underlying filesystem watch. It is safe to call more
// than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounceWindow)
			}
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warnf("project: watch %s: %v", w.root, err)
		case <-fire:
			fire = nil
			w.rescan()
		}
	}
}

func (w *Watcher) rescan() {
	snap, err := Scan(w.root)
	if err != nil {
		w.log.Warnf("project: rescan %s: %v", w.root, err)
		return
	}
	if err := addRecursive(w.fsw, w.root); err != nil {
		w.log.Warnf("project: re-register watches under %s: %v", w.root, err)
	}
	w.current.Store(snap)
}

func relevant(event fsnotify.Event) bool {
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename)
}

func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return walkDirs(root, func(dir string) error {
		return fsw.Add(dir)
	})
}

func walkDirs(root string, fn func(dir string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return fn(path)
	})
}
