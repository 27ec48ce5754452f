package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fxamacker/cbor/v2"

	"github.com/gdtoolkit/sema/internal/golog"
)

// Store persists CBOR-encoded entries of type T on disk, keyed by
// Fingerprint, with an in-memory index published via compare-and-swap
// on a single atomic.Pointer: readers never block on a writer, and every
// published map is an immutable snapshot.
type Store[T any] struct {
	dir   string
	index atomic.Pointer[map[Fingerprint]T]
	log   *golog.Logger
}

// NewStore opens (creating if necessary) a Store rooted at dir.
func NewStore[T any](dir string) (*Store[T], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create %s: %w", dir, err)
	}
	s := &Store[T]{dir: dir, log: golog.Default}
	empty := make(map[Fingerprint]T)
	s.index.Store(&empty)
	return s, nil
}

func (s *Store[T]) path(fp Fingerprint) string {
	return filepath.Join(s.dir, fp.String()+".cbor")
}

// Get returns the entry for fp, first checking the in-memory index and
// falling back to the on-disk file (populating the index from it on a
// hit). It never re-derives the entry itself — a miss here always
// means "not cached", not "absent from the project".
func (s *Store[T]) Get(fp Fingerprint) (T, bool) {
	var zero T
	if idx := s.index.Load(); idx != nil {
		if v, ok := (*idx)[fp]; ok {
			return v, true
		}
	}
	data, err := os.ReadFile(s.path(fp))
	if err != nil {
		return zero, false
	}
	var v T
	if err := cbor.Unmarshal(data, &v); err != nil {
		s.log.Warnf("cache: corrupt entry %s, discarding: %v", fp, err)
		return zero, false
	}
	s.publish(fp, v)
	return v, true
}

// Put writes v to disk under fp and publishes it into the in-memory
// index.
func (s *Store[T]) Put(fp Fingerprint, v T) error {
	data, err := cbor.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: encode entry %s: %w", fp, err)
	}
	if err := os.WriteFile(s.path(fp), data, 0o644); err != nil {
		return fmt.Errorf("cache: write entry %s: %w", fp, err)
	}
	s.publish(fp, v)
	return nil
}

// Invalidate drops fp from the in-memory index and deletes its file.
// Nothing else in this module calls it; project.Watcher rescans without
// touching a Store.
func (s *Store[T]) Invalidate(fp Fingerprint) {
	for {
		old := s.index.Load()
		if old == nil {
			return
		}
		if _, ok := (*old)[fp]; !ok {
			if err := os.Remove(s.path(fp)); err != nil && !os.IsNotExist(err) {
				s.log.Warnf("cache: remove %s: %v", fp, err)
			}
			return
		}
		next := make(map[Fingerprint]T, len(*old))
		for k, val := range *old {
			if k != fp {
				next[k] = val
			}
		}
		if s.index.CompareAndSwap(old, &next) {
			if err := os.Remove(s.path(fp)); err != nil && !os.IsNotExist(err) {
				s.log.Warnf("cache: remove %s: %v", fp, err)
			}
			return
		}
	}
}

func (s *Store[T]) publish(fp Fingerprint, v T) {
	for {
		old := s.index.Load()
		var oldLen int
		if old != nil {
			oldLen = len(*old)
		}
		next := make(map[Fingerprint]T, oldLen+1)
		if old != nil {
			for k, val := range *old {
				next[k] = val
			}
		}
		next[fp] = v
		if s.index.CompareAndSwap(old, &next) {
			return
		}
	}
}
