package tinyvecdb

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// entry is the process-wide state for one open database file. dimensions
// is guarded by mu with a short critical section per access. Each
// Connection keeps a pointer to its entry for its whole lifetime; the
// entry stays in the registry while any Connection references it.
//
// mu does NOT serialize mutations against each other: spec.md §5 puts
// that burden on the host executor ("the engine...must not be called
// concurrently for the same file"). flock, held by withLock for the
// duration of a mutation, only guards against a second OS process
// touching the same path.
type entry struct {
	mu         sync.RWMutex
	path       string
	dimensions uint32
	refs       int
	lock       *flock.Flock // nil when advisory locking is disabled
}

// registry is the process-wide path -> entry map, protected by a short-
// held mutex around lookup/insert/remove (spec.md §4.1, §5).
type registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

var globalRegistry = &registry{entries: make(map[string]*entry)}

// resolve returns the canonical absolute path used as the registry key.
func resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: resolve path %q: %v", ErrIO, path, err)
	}
	return abs, nil
}

// open returns the shared entry for path, creating the file and/or the
// entry if needed. requestedDims is only honored when the file is
// brand new; an existing file's committed dimensions always win
// (spec.md §4.1).
func (r *registry) open(path string, requestedDims uint32, cfg Config) (*entry, error) {
	abs, err := resolve(path)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if e, ok := r.entries[abs]; ok {
		e.refs++
		r.mu.Unlock()
		return e, nil
	}
	r.mu.Unlock()

	cleanupStaleTemp(abs)

	if _, err := os.Stat(abs); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: stat %s: %v", ErrIO, abs, err)
		}
		if err := createFile(abs, requestedDims); err != nil {
			return nil, err
		}
	}

	h, err := readHeader(abs)
	if err != nil {
		return nil, err
	}

	e := &entry{path: abs, dimensions: h.Dimensions, refs: 1}
	if !cfg.DisableAdvisoryLock {
		e.lock = flock.New(abs + ".lock")
	}

	r.mu.Lock()
	if existing, ok := r.entries[abs]; ok {
		existing.refs++
		r.mu.Unlock()
		return existing, nil
	}
	r.entries[abs] = e
	r.mu.Unlock()

	return e, nil
}

// refresh re-reads path's header after a successful mutation has
// atomically swapped the file, and commits a first-write dimension
// upgrade (0 -> N) atomically and one-shot (spec.md §4.1).
func (r *registry) refresh(path string) error {
	abs, err := resolve(path)
	if err != nil {
		return err
	}

	r.mu.Lock()
	e, ok := r.entries[abs]
	r.mu.Unlock()
	if !ok {
		return nil
	}

	h, err := readHeader(abs)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.dimensions = h.Dimensions
	e.mu.Unlock()
	return nil
}

// close drops the entry for path; safe to call on an absent path.
func (r *registry) close(path string) error {
	abs, err := resolve(path)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[abs]
	if !ok {
		return nil
	}
	e.refs--
	if e.refs <= 0 {
		delete(r.entries, abs)
	}
	return nil
}

// dims returns the entry's current committed dimension count.
func (e *entry) dims() uint32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dimensions
}

// withLock runs fn while holding the entry's advisory cross-process
// lock, if enabled. It does not hold e.mu: fn is free to call e.dims()
// or trigger a registry refresh (both of which take e.mu themselves)
// without deadlocking.
func (e *entry) withLock(fn func() error) error {
	if e.lock == nil {
		return fn()
	}
	locked, err := e.lock.TryLock()
	if err != nil {
		return fmt.Errorf("%w: advisory lock %s: %v", ErrIO, e.path, err)
	}
	if !locked {
		return fmt.Errorf("%w: %s is locked by another process", ErrIO, e.path)
	}
	defer e.lock.Unlock()

	return fn()
}
