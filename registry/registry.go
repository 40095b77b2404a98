// Package registry holds the process-wide current Index slot described in
// spec.md §5: at most one Index at a time, install/replace guarded by a
// mutex, readers taking a refcounted handle at query entry so a concurrent
// Open doesn't unmap memory an in-flight query is still reading.
package registry

import (
	"sync"

	"github.com/loglens/loglens/errkind"
	"github.com/loglens/loglens/index"
)

// Registry is a single current-Index slot. The zero value is ready to use.
// The package-level Default registry backs engine.Default; engine.New and
// the tests construct their own with New() to avoid cross-test interference.
type Registry struct {
	mu  sync.Mutex
	cur *index.Index
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

// Default is the process-wide registry used by the engine facade.
var Default = New()

// Install replaces the current Index with idx, releasing the registry's own
// reference to whatever index was previously installed. In-flight queries
// that already Acquired the old index keep it alive until they Release it.
func (r *Registry) Install(idx *index.Index) {
	r.mu.Lock()
	prev := r.cur
	r.cur = idx
	r.mu.Unlock()

	if prev != nil {
		prev.Release()
	}
}

// Acquire returns a refcounted handle to the current Index, or ErrNoIndex if
// nothing has been opened yet. Callers must Release the handle when done.
func (r *Registry) Acquire() (*index.Index, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cur == nil {
		return nil, errkind.NoIndex()
	}
	return r.cur.Acquire(), nil
}
