package renderer

import (
	"sync"

	"github.com/spaghettifunk/anima-gl/engine/core"
)

type managed interface {
	comparable
	handle() *Resource
	destroy(backend GraphicsBackend)
}

/**
 * @brief Registry shared by the shader, program and texture managers. It
 * keeps at most one live resource per content key and counts owners
 * explicitly. The mutex only guards the map and the owner counters; GPU work
 * happens outside of it.
 */
type manager[R managed] struct {
	name    string
	backend GraphicsBackend

	mu      sync.Mutex
	entries map[uint64]R
	// handed out but not reachable by key, e.g. after a relink collided with
	// another resource's key
	detached map[R]struct{}
	// released resources waiting for the render goroutine to destroy them
	garbage []R

	beforeDestroy func(R)
}

func newManager[R managed](name string, backend GraphicsBackend) manager[R] {
	return manager[R]{
		name:    name,
		backend: backend,
		entries:  make(map[uint64]R),
		detached: make(map[R]struct{}),
	}
}

// create returns the live resource registered under key or registers the
// one built by construct. Either way the caller becomes an owner.
func (m *manager[R]) create(key uint64, construct func() R) R {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.entries[key]; ok {
		r.handle().owners++
		return r
	}
	r := construct()
	h := r.handle()
	h.key = key
	h.owners = 1
	m.entries[key] = r
	return r
}

// Remove erases the entry of r. It is a no-op when r is not registered,
// including when a newer resource took over its key.
func (m *manager[R]) Remove(r R) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(r)
}

func (m *manager[R]) removeLocked(r R) {
	key := r.handle().key
	if cur, ok := m.entries[key]; ok && cur == r {
		delete(m.entries, key)
	}
	delete(m.detached, r)
}

// rekeyLocked moves r to key. When another resource owns key, r is kept as
// detached so All, Release and Shutdown still reach it.
func (m *manager[R]) rekeyLocked(r R, key uint64) {
	m.removeLocked(r)
	r.handle().key = key
	if cur, taken := m.entries[key]; taken && cur != r {
		m.detached[r] = struct{}{}
		return
	}
	m.entries[key] = r
}

// Acquire registers one more owner of r.
func (m *manager[R]) Acquire(r R) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.handle().owners++
}

// Release drops one owner of r. When the last owner is gone the entry is
// erased and the GPU object is queued for destruction; true is returned.
// Safe to call from any goroutine, destruction happens in Collect.
func (m *manager[R]) Release(r R) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	h := r.handle()
	core.Assert(h.owners > 0, "%s: releasing %s without owners", m.name, h)
	h.owners--
	if h.owners > 0 {
		return false
	}
	m.removeLocked(r)
	m.garbage = append(m.garbage, r)
	return true
}

// Owners returns how many owners r currently has.
func (m *manager[R]) Owners(r R) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return r.handle().owners
}

// Collect destroys the resources released since the last call. Render
// goroutine only.
func (m *manager[R]) Collect() int {
	m.mu.Lock()
	garbage := m.garbage
	m.garbage = nil
	m.mu.Unlock()

	for _, r := range garbage {
		m.destroy(r)
	}
	return len(garbage)
}

// All returns the registered resources in no particular order.
func (m *manager[R]) All() []R {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]R, 0, len(m.entries)+len(m.detached))
	for _, r := range m.entries {
		all = append(all, r)
	}
	for r := range m.detached {
		all = append(all, r)
	}
	return all
}

func (m *manager[R]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Shutdown destroys every resource the manager still knows about.
func (m *manager[R]) Shutdown() {
	m.mu.Lock()
	all := m.garbage
	for _, r := range m.entries {
		all = append(all, r)
	}
	for r := range m.detached {
		all = append(all, r)
	}
	m.entries = make(map[uint64]R)
	m.detached = make(map[R]struct{})
	m.garbage = nil
	m.mu.Unlock()

	for _, r := range all {
		m.destroy(r)
	}
	if len(all) > 0 {
		core.LogDebug("%s: destroyed %d resources", m.name, len(all))
	}
}

// fail records err on r, evicts it from the registry and releases whatever
// GPU objects were created before the failure. Only a debug line is logged,
// reporting err is left to the caller.
func (m *manager[R]) fail(r R, err error) error {
	m.Remove(r)
	return m.discard(r, err)
}

// discard releases the GPU objects of r and records err, keeping r registered.
func (m *manager[R]) discard(r R, err error) error {
	m.destroy(r)
	r.handle().markFailed(err)
	core.LogDebug("%s: realization of %s failed: %s", m.name, r.handle().ID(), err)
	return err
}

func (m *manager[R]) destroy(r R) {
	if m.beforeDestroy != nil {
		m.beforeDestroy(r)
	}
	r.destroy(m.backend)
}

func (m *manager[R]) assertRealizable(r R) {
	h := r.handle()
	core.Assert(!h.IsValid(), "%s: resource %s is already valid", m.name, h)
}
