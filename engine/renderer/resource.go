package renderer

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

/**
 * @brief State shared by every GPU object. A resource starts out invalid,
 * holding only its CPU side description, and becomes valid once its manager
 * realized it on the render goroutine.
 */
type Resource struct {
	kind  BackendKind
	id    uuid.UUID
	valid atomic.Bool
	err   error

	// guarded by the owning manager's mutex
	key    uint64
	owners int
}

func newResource(kind BackendKind) Resource {
	return Resource{kind: kind, id: uuid.New()}
}

func (r *Resource) IsValid() bool {
	return r.valid.Load()
}

// Err returns the error captured when realization failed.
func (r *Resource) Err() error {
	return r.err
}

func (r *Resource) Kind() BackendKind {
	return r.kind
}

// ID is a debug identity, stable for the lifetime of the resource.
func (r *Resource) ID() uuid.UUID {
	return r.id
}

// Key is the content key the resource is registered under.
func (r *Resource) Key() uint64 {
	return r.key
}

func (r *Resource) String() string {
	return fmt.Sprintf("%s[%s valid=%t]", r.kind, r.id.String()[:8], r.IsValid())
}

func (r *Resource) markValid() {
	r.err = nil
	r.valid.Store(true)
}

func (r *Resource) markFailed(err error) {
	r.err = err
	r.valid.Store(false)
}

func (r *Resource) markDestroyed() {
	r.valid.Store(false)
}
