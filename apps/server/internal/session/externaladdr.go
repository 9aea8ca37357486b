package session

import "sync"

// ExternalAddr holds a reference to a destination actor handle that may
// not be resolved yet — e.g. a Room-protocol session whose room lookup
// is still an in-flight round trip to the Hub when the first inbound
// frame arrives. Sends issued before Bind are queued in arrival order
// and flushed once a handle is bound; Unbind drops the handle without
// touching the session itself, so a later Bind resumes delivery.
type ExternalAddr[T any] struct {
	mu      sync.Mutex
	bound   bool
	handle  T
	pending []func(T)
}

// Bind attaches handle and drains any sends queued while unbound.
func (a *ExternalAddr[T]) Bind(handle T) {
	a.mu.Lock()
	a.bound = true
	a.handle = handle
	queued := a.pending
	a.pending = nil
	a.mu.Unlock()

	for _, fn := range queued {
		fn(handle)
	}
}

// Unbind clears the handle; subsequent sends queue again until the next Bind.
func (a *ExternalAddr[T]) Unbind() {
	a.mu.Lock()
	defer a.mu.Unlock()
	var zero T
	a.bound = false
	a.handle = zero
}

// Send runs fn against the bound handle immediately, or queues it.
func (a *ExternalAddr[T]) Send(fn func(T)) {
	a.mu.Lock()
	if a.bound {
		handle := a.handle
		a.mu.Unlock()
		fn(handle)
		return
	}
	a.pending = append(a.pending, fn)
	a.mu.Unlock()
}

// Bound reports whether a handle is currently attached.
func (a *ExternalAddr[T]) Bound() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bound
}
