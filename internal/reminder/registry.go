package reminder

import (
	"sync"
	"sync/atomic"
)

type registration struct {
	handle     Handle
	generation uint64
}

// Registry maps each user to their single live timer.
// The mutex only guards the map; handles are cancelled after it is released.
type Registry struct {
	mu      sync.Mutex
	entries map[int64]registration
	nextGen atomic.Uint64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[int64]registration)}
}

// NextGeneration returns a fresh, never reused generation number.
func (r *Registry) NextGeneration() uint64 {
	return r.nextGen.Add(1)
}

// Install stores handle as the user's live timer, cancelling the previous one.
func (r *Registry) Install(userID int64, generation uint64, handle Handle) {
	r.mu.Lock()
	prev, ok := r.entries[userID]
	r.entries[userID] = registration{handle: handle, generation: generation}
	r.mu.Unlock()

	if ok && prev.handle != nil {
		prev.handle.Cancel()
	}
}

// Remove cancels and forgets the user's timer. It reports whether one existed.
func (r *Registry) Remove(userID int64) bool {
	r.mu.Lock()
	prev, ok := r.entries[userID]
	delete(r.entries, userID)
	r.mu.Unlock()

	if ok && prev.handle != nil {
		prev.handle.Cancel()
	}
	return ok
}

// Current reports whether generation is the user's live timer.
func (r *Registry) Current(userID int64, generation uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[userID]
	return ok && entry.generation == generation
}

// Len returns the number of live timers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// CancelAll cancels and forgets every timer.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[int64]registration)
	r.mu.Unlock()

	for _, entry := range entries {
		if entry.handle != nil {
			entry.handle.Cancel()
		}
	}
}
