package store

import (
	"sync"

	"github.com/philipparndt/golabel/internal/state"
)

// FastStore mirrors the committed state and takes high frequency view
// updates, such as camera drags, that must not enter the undo history
type FastStore struct {
	mu      sync.RWMutex
	current state.State
}

// NewFastStore creates a fast store seeded with a state
func NewFastStore(initial state.State) *FastStore {
	return &FastStore{current: initial}
}

// State returns the current fast state
func (f *FastStore) State() state.State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current
}

// Update replaces the fast state with the result of fn
func (f *FastStore) Update(fn func(state.State) state.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = fn(f.current)
}

// Sync overwrites the fast state with a committed state
func (f *FastStore) Sync(st state.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = st
}
