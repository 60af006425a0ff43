// Package store holds the committed annotation state. Every change goes
// through Dispatch, which runs the reducer, records undo history for
// annotation edits and notifies subscribers in subscription order.
package store

import (
	"errors"
	"sync"

	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/logger"
	"github.com/philipparndt/golabel/internal/reducer"
	"github.com/philipparndt/golabel/internal/state"
)

// DefaultHistoryLimit bounds the number of undo steps
const DefaultHistoryLimit = 100

// ErrReentrantDispatch is returned when a subscriber dispatches while
// being notified
var ErrReentrantDispatch = errors.New("dispatch called from a subscriber")

// Listener receives the state after each committed change
type Listener func(state.State)

type subscription struct {
	id       int
	listener Listener
}

// Store is the single source of truth for the annotation state
type Store struct {
	mu        sync.Mutex
	present   state.State
	past      []state.Task
	future    []state.Task
	limit     int
	subs      []subscription
	nextSubID int
	notifying bool
}

// Option configures a Store
type Option func(*Store)

// WithHistoryLimit sets the maximum number of undo steps. Values below
// one disable history.
func WithHistoryLimit(n int) Option {
	return func(s *Store) {
		s.limit = max(n, 0)
	}
}

// New creates a store holding the given state
func New(initial state.State, opts ...Option) *Store {
	s := &Store{present: initial, limit: DefaultHistoryLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the committed state
func (s *Store) State() state.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.present
}

// Subscribe registers a listener and returns a function removing it
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subs = append(s.subs, subscription{id: id, listener: l})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Dispatch applies an action. On error the state and history are left
// untouched and no subscriber is called.
func (s *Store) Dispatch(a action.Action) error {
	s.mu.Lock()
	if s.notifying {
		s.mu.Unlock()
		return ErrReentrantDispatch
	}
	next, err := reducer.Reduce(s.present, a)
	if err != nil {
		s.mu.Unlock()
		logger.Logger().Error("rejected action", "error", err)
		return err
	}
	if action.Undoable(a) {
		s.push(s.present.Task)
		s.future = nil
	}
	s.present = next
	logger.Logger().Debug("dispatch", "action", a.Type(), "history", len(s.past))
	s.notifyLocked()
	return nil
}

func (s *Store) push(t state.Task) {
	if s.limit == 0 {
		return
	}
	s.past = append(s.past, t)
	if len(s.past) > s.limit {
		s.past = append([]state.Task(nil), s.past[len(s.past)-s.limit:]...)
	}
}

// CanUndo reports whether an undo step is available
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.past) > 0
}

// CanRedo reports whether a redo step is available
func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.future) > 0
}

// Undo restores the previous annotation state. It reports false when
// there is nothing to undo.
func (s *Store) Undo() (bool, error) {
	s.mu.Lock()
	if s.notifying {
		s.mu.Unlock()
		return false, ErrReentrantDispatch
	}
	if len(s.past) == 0 {
		s.mu.Unlock()
		return false, nil
	}
	prev := s.past[len(s.past)-1]
	s.past = s.past[:len(s.past)-1]
	s.future = append(s.future, s.present.Task)
	s.present = restore(s.present, prev)
	s.notifyLocked()
	return true, nil
}

// Redo reapplies the last undone annotation state
func (s *Store) Redo() (bool, error) {
	s.mu.Lock()
	if s.notifying {
		s.mu.Unlock()
		return false, ErrReentrantDispatch
	}
	if len(s.future) == 0 {
		s.mu.Unlock()
		return false, nil
	}
	next := s.future[len(s.future)-1]
	s.future = s.future[:len(s.future)-1]
	s.push(s.present.Task)
	s.present = restore(s.present, next)
	s.notifyLocked()
	return true, nil
}

// restore swaps in a historic task. The task config and the load status
// of items are not annotation edits and stay current.
func restore(current state.State, t state.Task) state.State {
	t.Config = current.Task.Config
	items := append([]state.Item(nil), t.Items...)
	for i := range items {
		if i >= len(current.Task.Items) {
			break
		}
		cur := current.Task.Items[i]
		items[i].Loaded = cur.Loaded
		items[i].Width = cur.Width
		items[i].Height = cur.Height
		items[i].ViewerConfig = cur.ViewerConfig
	}
	t.Items = items
	current.Task = t
	current.User.Select = pruneSelection(current.User.Select, items)
	return current
}

// pruneSelection drops selected labels that no longer exist
func pruneSelection(sel state.Select, items []state.Item) state.Select {
	labels := make(map[int][]int, len(sel.Labels))
	for idx, ids := range sel.Labels {
		if idx < 0 || idx >= len(items) {
			continue
		}
		var kept []int
		for _, id := range ids {
			if _, ok := items[idx].Labels[id]; ok {
				kept = append(kept, id)
			}
		}
		if len(kept) > 0 {
			labels[idx] = kept
		}
	}
	sel.Labels = labels
	return sel
}

// notifyLocked calls the subscribers with the lock released. Listeners
// removed during notification are still called for this round.
func (s *Store) notifyLocked() {
	st := s.present
	subs := append([]subscription(nil), s.subs...)
	s.notifying = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.notifying = false
		s.mu.Unlock()
	}()
	for _, sub := range subs {
		sub.listener(st)
	}
}
