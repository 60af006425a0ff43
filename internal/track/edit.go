package track

import (
	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/reducer"
	"github.com/philipparndt/golabel/internal/state"
)

// Edit extends the edit of labels on itemIndex with the propagation along
// their tracks. The policies see the state after the edit, and the result
// is one action so that undo reverts the whole track at once.
func (x *Index) Edit(st state.State, edit action.Action, itemIndex int, trackIDs []int) (action.Action, error) {
	next, err := reducer.Reduce(st, edit)
	if err != nil {
		return nil, err
	}
	x.Sync(next)

	actions := []action.Action{edit}
	seen := map[int]bool{}
	for _, id := range trackIDs {
		if id < 0 || seen[id] {
			continue
		}
		seen[id] = true
		tr, ok := next.Task.Tracks[id]
		if !ok {
			continue
		}
		for _, a := range x.Get(id).OnLabelUpdated(next, tr, itemIndex) {
			if next, err = reducer.Reduce(next, a); err != nil {
				return nil, err
			}
			actions = append(actions, a)
		}
	}
	return action.Sequence(actions...), nil
}
