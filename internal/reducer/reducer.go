// Package reducer computes the next state from the current state and an
// action. Reducers are pure: they never read clocks, randomness or the
// network, and never mutate their input.
package reducer

import (
	"errors"
	"fmt"

	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/state"
)

// ErrContract marks programmer errors such as malformed actions or
// references to panes that cannot exist
var ErrContract = errors.New("contract violation")

// ContractError describes a rejected action
type ContractError struct {
	Action action.Type
	Reason string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrContract, e.Action, e.Reason)
}

func (e *ContractError) Unwrap() error {
	return ErrContract
}

func contractf(a action.Action, format string, args ...any) error {
	return &ContractError{Action: a.Type(), Reason: fmt.Sprintf(format, args...)}
}

// Reduce applies an action. It returns either a new valid state or a
// ContractError, in which case the input state is still current.
func Reduce(s state.State, a action.Action) (state.State, error) {
	switch a := a.(type) {
	case action.AddLabels:
		return addLabels(s, a)
	case action.ChangeShapes:
		return changeShapes(s, a)
	case action.ChangeLabels:
		return changeLabels(s, a)
	case action.DeleteLabels:
		return deleteLabels(s, a)
	case action.SelectLabels:
		return selectLabels(s, a)
	case action.UnselectLabels:
		return unselectLabels(s, a)
	case action.AddTrack:
		return addTrack(s, a)
	case action.TerminateTrack:
		return terminateTrack(s, a)
	case action.DeleteTrack:
		return deleteTrack(s, a)
	case action.SplitPane:
		return splitPane(s, a)
	case action.DeletePane:
		return deletePane(s, a)
	case action.UpdatePane:
		return updatePane(s, a)
	case action.ChangeViewerConfig:
		return changeViewerConfig(s, a)
	case action.MoveCamera:
		return moveCamera(s, a.ViewerID, &a.Position, nil), nil
	case action.MoveCameraAndTarget:
		return moveCamera(s, a.ViewerID, &a.Position, &a.Target), nil
	case action.GoToItem:
		return goToItem(s, a)
	case action.LoadItem:
		return loadItem(s, a)
	case action.UpdateTaskConfig:
		s.Task.Config = a.Config
		return s, nil
	case action.Sequential:
		return sequential(s, a)
	case nil:
		return s, &ContractError{Action: "<nil>", Reason: "nil action"}
	default:
		return s, contractf(a, "unknown action %T", a)
	}
}

// sequential applies the actions in order. The first rejected action
// rejects the whole sequence.
func sequential(s state.State, a action.Sequential) (state.State, error) {
	next := s
	for _, sub := range a.Actions {
		var err error
		if next, err = Reduce(next, sub); err != nil {
			return s, err
		}
	}
	return next, nil
}

// copyItem returns an item with fresh label and shape maps so the
// caller can modify them without touching previous states
func copyItem(it state.Item) state.Item {
	labels := make(map[int]state.Label, len(it.Labels))
	for k, v := range it.Labels {
		labels[k] = v
	}
	shapes := make(map[int]state.Shape, len(it.Shapes))
	for k, v := range it.Shapes {
		shapes[k] = v
	}
	it.Labels = labels
	it.Shapes = shapes
	return it
}

func copyItems(items []state.Item) []state.Item {
	return append([]state.Item(nil), items...)
}

func copyTracks(tracks map[int]state.Track) map[int]state.Track {
	out := make(map[int]state.Track, len(tracks))
	for k, v := range tracks {
		out[k] = v
	}
	return out
}

func copyTrack(t state.Track) state.Track {
	labels := make(map[int]int, len(t.Labels))
	for k, v := range t.Labels {
		labels[k] = v
	}
	t.Labels = labels
	return t
}

func checkItem(s state.State, a action.Action, index int) error {
	if index < 0 || index >= len(s.Task.Items) {
		return contractf(a, "item index %d out of range [0, %d)", index, len(s.Task.Items))
	}
	return nil
}

func without(ids []int, remove int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id != remove {
			out = append(out, id)
		}
	}
	return out
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
