package track

import (
	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/state"
)

// Duplicate copies an edited label to every later label of its track
type Duplicate struct{}

func (Duplicate) Type() string { return TypeDuplicate }

func (Duplicate) OnLabelCreated(st state.State, itemIndex int, label state.Label, shapes []state.Shape) []action.Action {
	return createTrack(TypeDuplicate, st, itemIndex, label, shapes)
}

func (Duplicate) OnLabelUpdated(st state.State, tr state.Track, itemIndex int) []action.Action {
	ms := members(st, tr)
	var source *member
	for i := range ms {
		if ms[i].item == itemIndex {
			source = &ms[i]
		}
	}
	if source == nil {
		return nil
	}
	var b changeBuilder
	for _, m := range ms {
		if m.item <= itemIndex || len(m.shapes) != len(source.shapes) {
			continue
		}
		b.add(m.item, m.shapes, copyPatches(source.shapes))
	}
	return b.actions()
}
