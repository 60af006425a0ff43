package gui

import (
	"slices"

	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/state"
)

// categoryActions selects a category for new labels and moves the
// selected labels into it
func categoryActions(st state.State, name string) []action.Action {
	c := slices.Index(st.Task.Config.Categories, name)
	if c < 0 {
		return nil
	}
	item := st.User.Select.Item
	selected := st.SelectedLabelIDs()
	actions := []action.Action{action.SelectLabels{Item: item, LabelIDs: selected, Category: &c}}

	var ids []int
	var props []state.LabelPatch
	for _, id := range selected {
		lb, ok := st.Task.Items[item].Labels[id]
		if !ok || slices.Equal(lb.Category, []int{c}) {
			continue
		}
		ids = append(ids, id)
		props = append(props, state.LabelPatch{Category: []int{c}})
	}
	if len(ids) > 0 {
		actions = append(actions, action.ChangeLabels{
			ItemIndices: []int{item},
			LabelIDs:    [][]int{ids},
			Props:       [][]state.LabelPatch{props},
		})
	}
	return actions
}

// labelTypeAction selects the label type drawn by new gestures
func labelTypeAction(st state.State, name string) (action.Action, bool) {
	t := slices.Index(st.Task.Config.LabelTypes, name)
	if t < 0 || t == st.User.Select.LabelType {
		return nil, false
	}
	sel := st.User.Select
	return action.SelectLabels{Item: sel.Item, LabelIDs: st.SelectedLabelIDs(), LabelType: &t}, true
}
