package reducer

import (
	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/state"
)

func copySelection(labels map[int][]int) map[int][]int {
	out := make(map[int][]int, len(labels))
	for k, v := range labels {
		out[k] = append([]int(nil), v...)
	}
	return out
}

func selectLabels(s state.State, a action.SelectLabels) (state.State, error) {
	if err := checkItem(s, a, a.Item); err != nil {
		return s, err
	}
	item := s.Task.Items[a.Item]

	sel := s.User.Select
	var labels map[int][]int
	var ids []int
	if a.Append {
		labels = copySelection(sel.Labels)
		ids = labels[a.Item]
	} else {
		labels = map[int][]int{}
	}
	for _, id := range a.LabelIDs {
		if _, ok := item.Labels[id]; !ok || contains(ids, id) {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) > 0 {
		labels[a.Item] = ids
	} else {
		delete(labels, a.Item)
	}
	sel.Labels = labels

	if a.Category != nil {
		sel.Category = *a.Category
	}
	if a.Attributes != nil {
		attrs := make(map[int][]int, len(a.Attributes))
		for k, v := range a.Attributes {
			attrs[k] = append([]int(nil), v...)
		}
		sel.Attributes = attrs
	}
	if a.LabelType != nil {
		sel.LabelType = *a.LabelType
	}
	if a.PolicyType != nil {
		sel.PolicyType = *a.PolicyType
	}
	s.User.Select = sel
	return s, nil
}

func unselectLabels(s state.State, a action.UnselectLabels) (state.State, error) {
	if err := checkItem(s, a, a.Item); err != nil {
		return s, err
	}
	sel := s.User.Select
	for _, id := range a.LabelIDs {
		sel = deselect(sel, a.Item, id)
	}
	if ids, ok := sel.Labels[a.Item]; ok && len(ids) == 0 {
		labels := copySelection(sel.Labels)
		delete(labels, a.Item)
		sel.Labels = labels
	}
	s.User.Select = sel
	return s, nil
}
