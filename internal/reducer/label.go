package reducer

import (
	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/state"
)

// allocateLabel assigns ids to a new label and its shapes and stores
// them in the item. Label shape references are indices into shapes.
func allocateLabel(item *state.Item, status *state.TaskStatus, label state.Label, shapes []state.Shape) state.Label {
	label = state.CloneLabel(label)
	status.MaxLabelID++
	label.ID = status.MaxLabelID
	label.Item = item.Index
	status.MaxOrder++
	label.Order = status.MaxOrder
	if label.Attributes == nil {
		label.Attributes = map[int][]int{}
	}
	if label.Category == nil {
		label.Category = []int{}
	}

	ids := make([]int, len(shapes))
	for i, sh := range shapes {
		sh = state.CloneShape(sh)
		status.MaxShapeID++
		sh.ID = status.MaxShapeID
		sh.Labels = []int{label.ID}
		item.Shapes[sh.ID] = sh
		ids[i] = sh.ID
	}

	if len(label.Shapes) == 0 {
		label.Shapes = ids
	} else {
		refs := make([]int, 0, len(label.Shapes))
		for _, ref := range label.Shapes {
			if ref >= 0 && ref < len(ids) {
				refs = append(refs, ids[ref])
			}
		}
		label.Shapes = refs
	}
	item.Labels[label.ID] = label
	return label
}

func addLabels(s state.State, a action.AddLabels) (state.State, error) {
	if len(a.Labels) != len(a.ItemIndices) || len(a.Shapes) != len(a.ItemIndices) {
		return s, contractf(a, "items, labels and shapes differ in length")
	}
	for i, idx := range a.ItemIndices {
		if err := checkItem(s, a, idx); err != nil {
			return s, err
		}
		if len(a.Labels[i]) != len(a.Shapes[i]) {
			return s, contractf(a, "item %d: labels and shapes differ in length", idx)
		}
	}

	items := copyItems(s.Task.Items)
	tracks := s.Task.Tracks
	status := s.Task.Status
	tracksCopied := false
	for i, idx := range a.ItemIndices {
		item := copyItem(items[idx])
		for j, label := range a.Labels[i] {
			created := allocateLabel(&item, &status, label, a.Shapes[i][j])
			if created.Track < 0 {
				continue
			}
			tr, ok := tracks[created.Track]
			if !ok {
				continue
			}
			if !tracksCopied {
				tracks = copyTracks(tracks)
				tracksCopied = true
			}
			tr = copyTrack(tr)
			tr.Labels[idx] = created.ID
			tracks[tr.ID] = tr
		}
		items[idx] = item
	}

	s.Task.Items = items
	s.Task.Tracks = tracks
	s.Task.Status = status
	return s, nil
}

func changeShapes(s state.State, a action.ChangeShapes) (state.State, error) {
	if len(a.ShapeIDs) != len(a.ItemIndices) || len(a.Shapes) != len(a.ItemIndices) {
		return s, contractf(a, "items, shape ids and shapes differ in length")
	}
	for i, idx := range a.ItemIndices {
		if err := checkItem(s, a, idx); err != nil {
			return s, err
		}
		if len(a.ShapeIDs[i]) != len(a.Shapes[i]) {
			return s, contractf(a, "item %d: shape ids and shapes differ in length", idx)
		}
	}

	items := copyItems(s.Task.Items)
	for i, idx := range a.ItemIndices {
		var item *state.Item
		for j, id := range a.ShapeIDs[i] {
			shape, ok := items[idx].Shapes[id]
			if !ok {
				// stale reference, the shape was deleted
				continue
			}
			if item == nil {
				copied := copyItem(items[idx])
				item = &copied
			}
			item.Shapes[id] = shape.Apply(a.Shapes[i][j])
		}
		if item != nil {
			items[idx] = *item
		}
	}
	s.Task.Items = items
	return s, nil
}

func changeLabels(s state.State, a action.ChangeLabels) (state.State, error) {
	if len(a.LabelIDs) != len(a.ItemIndices) || len(a.Props) != len(a.ItemIndices) {
		return s, contractf(a, "items, label ids and props differ in length")
	}
	for i, idx := range a.ItemIndices {
		if err := checkItem(s, a, idx); err != nil {
			return s, err
		}
		if len(a.LabelIDs[i]) != len(a.Props[i]) {
			return s, contractf(a, "item %d: label ids and props differ in length", idx)
		}
	}

	items := copyItems(s.Task.Items)
	for i, idx := range a.ItemIndices {
		var item *state.Item
		for j, id := range a.LabelIDs[i] {
			label, ok := items[idx].Labels[id]
			if !ok {
				continue
			}
			if item == nil {
				copied := copyItem(items[idx])
				item = &copied
			}
			item.Labels[id] = label.Apply(a.Props[i][j])
		}
		if item != nil {
			items[idx] = *item
		}
	}
	s.Task.Items = items
	return s, nil
}

// removeLabel deletes a label and the shapes it owns exclusively from an
// item that the caller has already copied. It reports whether the label
// existed.
func removeLabel(item *state.Item, labelID int) (state.Label, bool) {
	label, ok := item.Labels[labelID]
	if !ok {
		return state.Label{}, false
	}
	delete(item.Labels, labelID)
	for _, shapeID := range label.Shapes {
		shape, ok := item.Shapes[shapeID]
		if !ok {
			continue
		}
		owners := without(shape.Labels, labelID)
		if len(owners) == 0 {
			delete(item.Shapes, shapeID)
			continue
		}
		shape.Labels = owners
		item.Shapes[shapeID] = shape
	}
	return label, true
}

func deselect(sel state.Select, itemIndex, labelID int) state.Select {
	ids, ok := sel.Labels[itemIndex]
	if !ok || !contains(ids, labelID) {
		return sel
	}
	labels := make(map[int][]int, len(sel.Labels))
	for k, v := range sel.Labels {
		labels[k] = v
	}
	labels[itemIndex] = without(ids, labelID)
	sel.Labels = labels
	return sel
}

func deleteLabels(s state.State, a action.DeleteLabels) (state.State, error) {
	if len(a.LabelIDs) != len(a.ItemIndices) {
		return s, contractf(a, "items and label ids differ in length")
	}
	for _, idx := range a.ItemIndices {
		if err := checkItem(s, a, idx); err != nil {
			return s, err
		}
	}

	items := copyItems(s.Task.Items)
	tracks := copyTracks(s.Task.Tracks)
	sel := s.User.Select
	for i, idx := range a.ItemIndices {
		item := copyItem(items[idx])
		for _, id := range a.LabelIDs[i] {
			label, ok := removeLabel(&item, id)
			if !ok {
				continue
			}
			sel = deselect(sel, idx, id)
			tr, ok := tracks[label.Track]
			if !ok || tr.Labels[idx] != id {
				continue
			}
			tr = copyTrack(tr)
			delete(tr.Labels, idx)
			if len(tr.Labels) == 0 {
				delete(tracks, tr.ID)
			} else {
				tracks[tr.ID] = tr
			}
		}
		items[idx] = item
	}

	s.Task.Items = items
	s.Task.Tracks = tracks
	s.User.Select = sel
	return s, nil
}
