package state

import "sort"

// Apply returns a copy of the shape with the patch applied
func (s Shape) Apply(p ShapePatch) Shape {
	out := s
	switch s.Type {
	case ShapeRect:
		if p.Rect != nil {
			r := *p.Rect
			out.Rect = &r
		}
	case ShapeVertex:
		if p.Vertex != nil {
			v := *p.Vertex
			out.Vertex = &v
		}
	case ShapeCube:
		if p.Cube != nil {
			c := *p.Cube
			out.Cube = &c
		}
	case ShapePlane:
		if p.Plane != nil {
			pl := *p.Plane
			out.Plane = &pl
		}
	case ShapePoint:
		if p.Point != nil {
			pt := *p.Point
			out.Point = &pt
		}
	}
	return out
}

// Patch returns a patch that would set every field of the shape
func (s Shape) Patch() ShapePatch {
	return ShapePatch{Rect: s.Rect, Vertex: s.Vertex, Cube: s.Cube, Plane: s.Plane, Point: s.Point}
}

// Apply returns a copy of the label with the patch applied
func (l Label) Apply(p LabelPatch) Label {
	out := l
	if p.Category != nil {
		out.Category = append([]int(nil), p.Category...)
	}
	if p.Attributes != nil {
		attrs := make(map[int][]int, len(p.Attributes))
		for k, v := range p.Attributes {
			attrs[k] = append([]int(nil), v...)
		}
		out.Attributes = attrs
	}
	if p.Manual != nil {
		out.Manual = *p.Manual
	}
	if p.Order != nil {
		out.Order = *p.Order
	}
	if p.Color != nil {
		out.Color = append([]int(nil), p.Color...)
	}
	return out
}

// LabelShapes returns the shapes of a label in label order. Missing shape
// ids are skipped.
func (it Item) LabelShapes(labelID int) []Shape {
	label, ok := it.Labels[labelID]
	if !ok {
		return nil
	}
	out := make([]Shape, 0, len(label.Shapes))
	for _, id := range label.Shapes {
		if s, ok := it.Shapes[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// SortedLabelIDs returns the label ids of the item ordered by draw order, then id
func (it Item) SortedLabelIDs() []int {
	ids := make([]int, 0, len(it.Labels))
	for id := range it.Labels {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := it.Labels[ids[i]], it.Labels[ids[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
	return ids
}

// CurrentItem returns the selected item, if it exists
func (s State) CurrentItem() (Item, bool) {
	idx := s.User.Select.Item
	if idx < 0 || idx >= len(s.Task.Items) {
		return Item{}, false
	}
	return s.Task.Items[idx], true
}

// SelectedLabelIDs returns the selected label ids of the current item
func (s State) SelectedLabelIDs() []int {
	return s.User.Select.Labels[s.User.Select.Item]
}

// IsSelected reports whether the label is selected in the current item
func (s State) IsSelected(labelID int) bool {
	for _, id := range s.SelectedLabelIDs() {
		if id == labelID {
			return true
		}
	}
	return false
}

// LabelCount returns the total number of labels over all items
func (s State) LabelCount() int {
	n := 0
	for _, it := range s.Task.Items {
		n += len(it.Labels)
	}
	return n
}
