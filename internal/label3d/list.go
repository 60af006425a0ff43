package label3d

import (
	"slices"

	"github.com/philipparndt/golabel/internal/gizmo"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/pkg/geometry"
)

// List mirrors the 3D labels of the current item as a scene graph. Boxes
// standing on a plane are children of the plane node and the selected
// labels are children of a group node driven by the gizmo.
type List struct {
	labels    map[int]Label
	byNode    map[int]Label
	itemIndex int
	st        state.State

	root    *Node
	group   *Node
	members []int
	control *gizmo.TransformationControl
}

// NewList creates an empty list. control may be nil.
func NewList(control *gizmo.TransformationControl) *List {
	if control == nil {
		control = gizmo.NewTransformationControl()
	}
	return &List{
		labels:    map[int]Label{},
		byNode:    map[int]Label{},
		itemIndex: -1,
		root:      NewNode(),
		group:     NewNode(),
		control:   control,
	}
}

func (l *List) State() state.State                    { return l.st }
func (l *List) ItemIndex() int                        { return l.itemIndex }
func (l *List) Root() *Node                           { return l.root }
func (l *List) Group() *Node                          { return l.group }
func (l *List) Control() *gizmo.TransformationControl { return l.control }

// Get returns a label by id
func (l *List) Get(id int) (Label, bool) {
	lb, ok := l.labels[id]
	return lb, ok
}

// LabelFromNode returns the label owning a node
func (l *List) LabelFromNode(n *Node) (Label, bool) {
	if n == nil {
		return nil, false
	}
	lb, ok := l.byNode[n.ID()]
	return lb, ok
}

// Labels returns the labels ordered by id
func (l *List) Labels() []Label {
	ids := make([]int, 0, len(l.labels))
	for id := range l.labels {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]Label, len(ids))
	for i, id := range ids {
		out[i] = l.labels[id]
	}
	return out
}

// Selected returns the members of the selection group ordered by id
func (l *List) Selected() []Label {
	out := make([]Label, 0, len(l.members))
	for _, id := range l.members {
		if lb, ok := l.labels[id]; ok {
			out = append(out, lb)
		}
	}
	return out
}

// Plane returns the ground plane of the item, if there is one
func (l *List) Plane() (*Plane3D, bool) {
	for _, lb := range l.Labels() {
		if p, ok := lb.(*Plane3D); ok {
			return p, true
		}
	}
	return nil, false
}

// Raycast returns the nearest label hit by ray
func (l *List) Raycast(ray geometry.Ray) (Label, float64, bool) {
	var best Label
	bestT := 0.0
	for _, lb := range l.Labels() {
		t, ok := lb.Raycast(ray)
		if !ok || (best != nil && t >= bestT) {
			continue
		}
		best, bestT = lb, t
	}
	return best, bestT, best != nil
}

// BoundingBox returns the world bounds of the selected labels
func (l *List) BoundingBox() geometry.BoundingBox {
	return bounds(l.Selected())
}

func bounds(labels []Label) geometry.BoundingBox {
	b := geometry.NewBoundingBox()
	for _, lb := range labels {
		switch v := lb.(type) {
		case *Box3D:
			for _, c := range v.cube.Corners() {
				b.Extend(c)
			}
		default:
			b.Extend(lb.Node().WorldTransform().Position)
		}
	}
	return b
}

func newLabel(labelType string) Label {
	switch labelType {
	case state.LabelBox3D:
		return NewBox3D()
	case state.LabelPlane3D:
		return NewPlane3D()
	}
	return nil
}

// UpdateState syncs the scene graph with a new state. Labels are a cache
// keyed by id: orphans are dropped, new ids get new nodes and the rest
// are reloaded in place.
func (l *List) UpdateState(st state.State) {
	l.st = st
	item, ok := st.CurrentItem()
	if !ok {
		item = state.Item{Index: -1}
	}
	if item.Index != l.itemIndex {
		for id := range l.labels {
			l.drop(id)
		}
		l.itemIndex = item.Index
		l.members = nil
	}

	l.dissolveGroup()
	for id, lb := range l.labels {
		if stored, ok := item.Labels[id]; !ok || stored.Type != lb.Kind() {
			l.drop(id)
		}
	}
	for _, id := range item.SortedLabelIDs() {
		lb, ok := l.labels[id]
		if !ok {
			lb = newLabel(item.Labels[id].Type)
			if lb == nil {
				continue
			}
			l.labels[id] = lb
			l.byNode[lb.Node().ID()] = lb
		}
		lb.UpdateState(st, item.Index, id)
	}
	l.parentLabels()
	l.buildGroup(st.SelectedLabelIDs())
}

func (l *List) drop(id int) {
	lb, ok := l.labels[id]
	if !ok {
		return
	}
	n := lb.Node()
	n.Detach()
	for _, c := range slices.Clone(n.Children()) {
		c.Detach()
	}
	delete(l.byNode, n.ID())
	delete(l.labels, id)
}

// dissolveGroup moves the members out of the group. Their local
// transforms are reloaded from state afterwards.
func (l *List) dissolveGroup() {
	for _, c := range slices.Clone(l.group.Children()) {
		c.Detach()
	}
	l.group.Detach()
}

// parentLabels hangs planes off the root and boxes off their surface
func (l *List) parentLabels() {
	for _, lb := range l.Labels() {
		if p, ok := lb.(*Plane3D); ok {
			l.root.Add(p.Node())
		}
	}
	for _, lb := range l.Labels() {
		b, ok := lb.(*Box3D)
		if !ok {
			continue
		}
		if sid := b.cube.surfaceID; sid >= 0 {
			if p, ok := l.labels[sid].(*Plane3D); ok {
				p.AttachLabel(b)
				continue
			}
		}
		b.setSurface(nil)
		l.root.Add(b.Node())
	}
}

// buildGroup puts the selected labels under the group node and attaches
// the gizmo. A single label hands its own transform to the group. Several
// labels share a pivot at the centre of their bounds and keep the group
// transform while the selection stays the same.
func (l *List) buildGroup(selected []int) {
	ids := make([]int, 0, len(selected))
	for _, id := range selected {
		if _, ok := l.labels[id]; ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)
	unchanged := slices.Equal(ids, l.members)
	l.members = ids

	for _, lb := range l.labels {
		lb.SetSelected(false)
	}
	if len(ids) == 0 {
		l.group.SetTransform(geometry.IdentityTransform())
		l.control.Detach()
		return
	}

	members := l.Selected()
	for _, lb := range members {
		lb.SetSelected(true)
	}
	l.root.Add(l.group)

	if len(members) == 1 {
		lb := members[0]
		l.group.SetTransform(lb.Node().WorldTransform())
		l.group.Add(lb.Node())
		lb.Node().SetTransform(geometry.IdentityTransform())
		l.control.AllowScale(lb.Kind() == state.LabelBox3D)
	} else {
		if !unchanged {
			t := geometry.IdentityTransform()
			t.Position = bounds(members).Center()
			l.group.SetTransform(t)
		}
		for _, lb := range members {
			l.group.Attach(lb.Node())
		}
		l.control.AllowScale(false)
	}
	l.control.Attach(l.group)
}
