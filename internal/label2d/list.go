package label2d

import (
	"errors"

	"github.com/philipparndt/golabel/internal/draw2d"
	"github.com/philipparndt/golabel/internal/picking"
	"github.com/philipparndt/golabel/internal/state"
)

// List mirrors the labels of the current item. It is a cache keyed by
// label id: labels are created, updated and dropped to match the state.
type List struct {
	labels    map[int]Label
	ordered   []Label
	itemIndex int
	loaded    bool
	st        state.State
	tags      *draw2d.TagRenderer
	templates map[string]state.LabelTemplate
}

// NewList creates an empty list. tags may be nil.
func NewList(tags *draw2d.TagRenderer) *List {
	return &List{
		labels:    map[int]Label{},
		itemIndex: -1,
		tags:      tags,
		templates: map[string]state.LabelTemplate{},
	}
}

// State returns the state of the last update
func (l *List) State() state.State { return l.st }

// ItemIndex returns the mirrored item
func (l *List) ItemIndex() int { return l.itemIndex }

// Loaded reports whether the mirrored item can be drawn and picked
func (l *List) Loaded() bool { return l.loaded }

// Labels returns the labels in draw order
func (l *List) Labels() []Label { return l.ordered }

// Get returns a label by id
func (l *List) Get(id int) (Label, bool) {
	lb, ok := l.labels[id]
	return lb, ok
}

// At returns the label with the given control index
func (l *List) At(index int) (Label, bool) {
	if index < 0 || index >= len(l.ordered) {
		return nil, false
	}
	return l.ordered[index], true
}

// Selected returns the selected labels in draw order
func (l *List) Selected() []Label {
	var out []Label
	for _, lb := range l.ordered {
		if lb.Selected() {
			out = append(out, lb)
		}
	}
	return out
}

// Template returns the custom label template of a label type
func (l *List) Template(labelType string) (state.LabelTemplate, bool) {
	t, ok := l.templates[labelType]
	return t, ok
}

func (l *List) newLabel(labelType string) Label {
	switch labelType {
	case state.LabelBox2D:
		return NewBox2D()
	case state.LabelTag:
		return NewTag2D(l.tags)
	}
	if t, ok := l.templates[labelType]; ok {
		return NewCustom2D(t)
	}
	return nil
}

// UpdateState syncs the list with a new state
func (l *List) UpdateState(st state.State) {
	l.st = st
	l.templates = make(map[string]state.LabelTemplate, len(st.Task.Config.CustomLabels))
	for _, t := range st.Task.Config.CustomLabels {
		l.templates[t.Name] = t
	}

	item, ok := st.CurrentItem()
	if !ok {
		l.labels = map[int]Label{}
		l.ordered = nil
		l.loaded = false
		return
	}
	if item.Index != l.itemIndex {
		l.labels = map[int]Label{}
		l.itemIndex = item.Index
	}
	l.loaded = item.Loaded

	for id, lb := range l.labels {
		if stored, ok := item.Labels[id]; !ok || stored.Type != lb.Kind() {
			delete(l.labels, id)
		}
	}
	ordered := make([]Label, 0, len(item.Labels))
	for _, id := range item.SortedLabelIDs() {
		lb, ok := l.labels[id]
		if !ok {
			lb = l.newLabel(item.Labels[id].Type)
			if lb == nil {
				continue
			}
			l.labels[id] = lb
		}
		lb.UpdateState(st, item.Index, id)
		lb.SetIndex(len(ordered))
		ordered = append(ordered, lb)
	}
	l.ordered = ordered
}

// Draw paints the label layer and the control layer. extra is an
// unsaved label being drawn and may be nil. Nothing is drawn until the
// item is loaded.
func (l *List) Draw(view draw2d.Canvas, control picking.Buffer, ratio float64, hideLabels bool, extra Label) error {
	if control != nil {
		control.Clear()
	}
	if !l.loaded || hideLabels {
		return nil
	}
	labels := l.ordered
	if extra != nil {
		extra.SetIndex(len(labels))
		labels = append(labels[:len(labels):len(labels)], extra)
	}
	var errs []error
	if view != nil {
		for _, lb := range labels {
			errs = append(errs, lb.Draw(view, ratio, draw2d.ModeView))
		}
	}
	if control != nil {
		control.Draw(func(c draw2d.Canvas) {
			for _, lb := range labels {
				errs = append(errs, lb.Draw(c, ratio, draw2d.ModeControl))
			}
		})
	}
	return errors.Join(errs...)
}
