package label2d

import (
	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/draw2d"
	"github.com/philipparndt/golabel/internal/logger"
	"github.com/philipparndt/golabel/internal/picking"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/internal/track"
	"github.com/philipparndt/golabel/pkg/geometry"
)

// Dispatcher is the store the handler commits to
type Dispatcher interface {
	State() state.State
	Dispatch(a action.Action) error
}

// Handler turns pointer and key events in display pixels into label
// gestures. The list must be subscribed to the dispatcher so that it is
// current when a dispatch returns.
type Handler struct {
	list   *List
	store  Dispatcher
	picker picking.Buffer
	tracks *track.Index

	ratio     float64
	limit     geometry.Vector2
	editing   Label
	temp      Label
	mouseDown bool
}

// NewHandler creates a handler. tracks may be nil when tracking is not
// used.
func NewHandler(list *List, store Dispatcher, picker picking.Buffer, tracks *track.Index) *Handler {
	if tracks == nil {
		tracks = track.NewIndex(nil)
	}
	return &Handler{list: list, store: store, picker: picker, tracks: tracks, ratio: 1}
}

// SetView sets the display to image ratio and the image size in pixels
func (h *Handler) SetView(ratio, imageWidth, imageHeight float64) {
	if ratio > 0 {
		h.ratio = ratio
	}
	h.limit = geometry.NewVector2(imageWidth, imageHeight)
}

// Temp returns the unsaved label being drawn, or nil
func (h *Handler) Temp() Label { return h.temp }

// Editing returns the label under the current gesture, or nil
func (h *Handler) Editing() Label { return h.editing }

// Redraw paints the list and the unsaved label
func (h *Handler) Redraw(view draw2d.Canvas, hideLabels bool) error {
	return h.list.Draw(view, h.picker, h.ratio, hideLabels, h.temp)
}

func (h *Handler) toImage(x, y float64) geometry.Vector2 {
	return geometry.NewVector2(x/h.ratio, y/h.ratio)
}

func (h *Handler) pick(x, y float64) (Label, int) {
	if h.picker == nil {
		return nil, -1
	}
	idx, handle := h.picker.Pick(int(x), int(y))
	lb, ok := h.list.At(idx)
	if !ok {
		return nil, -1
	}
	return lb, handle
}

// OnMouseDown starts a gesture at display position x, y
func (h *Handler) OnMouseDown(x, y float64, mods Modifiers) error {
	if !h.list.Loaded() {
		return nil
	}
	st := h.store.State()
	item := st.User.Select.Item
	pt := h.toImage(x, y)
	h.mouseDown = true

	if lb, handle := h.pick(x, y); lb != nil && lb.Kind() != state.LabelTag {
		additive := mods.Ctrl || mods.Meta
		if !lb.Selected() || additive {
			sel := action.SelectLabels{Item: item, LabelIDs: []int{lb.ID()}, Append: additive}
			if cat := lb.State().Category; len(cat) > 0 {
				c := cat[0]
				sel.Category = &c
			}
			if err := h.store.Dispatch(sel); err != nil {
				return err
			}
			// the list rebuilt during the dispatch
			if lb, _ = h.list.Get(lb.ID()); lb == nil {
				return nil
			}
		}
		if lb.OnMouseDown(pt, handle) {
			h.editing = lb
		}
		return nil
	}

	if len(st.SelectedLabelIDs()) > 0 {
		if err := h.store.Dispatch(action.DeselectAll(item)); err != nil {
			return err
		}
		st = h.store.State()
	}
	h.temp = h.newTemp(st, pt)
	h.editing = h.temp
	return nil
}

func (h *Handler) newTemp(st state.State, pt geometry.Vector2) Label {
	types := st.Task.Config.LabelTypes
	i := st.User.Select.LabelType
	if i < 0 || i >= len(types) {
		return nil
	}
	switch types[i] {
	case state.LabelBox2D:
		return NewTempBox2D(st, pt)
	}
	if t, ok := h.list.Template(types[i]); ok {
		return NewTempCustom2D(st, t, pt)
	}
	return nil
}

// OnMouseMove updates the gesture or the hover highlight and returns the
// cursor to show
func (h *Handler) OnMouseMove(x, y float64) string {
	if !h.list.Loaded() {
		return "default"
	}
	if h.mouseDown && h.editing != nil {
		h.editing.OnMouseMove(h.toImage(x, y), h.limit)
		return h.editing.Cursor()
	}
	hovered, handle := h.pick(x, y)
	for _, lb := range h.list.Labels() {
		if lb == hovered {
			lb.Highlight(handle)
		} else {
			lb.Highlight(-1)
		}
	}
	if hovered != nil {
		return hovered.Cursor()
	}
	return "crosshair"
}

// OnMouseUp ends the gesture and commits it with a single action
func (h *Handler) OnMouseUp(x, y float64) error {
	h.mouseDown = false
	lb := h.editing
	h.editing = nil
	if lb == nil {
		return nil
	}
	isTemp := lb == h.temp
	h.temp = nil
	lb.OnMouseUp(h.toImage(x, y))
	a := lb.Commit()
	if a == nil {
		return nil
	}
	return h.commit(a, lb, isTemp)
}

func (h *Handler) commit(a action.Action, lb Label, isTemp bool) error {
	st := h.store.State()
	item := st.User.Select.Item
	tracking := st.Task.Config.Tracking

	if add, ok := a.(action.AddLabels); ok && isTemp {
		newID := st.Task.Status.MaxLabelID + 1
		next := action.Action(add)
		if tracking && len(add.Labels) == 1 && len(add.Labels[0]) == 1 {
			next = action.Sequence(h.tracks.Fallback().OnLabelCreated(st, item, add.Labels[0][0], add.Shapes[0][0])...)
		}
		if err := h.store.Dispatch(next); err != nil {
			return err
		}
		logger.Logger().Debug("label created", "item", item, "label", newID, "kind", lb.Kind())
		return h.store.Dispatch(action.SelectLabel(item, newID, false))
	}

	label := lb.State()
	if tracking && label.Track >= 0 {
		edit, err := h.tracks.Edit(st, a, item, []int{label.Track})
		if err != nil {
			return err
		}
		a = edit
	}
	return h.store.Dispatch(a)
}

// OnKeyDown handles the label shortcuts
func (h *Handler) OnKeyDown(key string, mods Modifiers) error {
	st := h.store.State()
	item := st.User.Select.Item
	ctrl := mods.Ctrl || mods.Meta

	switch key {
	case KeyEscape, KeyEnter:
		if h.editing != nil {
			h.editing.Cancel()
		}
		h.editing, h.temp, h.mouseDown = nil, nil, false
		if len(st.SelectedLabelIDs()) == 0 {
			return nil
		}
		return h.store.Dispatch(action.DeselectAll(item))

	case KeyDelete, KeyBackspace:
		selected := h.list.Selected()
		if len(selected) == 0 {
			return nil
		}
		var plain []int
		seen := map[int]bool{}
		for _, lb := range selected {
			tr := lb.State().Track
			if !ctrl || tr < 0 {
				plain = append(plain, lb.ID())
				continue
			}
			if seen[tr] {
				continue
			}
			seen[tr] = true
			var a action.Action = action.TerminateTrack{TrackID: tr, FromItem: item}
			if mods.Shift {
				a = action.DeleteTrack{TrackID: tr}
			}
			if err := h.store.Dispatch(a); err != nil {
				return err
			}
		}
		if len(plain) == 0 {
			return nil
		}
		return h.store.Dispatch(action.DeleteLabels{ItemIndices: []int{item}, LabelIDs: [][]int{plain}})
	}

	for _, lb := range h.list.Selected() {
		lb.OnKeyDown(key)
	}
	return nil
}
