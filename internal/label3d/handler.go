package label3d

import (
	"strings"

	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/logger"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/internal/track"
	"github.com/philipparndt/golabel/pkg/geometry"
)

// Key names handled by the 3D handler
const (
	KeyEscape    = "Escape"
	KeyEnter     = "Enter"
	KeyDelete    = "Delete"
	KeyBackspace = "Backspace"
	KeySpace     = " "
)

const transformEps = 1e-9

// Modifiers are the modifier keys held during an event
type Modifiers struct {
	Ctrl  bool
	Shift bool
	Meta  bool
}

// Dispatcher is the store the handler commits to
type Dispatcher interface {
	State() state.State
	Dispatch(a action.Action) error
}

// Handler turns pointer rays and keys into 3D label edits. Selected labels
// are moved through the gizmo and committed once per drag. The list must
// be subscribed to the dispatcher.
type Handler struct {
	list     *List
	store    Dispatcher
	tracks   *track.Index
	viewerID int

	dragging bool
	before   geometry.Transform
}

// NewHandler creates a handler. tracks may be nil when tracking is not
// used.
func NewHandler(list *List, store Dispatcher, tracks *track.Index) *Handler {
	if tracks == nil {
		tracks = track.NewIndex(nil)
	}
	return &Handler{list: list, store: store, tracks: tracks}
}

// SetViewer selects the viewer config used for new labels
func (h *Handler) SetViewer(id int) { h.viewerID = id }

// Dragging reports whether a gizmo drag is in progress
func (h *Handler) Dragging() bool { return h.dragging }

// OnMouseDown grabs the gizmo, selects the label under ray or clears the
// selection
func (h *Handler) OnMouseDown(ray geometry.Ray, cameraForward geometry.Vector3, mods Modifiers) error {
	control := h.list.Control()
	if control.Attached() {
		if _, ok := control.SetHighlighted(ray); ok && control.OnMouseDown(cameraForward) {
			h.dragging = true
			h.before = h.list.Group().Transform()
			return nil
		}
	}

	st := h.store.State()
	item := st.User.Select.Item
	lb, _, ok := h.list.Raycast(ray)
	if !ok {
		if len(st.SelectedLabelIDs()) == 0 {
			return nil
		}
		return h.store.Dispatch(action.DeselectAll(item))
	}

	additive := mods.Ctrl || mods.Meta
	if additive && lb.Selected() {
		return h.store.Dispatch(action.UnselectLabel(item, lb.ID()))
	}
	if lb.Selected() && len(h.list.Selected()) == 1 {
		return nil
	}
	sel := action.SelectLabels{Item: item, LabelIDs: []int{lb.ID()}, Append: additive}
	if cat := lb.State().Category; len(cat) > 0 {
		c := cat[0]
		sel.Category = &c
	}
	return h.store.Dispatch(sel)
}

// OnMouseMove drives the gizmo while dragging and highlights the gizmo or
// the label under ray otherwise. It reports whether a redraw is needed.
func (h *Handler) OnMouseMove(ray geometry.Ray) bool {
	control := h.list.Control()
	if h.dragging {
		return control.OnMouseMove(ray)
	}
	_, onGizmo := control.SetHighlighted(ray)
	var hovered Label
	if !onGizmo {
		hovered, _, _ = h.list.Raycast(ray)
	}
	changed := false
	for _, lb := range h.list.Labels() {
		on := lb == hovered
		if lb.Highlighted() != on {
			lb.SetHighlighted(on)
			changed = true
		}
	}
	return changed || onGizmo
}

// OnMouseUp ends a drag and commits the group members in one action
func (h *Handler) OnMouseUp() error {
	if !h.dragging {
		return nil
	}
	h.dragging = false
	h.list.Control().OnMouseUp()
	if sameTransform(h.before, h.list.Group().Transform()) {
		return nil
	}
	return h.commit(h.list.Selected())
}

func (h *Handler) commit(labels []Label) error {
	if len(labels) == 0 {
		return nil
	}
	st := h.store.State()
	item := st.User.Select.Item
	var ids []int
	var patches []state.ShapePatch
	for _, lb := range labels {
		i, p := lb.ShapePatches()
		ids = append(ids, i...)
		patches = append(patches, p...)
	}
	edit := action.Action(action.ChangeShapes{
		ItemIndices: []int{item},
		ShapeIDs:    [][]int{ids},
		Shapes:      [][]state.ShapePatch{patches},
	})
	if st.Task.Config.Tracking {
		tracks := make([]int, 0, len(labels))
		for _, lb := range labels {
			tracks = append(tracks, lb.State().Track)
		}
		var err error
		if edit, err = h.tracks.Edit(st, edit, item, tracks); err != nil {
			return err
		}
	}
	return h.store.Dispatch(edit)
}

// OnKeyDown handles the label and gizmo shortcuts
func (h *Handler) OnKeyDown(key string, mods Modifiers) error {
	st := h.store.State()
	item := st.User.Select.Item
	ctrl := mods.Ctrl || mods.Meta

	switch key {
	case KeyEscape, KeyEnter:
		if h.dragging {
			h.cancelDrag()
			return nil
		}
		if len(st.SelectedLabelIDs()) == 0 {
			return nil
		}
		return h.store.Dispatch(action.DeselectAll(item))

	case KeySpace:
		return h.addBox(st)

	case KeyDelete, KeyBackspace:
		return h.delete(item, ctrl, mods.Shift)
	}

	switch strings.ToLower(key) {
	case "p":
		p, ok := h.list.Plane()
		if !ok {
			return nil
		}
		if p.Selected() {
			return h.store.Dispatch(action.UnselectLabel(item, p.ID()))
		}
		return h.store.Dispatch(action.SelectLabel(item, p.ID(), false))
	case "f":
		var boxes []Label
		for _, lb := range h.list.Selected() {
			if b, ok := lb.(*Box3D); ok {
				b.cube.IncrementAnchorIndex()
				boxes = append(boxes, b)
			}
		}
		return h.commit(boxes)
	}
	if !h.dragging {
		h.list.Control().OnKeyDown(key)
	}
	return nil
}

func (h *Handler) cancelDrag() {
	h.list.Group().SetTransform(h.before)
	h.list.Control().OnMouseUp()
	h.dragging = false
	logger.Logger().Debug("3d drag cancelled")
}

// addBox creates a unit box at the viewer target, on the ground plane
// when there is one, and selects it
func (h *Handler) addBox(st state.State) error {
	if h.dragging {
		return nil
	}
	item := st.User.Select.Item
	cfg, ok := st.User.ViewerConfigs[h.viewerID]
	if !ok || cfg.PointCloud == nil {
		return nil
	}
	center := cfg.PointCloud.Target
	surface := -1
	if p, ok := h.list.Plane(); ok {
		center = p.Node().WorldTransform().ApplyInverse(center)
		surface = p.ID()
	}

	label := action.NewBox3DLabel([]int{st.User.Select.Category})
	for k, v := range st.User.Select.Attributes {
		label.Attributes[k] = append([]int(nil), v...)
	}
	label.Order = st.Task.Status.MaxOrder + 1
	shape := action.NewBox3DShape(center)
	shape.Cube.SurfaceID = surface
	shapes := []state.Shape{shape}

	newID := st.Task.Status.MaxLabelID + 1
	add := action.Action(action.AddLabel(item, label, shapes))
	if st.Task.Config.Tracking {
		add = action.Sequence(h.tracks.Fallback().OnLabelCreated(st, item, label, shapes)...)
	}
	if err := h.store.Dispatch(add); err != nil {
		return err
	}
	logger.Logger().Debug("box added", "item", item, "label", newID, "center", center)
	return h.store.Dispatch(action.SelectLabel(item, newID, false))
}

func (h *Handler) delete(item int, ctrl, shift bool) error {
	selected := h.list.Selected()
	if len(selected) == 0 || h.dragging {
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
		if shift {
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

func sameTransform(a, b geometry.Transform) bool {
	return a.Position.Equals(b.Position, transformEps) &&
		a.Rotation.Equals(b.Rotation, transformEps) &&
		a.Scale.Equals(b.Scale, transformEps)
}
