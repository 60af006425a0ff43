// Package label2d implements the interactive image labels: each label
// kind is a small state machine behind the Label capability interface,
// the List mirrors the labels of the current item and the Handler routes
// pointer and key input to them.
package label2d

import (
	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/draw2d"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/pkg/geometry"
)

// Key names understood by labels and the handler
const (
	KeyEscape    = "Escape"
	KeyEnter     = "Enter"
	KeyDelete    = "Delete"
	KeyBackspace = "Backspace"
)

// Modifiers are the modifier keys held during an event
type Modifiers struct {
	Ctrl  bool
	Shift bool
	Meta  bool
}

// Label is one drawable, editable 2D label
type Label interface {
	ID() int
	Kind() string
	Index() int
	SetIndex(i int)
	Order() int
	State() state.Label

	Draw(c draw2d.Canvas, ratio float64, mode draw2d.Mode) error

	// OnMouseDown starts a gesture on a handle. Handle 0 is the body.
	OnMouseDown(pt geometry.Vector2, handle int) bool
	// OnMouseMove updates the in-memory label. limit is the image size.
	OnMouseMove(pt, limit geometry.Vector2) bool
	OnMouseUp(pt geometry.Vector2) bool
	OnKeyDown(key string) bool
	// Cancel drops the current gesture and restores the committed shape
	Cancel()

	UpdateState(st state.State, itemIndex, labelID int)
	// Commit returns the action storing the finished gesture, or nil when
	// there is nothing to store. It returns an action at most once per
	// gesture.
	Commit() action.Action

	Selected() bool
	SetSelected(bool)
	Highlight(handle int)
	Editing() bool
	Cursor() string
}

// base holds what all label kinds share
type base struct {
	id          int
	index       int
	itemIndex   int
	label       state.Label
	color       [3]uint8
	selected    bool
	highlighted int
}

func newBase() base {
	return base{id: -1, highlighted: -1}
}

func (b *base) ID() int            { return b.id }
func (b *base) Index() int         { return b.index }
func (b *base) SetIndex(i int)     { b.index = i }
func (b *base) Order() int         { return b.label.Order }
func (b *base) State() state.Label { return b.label }
func (b *base) Selected() bool     { return b.selected }
func (b *base) SetSelected(s bool) { b.selected = s }
func (b *base) Highlight(h int)    { b.highlighted = h }

// load copies the stored label into the base
func (b *base) load(st state.State, itemIndex, labelID int) (state.Item, bool) {
	if itemIndex < 0 || itemIndex >= len(st.Task.Items) {
		return state.Item{}, false
	}
	item := st.Task.Items[itemIndex]
	label, ok := item.Labels[labelID]
	if !ok {
		return state.Item{}, false
	}
	b.id = labelID
	b.itemIndex = itemIndex
	b.label = label
	b.color = labelColor(label)
	b.selected = st.User.Select.Item == itemIndex && st.IsSelected(labelID)
	return item, true
}

// initTemp prepares a label that does not exist in the store yet
func (b *base) initTemp(st state.State, label state.Label) {
	sel := st.User.Select
	b.id = -1
	b.itemIndex = sel.Item
	label.Category = []int{sel.Category}
	for k, v := range sel.Attributes {
		label.Attributes[k] = append([]int(nil), v...)
	}
	label.Order = st.Task.Status.MaxOrder + 1
	b.label = label
	if st.Task.Config.Tracking {
		b.color = draw2d.ColorByID(st.Task.Status.MaxTrackID + 1)
	} else {
		b.color = draw2d.ColorByID(st.Task.Status.MaxLabelID + 1)
	}
	b.selected = true
}

func labelColor(l state.Label) [3]uint8 {
	if len(l.Color) == 3 {
		return [3]uint8{uint8(l.Color[0]), uint8(l.Color[1]), uint8(l.Color[2])}
	}
	if l.Track >= 0 {
		return draw2d.ColorByID(l.Track)
	}
	return draw2d.ColorByID(l.ID)
}

func clampPoint(pt, limit geometry.Vector2) geometry.Vector2 {
	if limit.X > 0 {
		pt.X = min(max(pt.X, 0), limit.X)
	}
	if limit.Y > 0 {
		pt.Y = min(max(pt.Y, 0), limit.Y)
	}
	return pt
}
