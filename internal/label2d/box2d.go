package label2d

import (
	"errors"

	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/draw2d"
	"github.com/philipparndt/golabel/internal/picking"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/pkg/geometry"
)

// Box2DState is the gesture state of a box
type Box2DState int

const (
	Box2DNull Box2DState = iota
	Box2DResize
	Box2DMove
	Box2DSelected
)

func (s Box2DState) String() string {
	switch s {
	case Box2DResize:
		return "resize"
	case Box2DMove:
		return "move"
	case Box2DSelected:
		return "selected"
	}
	return "null"
}

// MinBoxSize is the exclusive lower bound of a box edge in image pixels
const MinBoxSize = 5.0

// NewBoxHandle is the handle dragged while a new box is drawn
const NewBoxHandle = 5

// OppositeHandle returns the handle across the box. Handles are numbered
// 1 to 8 clockwise from the top left corner.
func OppositeHandle(h int) int {
	return (h-1+4)%8 + 1
}

// Box2D is a rectangle with four corner and four midpoint handles
type Box2D struct {
	base
	state     Box2DState
	rect      draw2d.Rect2D
	committed draw2d.Rect2D
	shapeIDs  []int
	handle    int
	anchor    geometry.Vector2
	start     geometry.Vector2
	startRect draw2d.Rect2D
	pending   bool
}

// NewBox2D creates an empty box, filled by UpdateState
func NewBox2D() *Box2D {
	return &Box2D{base: newBase()}
}

// NewTempBox2D starts drawing a new box at pt. The box grows from pt
// while its bottom right corner follows the pointer.
func NewTempBox2D(st state.State, pt geometry.Vector2) *Box2D {
	b := NewBox2D()
	b.initTemp(st, action.NewBox2DLabel(nil))
	b.rect = draw2d.Rect2D{X: pt.X, Y: pt.Y}
	b.committed = b.rect
	b.state = Box2DResize
	b.handle = NewBoxHandle
	b.anchor = pt
	return b
}

func (b *Box2D) Kind() string { return state.LabelBox2D }

// GestureState returns the current state machine state
func (b *Box2D) GestureState() Box2DState { return b.state }

// Rect returns the in-memory rectangle, including uncommitted edits
func (b *Box2D) Rect() draw2d.Rect2D { return b.rect }

// Handle returns the handle being dragged
func (b *Box2D) Handle() int { return b.handle }

func (b *Box2D) Editing() bool {
	return b.state == Box2DResize || b.state == Box2DMove
}

func (b *Box2D) vertex(h int) geometry.Vector2 {
	v := action.Box2DVertices(toStateRect(b.rect))[h-1]
	return geometry.NewVector2(v.X, v.Y)
}

func toStateRect(r draw2d.Rect2D) state.Rect {
	return state.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

func validRect(r draw2d.Rect2D) bool {
	return r.W > MinBoxSize && r.H > MinBoxSize
}

func (b *Box2D) OnMouseDown(pt geometry.Vector2, handle int) bool {
	switch {
	case handle == 0:
		b.state = Box2DMove
		b.start = pt
		b.startRect = b.rect
	case handle >= 1 && handle <= 8:
		b.state = Box2DResize
		b.anchor = b.vertex(OppositeHandle(handle))
	default:
		return false
	}
	b.handle = handle
	b.pending = false
	return true
}

func (b *Box2D) OnMouseMove(pt, limit geometry.Vector2) bool {
	pt = clampPoint(pt, limit)
	switch b.state {
	case Box2DResize:
		b.resize(pt)
	case Box2DMove:
		r := b.startRect
		r.X += pt.X - b.start.X
		r.Y += pt.Y - b.start.Y
		if limit.X > 0 {
			r.X = min(max(r.X, 0), limit.X-r.W)
		}
		if limit.Y > 0 {
			r.Y = min(max(r.Y, 0), limit.Y-r.H)
		}
		b.rect = r
	default:
		return false
	}
	return true
}

// resize moves the active handle to pt. The anchor stays fixed; when the
// pointer crosses it the active handle becomes the mirrored one.
func (b *Box2D) resize(pt geometry.Vector2) {
	a := b.anchor
	switch b.handle {
	case 1, 3, 5, 7:
		b.rect = draw2d.NewRect2D(a.X, a.Y, pt.X, pt.Y)
		left, top := pt.X < a.X, pt.Y < a.Y
		switch {
		case left && top:
			b.handle = 1
		case top:
			b.handle = 3
		case !left:
			b.handle = 5
		default:
			b.handle = 7
		}
	case 2, 6:
		b.rect = draw2d.NewRect2D(b.rect.X, a.Y, b.rect.X+b.rect.W, pt.Y)
		if pt.Y < a.Y {
			b.handle = 2
		} else {
			b.handle = 6
		}
	case 4, 8:
		b.rect = draw2d.NewRect2D(a.X, b.rect.Y, pt.X, b.rect.Y+b.rect.H)
		if pt.X < a.X {
			b.handle = 8
		} else {
			b.handle = 4
		}
	}
}

func (b *Box2D) OnMouseUp(geometry.Vector2) bool {
	switch b.state {
	case Box2DResize:
		if !validRect(b.rect) {
			b.rect = b.committed
			if b.id < 0 {
				b.state = Box2DNull
				b.selected = false
			} else {
				b.state = Box2DSelected
			}
			return true
		}
	case Box2DMove:
	default:
		return false
	}
	b.state = Box2DSelected
	b.pending = b.id < 0 || b.rect != b.committed
	return true
}

func (b *Box2D) OnKeyDown(string) bool { return false }

func (b *Box2D) Cancel() {
	b.rect = b.committed
	b.pending = false
	if b.selected && b.id >= 0 {
		b.state = Box2DSelected
	} else {
		b.state = Box2DNull
	}
}

func (b *Box2D) Commit() action.Action {
	if !b.pending {
		return nil
	}
	b.pending = false
	r := b.rect
	b.committed = r
	if b.id < 0 {
		return action.AddLabel(b.itemIndex, b.label, action.Box2DShapes(r.X, r.Y, r.W, r.H))
	}
	return action.ChangeShapesSingle(b.itemIndex, b.shapeIDs, action.Box2DPatches(toStateRect(r)))
}

// UpdateState loads the stored box. Any gesture in progress is dropped.
func (b *Box2D) UpdateState(st state.State, itemIndex, labelID int) {
	item, ok := b.load(st, itemIndex, labelID)
	if !ok {
		return
	}
	b.shapeIDs = append([]int(nil), b.label.Shapes...)
	shapes := item.LabelShapes(labelID)
	if len(shapes) > 0 && shapes[0].Rect != nil {
		r := shapes[0].Rect
		b.rect = draw2d.Rect2D{X: r.X, Y: r.Y, W: r.W, H: r.H}
	}
	b.committed = b.rect
	b.pending = false
	if b.selected {
		b.state = Box2DSelected
	} else {
		b.state = Box2DNull
	}
}

func (b *Box2D) Draw(c draw2d.Canvas, ratio float64, mode draw2d.Mode) error {
	var errs []error
	if mode == draw2d.ModeControl {
		errs = append(errs, b.rect.Draw(c, ratio, draw2d.ControlStyle(picking.EncodeControlColor(b.index, 0))))
		for h := 1; h <= 8; h++ {
			v := b.vertex(h)
			style := draw2d.ControlStyle(picking.EncodeControlColor(b.index, h))
			errs = append(errs, draw2d.Point2D{X: v.X, Y: v.Y}.Draw(c, ratio, style))
		}
		return errors.Join(errs...)
	}

	style := draw2d.DefaultRectStyle()
	style.Color = b.color
	style.Dashed = !b.label.Manual
	errs = append(errs, b.rect.Draw(c, ratio, style))
	if !b.selected && b.highlighted < 0 && !b.Editing() {
		return errors.Join(errs...)
	}
	for h := 1; h <= 8; h++ {
		v := b.vertex(h)
		ps := draw2d.DefaultPointStyle()
		ps.Color = b.color
		if h%2 == 0 {
			ps.Color = draw2d.ControlFillColor
			ps.Alpha = draw2d.ControlPointAlpha
		}
		if h == b.highlighted {
			ps.Radius = draw2d.HoveredHandleRadius
		}
		errs = append(errs, draw2d.Point2D{X: v.X, Y: v.Y}.Draw(c, ratio, ps))
	}
	return errors.Join(errs...)
}

// Cursor returns the pointer cursor for the active or hovered handle
func (b *Box2D) Cursor() string {
	h := b.highlighted
	if b.Editing() {
		h = b.handle
	}
	switch h {
	case 0:
		return "move"
	case 1, 5:
		return "nwse-resize"
	case 3, 7:
		return "nesw-resize"
	case 2, 6:
		return "ns-resize"
	case 4, 8:
		return "ew-resize"
	}
	return "crosshair"
}
