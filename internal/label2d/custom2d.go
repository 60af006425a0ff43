package label2d

import (
	"errors"
	"math"

	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/draw2d"
	"github.com/philipparndt/golabel/internal/picking"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/pkg/geometry"
)

// Custom2D is a set of connected points laid out by a label template.
// Handle i+1 is point i, handle 0 is the whole label.
type Custom2D struct {
	base
	template  state.LabelTemplate
	points    []geometry.Vector2
	committed []geometry.Vector2
	shapeIDs  []int
	// creating is set while a new label is scaled by the first drag
	creating bool
	dragging bool
	handle   int
	last     geometry.Vector2
	origin   geometry.Vector2
	size     geometry.Vector2
	pending  bool
}

// NewCustom2D creates an empty templated label
func NewCustom2D(template state.LabelTemplate) *Custom2D {
	return &Custom2D{base: newBase(), template: template}
}

// NewTempCustom2D places the template with its top left corner at pt.
// Dragging scales it until the mouse is released.
func NewTempCustom2D(st state.State, template state.LabelTemplate, pt geometry.Vector2) *Custom2D {
	c := NewCustom2D(template)
	c.initTemp(st, state.MakeLabel(template.Name, nil))

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range template.Template {
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
	}
	c.points = make([]geometry.Vector2, len(template.Template))
	for i, p := range template.Template {
		c.points[i] = geometry.NewVector2(p.X-minX+pt.X, p.Y-minY+pt.Y)
	}
	c.committed = clonePoints(c.points)
	c.origin = pt
	c.size = geometry.NewVector2(math.Max(maxX-minX, 1), math.Max(maxY-minY, 1))
	c.creating = true
	c.dragging = true
	c.handle = -1
	return c
}

func clonePoints(p []geometry.Vector2) []geometry.Vector2 {
	return append([]geometry.Vector2(nil), p...)
}

func (c *Custom2D) Kind() string { return c.template.Name }

// Points returns the in-memory points
func (c *Custom2D) Points() []geometry.Vector2 { return c.points }

func (c *Custom2D) Editing() bool { return c.dragging }

func (c *Custom2D) OnMouseDown(pt geometry.Vector2, handle int) bool {
	if handle < 0 || handle > len(c.points) {
		return false
	}
	c.dragging = true
	c.handle = handle
	c.last = pt
	c.pending = false
	return true
}

func (c *Custom2D) OnMouseMove(pt, limit geometry.Vector2) bool {
	if !c.dragging {
		return false
	}
	pt = clampPoint(pt, limit)
	switch {
	case c.creating:
		w := math.Max(pt.X-c.origin.X, 1)
		h := math.Max(pt.Y-c.origin.Y, 1)
		sx, sy := w/c.size.X, h/c.size.Y
		for i, p := range c.points {
			c.points[i] = geometry.NewVector2(
				(p.X-c.origin.X)*sx+c.origin.X,
				(p.Y-c.origin.Y)*sy+c.origin.Y)
		}
		c.size = geometry.NewVector2(w, h)
	case c.handle > 0:
		c.points[c.handle-1] = pt
	case c.handle == 0:
		delta := pt.Sub(c.last)
		for i := range c.points {
			c.points[i] = c.points[i].Add(delta)
		}
		c.last = pt
	}
	return true
}

func (c *Custom2D) changed() bool {
	if len(c.points) != len(c.committed) {
		return true
	}
	for i := range c.points {
		if c.points[i] != c.committed[i] {
			return true
		}
	}
	return false
}

func (c *Custom2D) OnMouseUp(geometry.Vector2) bool {
	if !c.dragging {
		return false
	}
	c.dragging = false
	c.creating = false
	c.pending = c.changed()
	if c.id < 0 && !c.pending {
		// a click without a drag places nothing
		c.selected = false
	}
	return true
}

func (c *Custom2D) OnKeyDown(string) bool { return false }

func (c *Custom2D) Cancel() {
	c.points = clonePoints(c.committed)
	c.dragging = false
	c.creating = false
	c.pending = false
}

func (c *Custom2D) Commit() action.Action {
	if !c.pending {
		return nil
	}
	c.pending = false
	c.committed = clonePoints(c.points)
	if c.id < 0 {
		pts := make([]state.Point, len(c.points))
		for i, p := range c.points {
			pts[i] = state.Point{X: p.X, Y: p.Y}
		}
		return action.AddCustomLabel(c.itemIndex, c.template.Name, c.label.Category, pts)
	}
	patches := make([]state.ShapePatch, len(c.points))
	for i, p := range c.points {
		pt := state.Point{X: p.X, Y: p.Y}
		patches[i] = state.ShapePatch{Point: &pt}
	}
	return action.ChangeShapesSingle(c.itemIndex, c.shapeIDs, patches)
}

func (c *Custom2D) UpdateState(st state.State, itemIndex, labelID int) {
	item, ok := c.load(st, itemIndex, labelID)
	if !ok {
		return
	}
	c.shapeIDs = append([]int(nil), c.label.Shapes...)
	shapes := item.LabelShapes(labelID)
	c.points = nil
	for _, sh := range shapes {
		if sh.Point != nil {
			c.points = append(c.points, geometry.NewVector2(sh.Point.X, sh.Point.Y))
		}
	}
	c.committed = clonePoints(c.points)
	c.dragging = false
	c.creating = false
	c.pending = false
}

func (c *Custom2D) Draw(cv draw2d.Canvas, ratio float64, mode draw2d.Mode) error {
	var errs []error
	lineStyle := draw2d.DefaultRectStyle()
	lineStyle.Color = c.color
	pointStyle := draw2d.DefaultPointStyle()
	pointStyle.Color = c.color
	if mode == draw2d.ModeControl {
		lineStyle = draw2d.ControlStyle(picking.EncodeControlColor(c.index, 0))
		lineStyle.LineWidth = draw2d.LineWidth
	}
	for _, conn := range c.template.Connections {
		a, b := conn[0], conn[1]
		if a < 0 || b < 0 || a >= len(c.points) || b >= len(c.points) {
			continue
		}
		errs = append(errs, draw2d.Line(cv, ratio,
			draw2d.Point2D{X: c.points[a].X, Y: c.points[a].Y},
			draw2d.Point2D{X: c.points[b].X, Y: c.points[b].Y}, lineStyle))
	}
	for i, p := range c.points {
		style := pointStyle
		switch {
		case mode == draw2d.ModeControl:
			style = draw2d.ControlStyle(picking.EncodeControlColor(c.index, i+1))
		case i+1 == c.highlighted:
			style.Radius = draw2d.HoveredHandleRadius
		}
		errs = append(errs, draw2d.Point2D{X: p.X, Y: p.Y}.Draw(cv, ratio, style))
	}
	return errors.Join(errs...)
}

func (c *Custom2D) Cursor() string {
	if c.highlighted == 0 {
		return "move"
	}
	if c.highlighted > 0 {
		return "pointer"
	}
	return "crosshair"
}
