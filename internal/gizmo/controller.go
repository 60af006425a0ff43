package gizmo

import (
	"image/color"

	"github.com/philipparndt/golabel/pkg/geometry"
)

// MinScale keeps scaled objects from collapsing or flipping
const MinScale = 0.01

// Mode selects the controller of a TransformationControl
type Mode int

const (
	ModeTranslate Mode = iota
	ModeRotate
	ModeScale
)

func (m Mode) String() string {
	switch m {
	case ModeTranslate:
		return "translate"
	case ModeRotate:
		return "rotate"
	case ModeScale:
		return "scale"
	}
	return "unknown"
}

// Transformable is the object a controller edits
type Transformable interface {
	Transform() geometry.Transform
	SetTransform(t geometry.Transform)
}

// Controller is a set of units of one mode. It is drawn at the attached
// object's position, aligned with the object in the local frame and with
// the world axes otherwise.
type Controller struct {
	mode   Mode
	units  []Unit
	object Transformable
	local  bool
	size   float64

	highlighted  Unit
	intersection geometry.Vector3
	dragPlane    geometry.Plane
	dragging     bool
}

func newController(mode Mode, units ...Unit) *Controller {
	return &Controller{mode: mode, units: units, local: true, size: 1}
}

// NewTranslationController creates three axes and three planes
func NewTranslationController() *Controller {
	x, y, z := geometry.NewVector3(1, 0, 0), geometry.NewVector3(0, 1, 0), geometry.NewVector3(0, 0, 1)
	return newController(ModeTranslate,
		NewTranslationAxis(x, ColorX),
		NewTranslationAxis(y, ColorY),
		NewTranslationAxis(z, ColorZ),
		NewTranslationPlane(x, ColorX),
		NewTranslationPlane(y, ColorY),
		NewTranslationPlane(z, ColorZ),
	)
}

// NewRotationController creates one ring per axis
func NewRotationController() *Controller {
	return newController(ModeRotate,
		NewRotationRing(geometry.NewVector3(1, 0, 0), ColorX),
		NewRotationRing(geometry.NewVector3(0, 1, 0), ColorY),
		NewRotationRing(geometry.NewVector3(0, 0, 1), ColorZ),
	)
}

// NewScaleController creates a handle on both ends of every axis
func NewScaleController() *Controller {
	colors := [3]color.RGBA{ColorX, ColorY, ColorZ}
	units := make([]Unit, 0, 6)
	for axis := 0; axis < 3; axis++ {
		units = append(units,
			NewScaleAxis(axis, false, colors[axis]),
			NewScaleAxis(axis, true, colors[axis]))
	}
	return newController(ModeScale, units...)
}

func (c *Controller) Mode() Mode     { return c.mode }
func (c *Controller) Units() []Unit  { return c.units }
func (c *Controller) Dragging() bool { return c.dragging }
func (c *Controller) Attached() bool { return c.object != nil }

// SetSize sets the drawn size of the units in world units
func (c *Controller) SetSize(s float64) {
	if s > 0 {
		c.size = s
	}
}

// Local reports whether the controller works in the object frame. Scale
// is always local.
func (c *Controller) Local() bool {
	return c.local || c.mode == ModeScale
}

// Frame returns the world transform the units are drawn in
func (c *Controller) Frame() geometry.Transform {
	f := geometry.IdentityTransform()
	f.Scale = geometry.NewVector3(c.size, c.size, c.size)
	if c.object == nil {
		return f
	}
	t := c.object.Transform()
	f.Position = t.Position
	if c.Local() {
		f.Rotation = t.Rotation
	}
	return f
}

// SetHighlighted highlights the nearest unit hit by ray and returns its
// distance. A miss clears the highlight. The highlight is kept during a
// drag.
func (c *Controller) SetHighlighted(ray geometry.Ray) (float64, bool) {
	if c.dragging {
		return 0, true
	}
	c.ClearHighlight()
	if c.object == nil {
		return 0, false
	}
	frame := c.Frame()
	best := 0.0
	for _, u := range c.units {
		t, ok := u.Pick(ray, frame)
		if !ok || (c.highlighted != nil && t >= best) {
			continue
		}
		c.highlighted, best = u, t
	}
	if c.highlighted == nil {
		return 0, false
	}
	c.highlighted.SetHighlighted(true)
	c.intersection = ray.At(best)
	return best, true
}

// ClearHighlight drops the highlight unless a drag is in progress
func (c *Controller) ClearHighlight() {
	if c.dragging {
		return
	}
	for _, u := range c.units {
		u.SetHighlighted(false)
	}
	c.highlighted = nil
}

// OnMouseDown starts a drag on the highlighted unit. The drag plane faces
// the camera and passes through the grabbed point.
func (c *Controller) OnMouseDown(cameraForward geometry.Vector3) bool {
	if c.highlighted == nil || c.object == nil {
		return false
	}
	c.dragPlane = geometry.PlaneFromNormalAndPoint(cameraForward, c.intersection)
	c.dragging = true
	return true
}

// OnMouseMove applies the unit delta for ray to the attached object
func (c *Controller) OnMouseMove(ray geometry.Ray) bool {
	if !c.dragging || c.object == nil {
		return false
	}
	t := c.object.Transform()
	d := c.highlighted.Delta(c.intersection, ray, c.dragPlane, c.Local(), t.Rotation)
	t.Position = t.Position.Add(d.Translation)
	t.Rotation = d.Rotation.Mul(t.Rotation).Normalize()
	t.Scale = t.Scale.Add(d.Scale).Max(geometry.NewVector3(MinScale, MinScale, MinScale))
	c.object.SetTransform(t)
	c.intersection = d.Intersection
	return true
}

// OnMouseUp ends the drag and reports whether one was in progress
func (c *Controller) OnMouseUp() bool {
	was := c.dragging
	c.dragging = false
	return was
}

// Attach binds the controller to an object
func (c *Controller) Attach(obj Transformable) {
	c.object = obj
}

func (c *Controller) Detach() {
	c.object = nil
	c.dragging = false
	c.ClearHighlight()
}

// ToggleFrame switches between the local and the world frame
func (c *Controller) ToggleFrame() {
	if c.object != nil {
		c.local = !c.local
	}
}
