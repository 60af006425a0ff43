package gizmo

import (
	"strings"

	"github.com/philipparndt/golabel/internal/logger"
	"github.com/philipparndt/golabel/pkg/geometry"
)

// TransformationControl switches between the translate, rotate and scale
// controllers and forwards events to the current one
type TransformationControl struct {
	controllers [3]*Controller
	current     *Controller
	object      Transformable
	allowScale  bool
	size        float64
}

// NewTransformationControl starts in rotate mode
func NewTransformationControl() *TransformationControl {
	tc := &TransformationControl{
		controllers: [3]*Controller{
			ModeTranslate: NewTranslationController(),
			ModeRotate:    NewRotationController(),
			ModeScale:     NewScaleController(),
		},
		allowScale: true,
		size:       1,
	}
	tc.current = tc.controllers[ModeRotate]
	return tc
}

func (tc *TransformationControl) Current() *Controller { return tc.current }
func (tc *TransformationControl) Mode() Mode           { return tc.current.Mode() }
func (tc *TransformationControl) Attached() bool       { return tc.object != nil }
func (tc *TransformationControl) Dragging() bool       { return tc.current.Dragging() }

// SetSize sets the drawn size of every controller
func (tc *TransformationControl) SetSize(s float64) {
	if s <= 0 {
		return
	}
	tc.size = s
	for _, c := range tc.controllers {
		c.SetSize(s)
	}
}

// SetMode switches to the controller of mode. Scale is refused while it
// is not allowed.
func (tc *TransformationControl) SetMode(m Mode) bool {
	if m < ModeTranslate || m > ModeScale {
		return false
	}
	if m == ModeScale && !tc.allowScale {
		return false
	}
	next := tc.controllers[m]
	if next == tc.current {
		return true
	}
	obj := tc.object
	tc.Detach()
	tc.current = next
	if obj != nil {
		tc.Attach(obj)
	}
	logger.Logger().Debug("gizmo mode changed", "mode", m)
	return true
}

// AllowScale enables or disables the scale controller. Multiple selected
// labels cannot be scaled without shearing.
func (tc *TransformationControl) AllowScale(allow bool) {
	tc.allowScale = allow
	if !allow && tc.current.Mode() == ModeScale {
		tc.SetMode(ModeTranslate)
	}
}

// OnKeyDown handles T, R and S for the mode and Q for the frame
func (tc *TransformationControl) OnKeyDown(key string) bool {
	switch strings.ToLower(key) {
	case "q":
		tc.current.ToggleFrame()
		return true
	case "t":
		tc.SetMode(ModeTranslate)
		return true
	case "r":
		tc.SetMode(ModeRotate)
		return true
	case "s":
		tc.SetMode(ModeScale)
		return true
	}
	return false
}

func (tc *TransformationControl) SetHighlighted(ray geometry.Ray) (float64, bool) {
	return tc.current.SetHighlighted(ray)
}

func (tc *TransformationControl) ClearHighlight() { tc.current.ClearHighlight() }

func (tc *TransformationControl) OnMouseDown(cameraForward geometry.Vector3) bool {
	return tc.current.OnMouseDown(cameraForward)
}

func (tc *TransformationControl) OnMouseMove(ray geometry.Ray) bool {
	return tc.current.OnMouseMove(ray)
}

func (tc *TransformationControl) OnMouseUp() bool { return tc.current.OnMouseUp() }

func (tc *TransformationControl) Attach(obj Transformable) {
	tc.object = obj
	tc.current.Attach(obj)
}

func (tc *TransformationControl) Detach() {
	tc.object = nil
	tc.current.Detach()
}
