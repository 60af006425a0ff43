package gizmo

import (
	"image/color"

	"github.com/philipparndt/golabel/pkg/geometry"
)

const (
	scaleLineLength = 0.75
	scaleBoxHalf    = 0.125
)

// ScaleAxis grows the object along one signed axis while keeping the
// opposite face in place. It always works in the local frame.
type ScaleAxis struct {
	unitBase
	direction geometry.Vector3
}

// NewScaleAxis creates a scale handle for axis 0, 1 or 2, pointing the
// negative way when negate is set
func NewScaleAxis(axis int, negate bool, c color.RGBA) *ScaleAxis {
	var dir geometry.Vector3
	switch axis {
	case 0:
		dir.X = 1
	case 1:
		dir.Y = 1
	default:
		dir.Z = 1
	}
	if negate {
		dir = dir.Negate()
	}
	return &ScaleAxis{unitBase: unitBase{color: c}, direction: dir}
}

func (s *ScaleAxis) Delta(old geometry.Vector3, ray geometry.Ray, dragPlane geometry.Plane, _ bool, parent geometry.Quaternion) Delta {
	dir := s.direction.ApplyQuaternion(parent)
	hit := intersect(ray, dragPlane, old)
	length := hit.Sub(old).Dot(dir)
	d := noDelta(old.Add(dir.Mul(length)))
	d.Translation = dir.Mul(0.5 * length)
	d.Scale = s.direction.Abs().Mul(length)
	return d
}

func (s *ScaleAxis) Pick(ray geometry.Ray, frame geometry.Transform) (float64, bool) {
	best, found := pickSegments(ray, s.line(frame), PickTolerance*frame.Scale.X)
	h := geometry.NewVector3(scaleBoxHalf, scaleBoxHalf, scaleBoxHalf)
	if t, ok := ray.ToLocal(frame).IntersectBox(s.direction.Sub(h), s.direction.Add(h)); ok {
		if !found || t < best {
			best, found = t, true
		}
	}
	return best, found
}

func (s *ScaleAxis) line(frame geometry.Transform) []Segment {
	return transformSegments(frame, []Segment{{B: s.direction.Mul(scaleLineLength)}})
}

func (s *ScaleAxis) Segments(frame geometry.Transform) []Segment {
	return append(s.line(frame), transformSegments(frame, boxEdges(s.direction, scaleBoxHalf))...)
}
