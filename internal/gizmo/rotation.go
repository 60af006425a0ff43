package gizmo

import (
	"image/color"
	"math"

	"github.com/philipparndt/golabel/pkg/geometry"
)

const ringSegments = 48

// RotationRing rotates the object around its normal. The ring has radius
// one around the origin.
type RotationRing struct {
	unitBase
	normal geometry.Vector3
	points [ringSegments]geometry.Vector3
}

// NewRotationRing creates a ring around normal
func NewRotationRing(normal geometry.Vector3, c color.RGBA) *RotationRing {
	r := &RotationRing{unitBase: unitBase{color: c}, normal: normal.Normalize()}
	u, v := orthonormal(r.normal)
	for i := range r.points {
		a := 2 * math.Pi * float64(i) / ringSegments
		r.points[i] = u.Mul(math.Cos(a)).Add(v.Mul(math.Sin(a)))
	}
	return r
}

// Delta converts the drag into an angle: moving d along
// dragPlane.Normal x normal rotates by d radians around normal. The
// direction vanishes when the camera looks straight down the normal, so
// a ring seen face on does not rotate.
func (r *RotationRing) Delta(old geometry.Vector3, ray geometry.Ray, dragPlane geometry.Plane, local bool, parent geometry.Quaternion) Delta {
	n := r.normal
	if local {
		n = n.ApplyQuaternion(parent)
	}
	hit := intersect(ray, dragPlane, old)
	dir := dragPlane.Normal.Cross(n).Normalize()
	angle := hit.Sub(old).Dot(dir)
	d := noDelta(hit)
	d.Rotation = geometry.QuaternionFromAxisAngle(n, angle)
	return d
}

func (r *RotationRing) Pick(ray geometry.Ray, frame geometry.Transform) (float64, bool) {
	return pickSegments(ray, r.Segments(frame), PickTolerance*frame.Scale.X)
}

func (r *RotationRing) Segments(frame geometry.Transform) []Segment {
	local := make([]Segment, ringSegments)
	for i := range r.points {
		local[i] = Segment{A: r.points[i], B: r.points[(i+1)%ringSegments]}
	}
	return transformSegments(frame, local)
}
