package gizmo

import (
	"image/color"
	"math"

	"github.com/philipparndt/golabel/pkg/geometry"
)

const (
	arrowHead      = 0.15
	arrowHeadWidth = 0.045
	planeHalfSize  = 0.125
)

// TranslationAxis moves the object along one direction
type TranslationAxis struct {
	unitBase
	direction geometry.Vector3
}

// NewTranslationAxis creates an axis of length one along direction
func NewTranslationAxis(direction geometry.Vector3, c color.RGBA) *TranslationAxis {
	return &TranslationAxis{unitBase: unitBase{color: c}, direction: direction.Normalize()}
}

func (a *TranslationAxis) Delta(old geometry.Vector3, ray geometry.Ray, dragPlane geometry.Plane, local bool, parent geometry.Quaternion) Delta {
	dir := a.direction
	if local {
		dir = dir.ApplyQuaternion(parent)
	}
	hit := intersect(ray, dragPlane, old)
	delta := dir.Mul(hit.Sub(old).Dot(dir))
	d := noDelta(old.Add(delta))
	d.Translation = delta
	return d
}

func (a *TranslationAxis) Pick(ray geometry.Ray, frame geometry.Transform) (float64, bool) {
	shaft := transformSegments(frame, []Segment{{B: a.direction}})
	return pickSegments(ray, shaft, PickTolerance*frame.Scale.X)
}

// Segments returns the shaft and a four line arrow head
func (a *TranslationAxis) Segments(frame geometry.Transform) []Segment {
	tip := a.direction
	base := tip.Mul(1 - arrowHead)
	u, v := orthonormal(a.direction)
	local := []Segment{{B: tip}}
	for _, side := range []geometry.Vector3{u, u.Negate(), v, v.Negate()} {
		local = append(local, Segment{A: tip, B: base.Add(side.Mul(arrowHeadWidth))})
	}
	return transformSegments(frame, local)
}

// TranslationPlane moves the object within a plane. The handle is a small
// square next to the origin between the two other axes.
type TranslationPlane struct {
	unitBase
	normal geometry.Vector3
	center geometry.Vector3
}

// NewTranslationPlane creates a plane handle with the given normal
func NewTranslationPlane(normal geometry.Vector3, c color.RGBA) *TranslationPlane {
	n := normal.Normalize()
	center := geometry.NewVector3(1, 1, 1).Sub(n.Abs()).Mul(planeHalfSize)
	return &TranslationPlane{unitBase: unitBase{color: c}, normal: n, center: center}
}

// Delta ignores the drag plane and intersects the unit's own plane
// through the previous intersection instead.
func (p *TranslationPlane) Delta(old geometry.Vector3, ray geometry.Ray, _ geometry.Plane, local bool, parent geometry.Quaternion) Delta {
	n := p.normal
	if local {
		n = n.ApplyQuaternion(parent)
	}
	hit := intersect(ray, geometry.PlaneFromNormalAndPoint(n, old), old)
	d := noDelta(hit)
	d.Translation = hit.Sub(old)
	return d
}

func (p *TranslationPlane) Pick(ray geometry.Ray, frame geometry.Transform) (float64, bool) {
	n := p.normal.ApplyQuaternion(frame.Rotation)
	hit, ok := ray.IntersectPlane(geometry.PlaneFromNormalAndPoint(n, frame.Apply(p.center)))
	if !ok {
		return 0, false
	}
	q := frame.ApplyInverse(hit).Sub(p.center).Abs()
	limit := planeHalfSize + 1e-9
	if q.X > limit || q.Y > limit || q.Z > limit {
		return 0, false
	}
	return hit.Distance(ray.Origin), true
}

func (p *TranslationPlane) Segments(frame geometry.Transform) []Segment {
	u, v := orthonormal(p.normal)
	u, v = u.Mul(planeHalfSize), v.Mul(planeHalfSize)
	c := [4]geometry.Vector3{
		p.center.Add(u).Add(v),
		p.center.Sub(u).Add(v),
		p.center.Sub(u).Sub(v),
		p.center.Add(u).Sub(v),
	}
	local := make([]Segment, 4)
	for i := range c {
		local[i] = Segment{A: c[i], B: c[(i+1)%4]}
	}
	return transformSegments(frame, local)
}

// orthonormal returns two unit vectors perpendicular to n and each other
func orthonormal(n geometry.Vector3) (geometry.Vector3, geometry.Vector3) {
	ref := geometry.NewVector3(1, 0, 0)
	if math.Abs(n.X) > 0.9 {
		ref = geometry.NewVector3(0, 1, 0)
	}
	u := n.Cross(ref).Normalize()
	return u, n.Cross(u).Normalize()
}
