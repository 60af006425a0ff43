package geometry

import "math"

// Plane is the set of points p with Normal·p + Constant = 0
type Plane struct {
	Normal   Vector3
	Constant float64
}

// PlaneFromNormalAndPoint creates a plane through point with the given normal
func PlaneFromNormalAndPoint(normal, point Vector3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, Constant: -n.Dot(point)}
}

// DistanceToPoint returns the signed distance from the plane to p
func (p Plane) DistanceToPoint(point Vector3) float64 {
	return p.Normal.Dot(point) + p.Constant
}

// ProjectPoint returns the closest point on the plane
func (p Plane) ProjectPoint(point Vector3) Vector3 {
	return point.Sub(p.Normal.Mul(p.DistanceToPoint(point)))
}

// Ray is a half line used for picking
type Ray struct {
	Origin    Vector3
	Direction Vector3
}

// NewRay creates a ray with a normalized direction
func NewRay(origin, direction Vector3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vector3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectPlane returns the intersection point with the plane.
// ok is false when the ray is parallel to or points away from the plane.
func (r Ray) IntersectPlane(p Plane) (Vector3, bool) {
	denom := p.Normal.Dot(r.Direction)
	if math.Abs(denom) < 1e-12 {
		if p.DistanceToPoint(r.Origin) == 0 {
			return r.Origin, true
		}
		return Vector3{}, false
	}
	t := -(r.Origin.Dot(p.Normal) + p.Constant) / denom
	if t < 0 {
		return Vector3{}, false
	}
	return r.At(t), true
}

// IntersectBox returns the entry distance into an axis-aligned box (slab test)
func (r Ray) IntersectBox(min, max Vector3) (float64, bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		o := r.Origin.Component(axis)
		d := r.Direction.Component(axis)
		lo := min.Component(axis)
		hi := max.Component(axis)
		if math.Abs(d) < 1e-12 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return 0, true
	}
	return tmin, true
}

// DistanceToSegment returns the shortest distance between the ray and segment ab
// and the ray parameter at the closest point.
func (r Ray) DistanceToSegment(a, b Vector3) (float64, float64) {
	segDir := b.Sub(a)
	segLen := segDir.Length()
	if segLen == 0 {
		t := math.Max(0, a.Sub(r.Origin).Dot(r.Direction))
		return r.At(t).Distance(a), t
	}
	segDir = segDir.Mul(1 / segLen)

	w0 := r.Origin.Sub(a)
	bDot := r.Direction.Dot(segDir)
	d := r.Direction.Dot(w0)
	e := segDir.Dot(w0)
	denom := 1 - bDot*bDot

	s := e
	if denom >= 1e-12 {
		s = (e - bDot*d) / denom
	}
	s = math.Max(0, math.Min(segLen, s))

	closest := a.Add(segDir.Mul(s))
	t := math.Max(0, closest.Sub(r.Origin).Dot(r.Direction))
	return r.At(t).Distance(closest), t
}

// ToLocal expresses the ray in the frame of t, undoing translation,
// rotation and scale. The direction is not normalized so that distances
// along the local ray match world distances.
func (r Ray) ToLocal(t Transform) Ray {
	origin := t.ApplyInverse(r.Origin)
	dir := r.Direction.ApplyQuaternion(t.Rotation.Inverse()).Divide(t.Scale)
	return Ray{Origin: origin, Direction: dir}
}
