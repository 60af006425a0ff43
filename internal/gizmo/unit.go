// Package gizmo implements the translate, rotate and scale manipulators
// attached to the selected 3D labels. A controller is a set of units;
// each unit turns a pointer ray into an incremental transform.
package gizmo

import (
	"image/color"

	"github.com/philipparndt/golabel/pkg/geometry"
)

// PickTolerance is the pick distance in gizmo units. IdleAlpha fades
// units that are not highlighted.
const (
	PickTolerance = 0.08
	IdleAlpha     = 0.35
)

// Unit colors, one per axis
var (
	ColorX = color.RGBA{R: 0xff, A: 0xff}
	ColorY = color.RGBA{G: 0xff, A: 0xff}
	ColorZ = color.RGBA{B: 0xff, A: 0xff}
)

// Delta is the incremental transform produced by one pointer move.
// Scale is added to the current scale.
type Delta struct {
	Translation  geometry.Vector3
	Rotation     geometry.Quaternion
	Scale        geometry.Vector3
	Intersection geometry.Vector3
}

// Segment is a line segment in world space used to draw a unit
type Segment struct {
	A, B geometry.Vector3
}

// Unit is one handle of a controller
type Unit interface {
	// Delta returns the transform for moving the pointer from
	// oldIntersection to ray, constrained by dragPlane. parent is the
	// world rotation of the attached object, used in the local frame.
	Delta(oldIntersection geometry.Vector3, ray geometry.Ray, dragPlane geometry.Plane, local bool, parent geometry.Quaternion) Delta
	// Pick returns the ray distance to the unit drawn in frame
	Pick(ray geometry.Ray, frame geometry.Transform) (float64, bool)
	SetHighlighted(h bool)
	Highlighted() bool
	Color() color.RGBA
	Segments(frame geometry.Transform) []Segment
}

type unitBase struct {
	color       color.RGBA
	highlighted bool
}

func (u *unitBase) SetHighlighted(h bool) { u.highlighted = h }
func (u *unitBase) Highlighted() bool     { return u.highlighted }

// Color returns the unit color, faded unless highlighted
func (u *unitBase) Color() color.RGBA {
	c := u.color
	if !u.highlighted {
		c.A = uint8(float64(c.A) * IdleAlpha)
	}
	return c
}

func noDelta(old geometry.Vector3) Delta {
	return Delta{Rotation: geometry.IdentityQuaternion(), Intersection: old}
}

// intersect returns the ray hit on p, or fallback when the ray misses
func intersect(ray geometry.Ray, p geometry.Plane, fallback geometry.Vector3) geometry.Vector3 {
	if hit, ok := ray.IntersectPlane(p); ok {
		return hit
	}
	return fallback
}

// pickSegments returns the nearest hit among world segments
func pickSegments(ray geometry.Ray, segments []Segment, tolerance float64) (float64, bool) {
	best, found := 0.0, false
	for _, s := range segments {
		d, t := ray.DistanceToSegment(s.A, s.B)
		if d > tolerance {
			continue
		}
		if !found || t < best {
			best, found = t, true
		}
	}
	return best, found
}

func transformSegments(frame geometry.Transform, local []Segment) []Segment {
	out := make([]Segment, len(local))
	for i, s := range local {
		out[i] = Segment{A: frame.Apply(s.A), B: frame.Apply(s.B)}
	}
	return out
}

// boxEdges returns the twelve edges of an axis aligned box
func boxEdges(center geometry.Vector3, half float64) []Segment {
	h := geometry.NewVector3(half, half, half)
	c := geometry.BoundingBox{Min: center.Sub(h), Max: center.Add(h)}.Corners()
	pairs := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	out := make([]Segment, len(pairs))
	for i, p := range pairs {
		out[i] = Segment{A: c[p[0]], B: c[p[1]]}
	}
	return out
}
