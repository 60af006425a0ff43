package geometry

import (
	"math"
	"testing"
)

func TestRayIntersectPlane(t *testing.T) {
	ray := NewRay(NewVector3(0, 0, 10), NewVector3(0, 0, -1))
	plane := PlaneFromNormalAndPoint(NewVector3(0, 0, 1), NewVector3(0, 0, 2))

	point, ok := ray.IntersectPlane(plane)
	if !ok {
		t.Fatalf("IntersectPlane failed: expected a hit")
	}
	expected := NewVector3(0, 0, 2)
	if !point.Equals(expected, 1e-10) {
		t.Errorf("IntersectPlane failed: expected %v, got %v", expected, point)
	}

	behind := NewRay(NewVector3(0, 0, 10), NewVector3(0, 0, 1))
	if _, ok := behind.IntersectPlane(plane); ok {
		t.Errorf("IntersectPlane should miss a plane behind the ray")
	}
}

func TestRayIntersectBox(t *testing.T) {
	ray := NewRay(NewVector3(-5, 0, 0), NewVector3(1, 0, 0))
	dist, ok := ray.IntersectBox(NewVector3(-1, -1, -1), NewVector3(1, 1, 1))
	if !ok {
		t.Fatalf("IntersectBox failed: expected a hit")
	}
	if math.Abs(dist-4) > 1e-10 {
		t.Errorf("IntersectBox failed: expected distance 4, got %v", dist)
	}

	miss := NewRay(NewVector3(-5, 3, 0), NewVector3(1, 0, 0))
	if _, ok := miss.IntersectBox(NewVector3(-1, -1, -1), NewVector3(1, 1, 1)); ok {
		t.Errorf("IntersectBox should miss")
	}
}

func TestRayDistanceToSegment(t *testing.T) {
	ray := NewRay(NewVector3(0, 0, 10), NewVector3(0, 0, -1))
	dist, param := ray.DistanceToSegment(NewVector3(1, -1, 0), NewVector3(1, 1, 0))

	if math.Abs(dist-1) > 1e-10 {
		t.Errorf("DistanceToSegment failed: expected 1, got %v", dist)
	}
	if math.Abs(param-10) > 1e-10 {
		t.Errorf("DistanceToSegment failed: expected ray parameter 10, got %v", param)
	}
}

func TestRayToLocal(t *testing.T) {
	tr := Transform{
		Position: NewVector3(10, 0, 0),
		Rotation: QuaternionFromAxisAngle(NewVector3(0, 0, 1), math.Pi/2),
		Scale:    NewVector3(2, 2, 2),
	}
	ray := NewRay(NewVector3(10, 0, 5), NewVector3(0, 0, -1))
	local := ray.ToLocal(tr)

	if !local.Origin.Equals(NewVector3(0, 0, 2.5), 1e-10) {
		t.Errorf("ToLocal origin failed: got %v", local.Origin)
	}
	if _, ok := local.IntersectBox(NewVector3(-0.5, -0.5, -0.5), NewVector3(0.5, 0.5, 0.5)); !ok {
		t.Errorf("local ray should hit the unit box")
	}
}
