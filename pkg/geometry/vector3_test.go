package geometry

import (
	"math"
	"testing"
)

func TestVector3Add(t *testing.T) {
	v1 := NewVector3(1, 2, 3)
	v2 := NewVector3(4, 5, 6)
	result := v1.Add(v2)

	expected := NewVector3(5, 7, 9)
	if result != expected {
		t.Errorf("Add failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Sub(t *testing.T) {
	v1 := NewVector3(5, 7, 9)
	v2 := NewVector3(1, 2, 3)
	result := v1.Sub(v2)

	expected := NewVector3(4, 5, 6)
	if result != expected {
		t.Errorf("Sub failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Length(t *testing.T) {
	v := NewVector3(3, 4, 0)
	length := v.Length()

	expected := 5.0
	if math.Abs(length-expected) > 1e-10 {
		t.Errorf("Length failed: expected %v, got %v", expected, length)
	}
}

func TestVector3Distance(t *testing.T) {
	v1 := NewVector3(0, 0, 0)
	v2 := NewVector3(3, 4, 0)
	distance := v1.Distance(v2)

	expected := 5.0
	if math.Abs(distance-expected) > 1e-10 {
		t.Errorf("Distance failed: expected %v, got %v", expected, distance)
	}
}

func TestVector3Normalize(t *testing.T) {
	v := NewVector3(3, 4, 0)
	normalized := v.Normalize()

	expectedLength := 1.0
	actualLength := normalized.Length()

	if math.Abs(actualLength-expectedLength) > 1e-10 {
		t.Errorf("Normalize failed: expected length %v, got %v", expectedLength, actualLength)
	}
}

func TestVector3Cross(t *testing.T) {
	v1 := NewVector3(1, 0, 0)
	v2 := NewVector3(0, 1, 0)
	result := v1.Cross(v2)

	expected := NewVector3(0, 0, 1)
	if result != expected {
		t.Errorf("Cross failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Dot(t *testing.T) {
	v1 := NewVector3(1, 2, 3)
	v2 := NewVector3(4, 5, 6)
	result := v1.Dot(v2)

	expected := 32.0 // 1*4 + 2*5 + 3*6 = 32
	if math.Abs(result-expected) > 1e-10 {
		t.Errorf("Dot failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Lerp(t *testing.T) {
	a := NewVector3(0, 2, -4)
	b := NewVector3(10, 4, 4)

	if result := a.Lerp(b, 0.25); result != NewVector3(2.5, 2.5, -2) {
		t.Errorf("Lerp failed: expected %v, got %v", NewVector3(2.5, 2.5, -2), result)
	}
	if result := a.Lerp(b, 0); result != a {
		t.Errorf("Lerp at 0 failed: expected %v, got %v", a, result)
	}
	if result := a.Lerp(b, 1); result != b {
		t.Errorf("Lerp at 1 failed: expected %v, got %v", b, result)
	}
}

func TestVector3ApplyQuaternion(t *testing.T) {
	v := NewVector3(1, 0, 0)
	q := QuaternionFromAxisAngle(NewVector3(0, 0, 1), math.Pi/2)
	result := v.ApplyQuaternion(q)

	expected := NewVector3(0, 1, 0)
	if !result.Equals(expected, 1e-10) {
		t.Errorf("ApplyQuaternion failed: expected %v, got %v", expected, result)
	}
	if length := result.Length(); math.Abs(length-1) > 1e-10 {
		t.Errorf("ApplyQuaternion changed the length: got %v", length)
	}
}

func TestVector3Equals(t *testing.T) {
	v := NewVector3(1, 2, 3)
	if !v.Equals(NewVector3(1+1e-9, 2, 3-1e-9), 1e-8) {
		t.Error("Equals failed: vectors within eps should be equal")
	}
	if v.Equals(NewVector3(1, 2.1, 3), 1e-8) {
		t.Error("Equals failed: vectors differing in Y should not be equal")
	}
}
