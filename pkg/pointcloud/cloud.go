// Package pointcloud reads point cloud files in PLY and XYZ format, and
// the vertices of STL meshes.
package pointcloud

import "github.com/philipparndt/golabel/pkg/geometry"

// Cloud is a list of points with optional per point colors
type Cloud struct {
	Name   string
	Points []geometry.Vector3
	// Colors is nil when the file carries no colors
	Colors [][3]uint8
	Bounds geometry.BoundingBox
}

// NewCloud creates an empty cloud
func NewCloud(name string) *Cloud {
	return &Cloud{Name: name, Bounds: geometry.NewBoundingBox()}
}

// AddPoint appends a point and grows the bounds
func (c *Cloud) AddPoint(p geometry.Vector3) {
	c.Points = append(c.Points, p)
	c.Bounds.Extend(p)
}

// AddColoredPoint appends a point with a color
func (c *Cloud) AddColoredPoint(p geometry.Vector3, rgb [3]uint8) {
	if c.Colors == nil {
		c.Colors = make([][3]uint8, len(c.Points), cap(c.Points))
	}
	c.AddPoint(p)
	c.Colors = append(c.Colors, rgb)
}

// Len returns the number of points
func (c *Cloud) Len() int {
	return len(c.Points)
}

// Color returns the color of point i, white when the cloud has none
func (c *Cloud) Color(i int) [3]uint8 {
	if i < 0 || i >= len(c.Colors) {
		return [3]uint8{255, 255, 255}
	}
	return c.Colors[i]
}

// PointColor returns the file color of point i, or a blue to orange ramp
// over the height when the cloud has no colors
func (c *Cloud) PointColor(i int) [3]uint8 {
	if c.Colors != nil {
		return c.Color(i)
	}
	t := 0.5
	if span := c.Bounds.Max.Z - c.Bounds.Min.Z; span > 0 {
		t = (c.Points[i].Z - c.Bounds.Min.Z) / span
	}
	t = max(0, min(1, t))
	return [3]uint8{uint8(80 + 175*t), uint8(140 + 60*t), uint8(255 - 205*t)}
}
