package viewer

import (
	"math"

	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/pkg/geometry"
)

// Camera limits
const (
	DefaultFOV  = math.Pi / 4
	MinDistance = 0.1
	// MinPolarAngle keeps the view direction away from the vertical axis
	MinPolarAngle = 0.05
)

// Camera is a perspective camera looking at a target
type Camera struct {
	Position geometry.Vector3
	Target   geometry.Vector3
	Up       geometry.Vector3
	FOV      float64 // vertical field of view in radians
}

// NewCamera creates a Z-up camera positioned to view a bounding box
func NewCamera(bbox geometry.BoundingBox) *Camera {
	center := bbox.Center()
	size := bbox.Size()
	distance := math.Max(size.X, math.Max(size.Y, size.Z)) * 2.0
	if distance < MinDistance {
		distance = 10
	}

	return &Camera{
		Position: center.Add(geometry.NewVector3(0, -distance, distance).Mul(1 / math.Sqrt2)),
		Target:   center,
		Up:       geometry.NewVector3(0, 0, 1),
		FOV:      DefaultFOV,
	}
}

// FromViewerConfig creates the camera of a point cloud viewer
func FromViewerConfig(cfg state.PointCloudViewerConfig) *Camera {
	up := cfg.VerticalAxis
	if up.Length() == 0 {
		up = geometry.NewVector3(0, 0, 1)
	}
	return &Camera{Position: cfg.Position, Target: cfg.Target, Up: up.Normalize(), FOV: DefaultFOV}
}

// ViewerConfig converts the camera back into a viewer config
func (c *Camera) ViewerConfig() state.PointCloudViewerConfig {
	return state.PointCloudViewerConfig{Position: c.Position, Target: c.Target, VerticalAxis: c.Up}
}

// Distance returns the distance to the target
func (c *Camera) Distance() float64 {
	return c.Target.Distance(c.Position)
}

// Forward returns the unit view direction
func (c *Camera) Forward() geometry.Vector3 {
	return c.Target.Sub(c.Position).Normalize()
}

// basis returns the right, up and forward vectors of the view
func (c *Camera) basis() (right, up, forward geometry.Vector3) {
	forward = c.Forward()
	right = forward.Cross(c.Up).Normalize()
	if right.Length() == 0 {
		// looking along the up axis
		right = forward.Cross(geometry.NewVector3(0, 1, 0)).Normalize()
	}
	up = right.Cross(forward).Normalize()
	return right, up, forward
}

// Project projects a 3D point to 2D screen coordinates
func (c *Camera) Project(point geometry.Vector3, width, height float64) (float64, float64, float64) {
	right, up, forward := c.basis()

	// Transform to camera space
	relative := point.Sub(c.Position)
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := relative.Dot(forward)

	// Perspective projection
	if z <= 0.01 {
		z = 0.01 // Prevent division by zero
	}

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	screenX := (x/(z*fovScale*aspect))*(width/2) + (width / 2)
	screenY := (-y/(z*fovScale))*(height/2) + (height / 2)

	return screenX, screenY, z
}

// Ray returns the picking ray through normalized device coordinates,
// both in [-1, 1] with y pointing up
func (c *Camera) Ray(ndcX, ndcY, aspect float64) geometry.Ray {
	right, up, forward := c.basis()
	fovScale := math.Tan(c.FOV / 2)
	dir := forward.Add(right.Mul(ndcX * fovScale * aspect)).Add(up.Mul(ndcY * fovScale))
	return geometry.NewRay(c.Position, dir)
}

// Unproject converts 2D screen coordinates back to a picking ray
func (c *Camera) Unproject(screenX, screenY, width, height float64) geometry.Ray {
	ndcX := (2.0 * screenX / width) - 1.0
	ndcY := 1.0 - (2.0 * screenY / height)
	return c.Ray(ndcX, ndcY, width/height)
}

// Orbit rotates the position around the target, yaw around the up axis
// and pitch around the right axis. The pitch stops short of the poles.
func (c *Camera) Orbit(yaw, pitch float64) {
	offset := c.Position.Sub(c.Target)
	up := c.Up.Normalize()
	offset = offset.ApplyQuaternion(geometry.QuaternionFromAxisAngle(up, yaw))

	polar := math.Acos(clamp(offset.Normalize().Dot(up), -1, 1))
	next := clamp(polar-pitch, MinPolarAngle, math.Pi-MinPolarAngle)
	// rotating around up x offset moves the offset away from up
	if axis := up.Cross(offset); axis.Length() > 1e-12 {
		offset = offset.ApplyQuaternion(geometry.QuaternionFromAxisAngle(axis.Normalize(), next-polar))
	}
	c.Position = c.Target.Add(offset)
}

// Dolly moves the position towards the target by factor, keeping at least
// MinDistance
func (c *Camera) Dolly(factor float64) {
	offset := c.Position.Sub(c.Target)
	d := math.Max(offset.Length()*factor, MinDistance)
	c.Position = c.Target.Add(offset.Normalize().Mul(d))
}

// Translate moves position and target together
func (c *Camera) Translate(delta geometry.Vector3) {
	c.Position = c.Position.Add(delta)
	c.Target = c.Target.Add(delta)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
