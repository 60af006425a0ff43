package viewer

import (
	"image"
	"image/color"
	"math"

	"github.com/philipparndt/golabel/pkg/geometry"
	"github.com/philipparndt/golabel/pkg/pointcloud"
)

// nearPlane is the smallest camera depth that is drawn
const nearPlane = 0.01

// maxLineLength bounds projected lines so that segments passing close to
// the camera do not stall the rasterizer
const maxLineLength = 1 << 14

// Segment is a colored line in world space
type Segment struct {
	A, B  geometry.Vector3
	Color color.RGBA
}

// Preview renders a point cloud and label outlines without a GPU
type Preview struct {
	Camera     *Camera
	Width      int
	Height     int
	PointSize  int
	Background color.RGBA
}

// NewPreview creates a preview of the given size looking at bounds
func NewPreview(bounds geometry.BoundingBox, width, height int) *Preview {
	return &Preview{
		Camera:     NewCamera(bounds),
		Width:      width,
		Height:     height,
		PointSize:  2,
		Background: color.RGBA{R: 15, G: 18, B: 25, A: 255},
	}
}

// Render draws the cloud with depth testing and the segments on top.
// cloud may be nil.
func (p *Preview) Render(cloud *pointcloud.Cloud, segments []Segment) *image.RGBA {
	r := NewRaster(p.Width, p.Height, p.Background)
	w, h := float64(p.Width), float64(p.Height)

	if cloud != nil {
		for i, pt := range cloud.Points {
			x, y, z, ok := p.project(pt, w, h)
			if !ok {
				continue
			}
			c := cloud.PointColor(i)
			r.Plot(x, y, z, p.PointSize, color.RGBA{R: c[0], G: c[1], B: c[2], A: 255})
		}
	}

	for _, s := range segments {
		x1, y1, _, ok1 := p.project(s.A, w, h)
		x2, y2, _, ok2 := p.project(s.B, w, h)
		if !ok1 || !ok2 {
			continue
		}
		if math.Abs(x2-x1) > maxLineLength || math.Abs(y2-y1) > maxLineLength {
			continue
		}
		r.Line(int(math.Round(x1)), int(math.Round(y1)), int(math.Round(x2)), int(math.Round(y2)), s.Color)
	}
	return r.Image()
}

// project returns screen coordinates and depth of points in front of the
// camera
func (p *Preview) project(pt geometry.Vector3, w, h float64) (float64, float64, float64, bool) {
	if pt.Sub(p.Camera.Position).Dot(p.Camera.Forward()) <= nearPlane {
		return 0, 0, 0, false
	}
	x, y, z := p.Camera.Project(pt, w, h)
	return x, y, z, true
}
