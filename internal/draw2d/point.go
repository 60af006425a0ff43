package draw2d

import "math"

// Point2D is a handle or template point in image coordinates
type Point2D struct {
	X, Y float64
}

// Draw fills a circle at the point. The radius is in display pixels and
// is not scaled with the image.
func (p Point2D) Draw(c Canvas, ratio float64, s Style) error {
	c.Push()
	defer c.Pop()
	SetColor(c, s)
	c.DrawCircle(p.X*ratio, p.Y*ratio, s.Radius)
	return c.Fill()
}

// Distance returns the euclidean distance to another point
func (p Point2D) Distance(o Point2D) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Line strokes a straight connection between two points
func Line(c Canvas, ratio float64, a, b Point2D, s Style) error {
	c.Push()
	defer c.Pop()
	SetColor(c, s)
	c.SetLineWidth(s.LineWidth)
	c.MoveTo(a.X*ratio, a.Y*ratio)
	c.LineTo(b.X*ratio, b.Y*ratio)
	return c.Stroke()
}
