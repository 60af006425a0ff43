package draw2d

import "math"

// Rect2D is a rectangle in image coordinates
type Rect2D struct {
	X, Y, W, H float64
}

// NewRect2D builds a normalized rectangle from two corners
func NewRect2D(x1, y1, x2, y2 float64) Rect2D {
	return Rect2D{
		X: math.Min(x1, x2),
		Y: math.Min(y1, y2),
		W: math.Abs(x2 - x1),
		H: math.Abs(y2 - y1),
	}
}

// Draw strokes the rectangle scaled by the display ratio
func (r Rect2D) Draw(c Canvas, ratio float64, s Style) error {
	c.Push()
	defer c.Pop()
	SetColor(c, s)
	c.SetLineWidth(s.LineWidth)
	if s.Dashed {
		c.SetDash(6, 3)
	} else {
		c.ClearDash()
	}
	c.DrawRectangle(r.X*ratio, r.Y*ratio, r.W*ratio, r.H*ratio)
	return c.Stroke()
}

// Contains reports whether the point lies inside the rectangle
func (r Rect2D) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Center returns the rectangle center
func (r Rect2D) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Area returns the rectangle area
func (r Rect2D) Area() float64 {
	return r.W * r.H
}
