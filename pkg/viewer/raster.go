package viewer

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Raster is an RGBA image with a depth buffer for software previews
type Raster struct {
	img    *image.RGBA
	zbuffer []float64
}

// NewRaster creates a raster cleared to bg
func NewRaster(width, height int, bg color.RGBA) *Raster {
	img := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	zbuffer := make([]float64, img.Bounds().Dx()*img.Bounds().Dy())
	for i := range zbuffer {
		zbuffer[i] = math.Inf(1)
	}
	return &Raster{img: img, zbuffer: zbuffer}
}

// Image returns the rendered image
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// Plot draws a square point of size pixels centered at x, y if it is
// closer than what was drawn there before
func (r *Raster) Plot(x, y, z float64, size int, col color.RGBA) {
	bounds := r.img.Bounds()
	width := bounds.Max.X
	half := size / 2
	cx, cy := int(math.Round(x)), int(math.Round(y))
	for py := cy - half; py < cy-half+size; py++ {
		for px := cx - half; px < cx-half+size; px++ {
			if px < 0 || py < 0 || px >= bounds.Max.X || py >= bounds.Max.Y {
				continue
			}
			// Depth test - draw if closer (smaller z)
			idx := py*width + px
			if z < r.zbuffer[idx] {
				r.zbuffer[idx] = z
				r.img.SetRGBA(px, py, col)
			}
		}
	}
}

// Line draws a line on top of everything using Bresenham's algorithm
func (r *Raster) Line(x1, y1, x2, y2 int, col color.RGBA) {
	bounds := r.img.Bounds()

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx, sy := -1, -1
	if x1 < x2 {
		sx = 1
	}
	if y1 < y2 {
		sy = 1
	}

	err := dx - dy

	for {
		// Check bounds
		if x1 >= 0 && x1 < bounds.Max.X && y1 >= 0 && y1 < bounds.Max.Y {
			r.img.SetRGBA(x1, y1, col)
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
