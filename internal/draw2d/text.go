package draw2d

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/gogpu/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// TagFontSize is the point size of tag text
const TagFontSize = 14

// TagRenderer rasterizes short label texts into cached images
type TagRenderer struct {
	face  font.Face
	mu    sync.Mutex
	cache map[string]*gg.ImageBuf
}

// NewTagRenderer loads the Go regular font at the given size
func NewTagRenderer(size float64) (*TagRenderer, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse tag font: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	return &TagRenderer{face: face, cache: map[string]*gg.ImageBuf{}}, nil
}

// Measure returns the pixel size of a text including padding
func (r *TagRenderer) Measure(text string) (int, int) {
	const padding = 4
	advance := font.MeasureString(r.face, text)
	metrics := r.face.Metrics()
	return advance.Ceil() + padding*2, metrics.Height.Ceil() + padding*2
}

// Render draws text on a filled background box
func (r *TagRenderer) Render(text string, fg, bg color.Color) *image.RGBA {
	const padding = 4
	w, h := r.Measure(text)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: r.face,
		Dot:  fixed.Point26_6{X: fixed.I(padding), Y: fixed.I(padding) + r.face.Metrics().Ascent},
	}
	d.DrawString(text)
	return img
}

// Draw places a cached rendering of text on the canvas at display position x, y
func (r *TagRenderer) Draw(c Canvas, x, y float64, text string, fg, bg [3]uint8) {
	key := fmt.Sprintf("%s|%v|%v", text, fg, bg)
	r.mu.Lock()
	buf, ok := r.cache[key]
	if !ok {
		img := r.Render(text,
			color.RGBA{R: fg[0], G: fg[1], B: fg[2], A: 255},
			color.RGBA{R: bg[0], G: bg[1], B: bg[2], A: 255})
		buf = gg.ImageBufFromImage(img)
		r.cache[key] = buf
	}
	r.mu.Unlock()
	c.DrawImage(buf, x, y)
}
