package picking

import (
	"math"
	"sync"

	"github.com/gogpu/gg"
	"github.com/philipparndt/golabel/internal/draw2d"
)

type regionKind int

const (
	regionRect regionKind = iota
	regionCircle
	regionSegment
)

type region struct {
	kind       regionKind
	label      int
	handle     int
	filled     bool
	halfWidth  float64
	x, y, w, h float64
	x2, y2     float64
}

func (r region) hit(px, py float64) bool {
	switch r.kind {
	case regionCircle:
		d := math.Hypot(px-r.x, py-r.y)
		if r.filled {
			return d <= r.w
		}
		return math.Abs(d-r.w) <= r.halfWidth
	case regionSegment:
		return segmentDistance(px, py, r.x, r.y, r.x2, r.y2) <= r.halfWidth
	}
	inside := px >= r.x && px <= r.x+r.w && py >= r.y && py <= r.y+r.h
	if r.filled {
		return inside
	}
	x1, y1, x2, y2 := r.x, r.y, r.x+r.w, r.y+r.h
	d := math.Min(
		math.Min(segmentDistance(px, py, x1, y1, x2, y1), segmentDistance(px, py, x2, y1, x2, y2)),
		math.Min(segmentDistance(px, py, x2, y2, x1, y2), segmentDistance(px, py, x1, y2, x1, y1)),
	)
	return d <= r.halfWidth
}

func segmentDistance(px, py, ax, ay, bx, by float64) float64 {
	dx, dy := bx-ax, by-ay
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	t := math.Max(0, math.Min(1, ((px-ax)*dx+(py-ay)*dy)/l2))
	return math.Hypot(px-(ax+t*dx), py-(ay+t*dy))
}

// BoundsPicker is a Buffer that records drawn outlines geometrically
// instead of rasterizing them. Later drawings are on top.
type BoundsPicker struct {
	mu      sync.Mutex
	regions []region

	label, handle int
	lineWidth     float64
	pending       []region
	penX, penY    float64
}

var (
	_ Buffer        = (*BoundsPicker)(nil)
	_ draw2d.Canvas = (*BoundsPicker)(nil)
)

// NewBoundsPicker creates an empty picker
func NewBoundsPicker() *BoundsPicker {
	return &BoundsPicker{label: -1, handle: -1, lineWidth: 1}
}

// Clear drops all recorded regions
func (b *BoundsPicker) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.regions = nil
	b.pending = nil
}

// Draw records the outlines fn draws
func (b *BoundsPicker) Draw(fn func(draw2d.Canvas)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b)
}

// Pick returns the topmost region containing the 4x4 block center
func (b *BoundsPicker) Pick(x, y int) (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	px := float64(x) + SampleSize/2
	py := float64(y) + SampleSize/2
	for i := len(b.regions) - 1; i >= 0; i-- {
		if r := b.regions[i]; r.hit(px, py) {
			return r.label, r.handle
		}
	}
	return -1, -1
}

func (b *BoundsPicker) Push() {}
func (b *BoundsPicker) Pop()  {}

// SetRGBA decodes the current control color
func (b *BoundsPicker) SetRGBA(r, g, bl, _ float64) {
	b.label, b.handle = DecodeControlColor([3]uint8{to8(r), to8(g), to8(bl)})
}

func to8(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, v*255)))
}

func (b *BoundsPicker) SetLineWidth(width float64) { b.lineWidth = width }
func (b *BoundsPicker) SetDash(...float64)         {}
func (b *BoundsPicker) ClearDash()                 {}

func (b *BoundsPicker) DrawRectangle(x, y, w, h float64) {
	b.pending = append(b.pending, region{kind: regionRect, x: x, y: y, w: w, h: h})
}

func (b *BoundsPicker) DrawCircle(x, y, r float64) {
	b.pending = append(b.pending, region{kind: regionCircle, x: x, y: y, w: r})
}

func (b *BoundsPicker) MoveTo(x, y float64) {
	b.penX, b.penY = x, y
}

func (b *BoundsPicker) LineTo(x, y float64) {
	b.pending = append(b.pending, region{kind: regionSegment, x: b.penX, y: b.penY, x2: x, y2: y})
	b.penX, b.penY = x, y
}

func (b *BoundsPicker) Stroke() error {
	b.flush(false)
	return nil
}

func (b *BoundsPicker) Fill() error {
	b.flush(true)
	return nil
}

func (b *BoundsPicker) DrawImage(*gg.ImageBuf, float64, float64) {}

func (b *BoundsPicker) flush(filled bool) {
	for _, r := range b.pending {
		if b.label < 0 {
			continue
		}
		r.label, r.handle = b.label, b.handle
		r.filled = filled
		r.halfWidth = b.lineWidth / 2
		b.regions = append(b.regions, r)
	}
	b.pending = nil
}
