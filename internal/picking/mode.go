package picking

import "image"

// SampleSize is the edge length of the sampled neighbourhood
const SampleSize = 4

// Mode returns the most frequent value. Ties go to the value seen first.
// An empty slice returns zero.
func Mode(values []int) int {
	counts := make(map[int]int, len(values))
	top := 0
	for _, v := range values {
		counts[v]++
		top = max(top, counts[v])
	}
	for _, v := range values {
		if counts[v] == top {
			return v
		}
	}
	return 0
}

// SampleMode decodes the control colors of the 4x4 block anchored at
// x, y and returns the most frequent hit. Pixels outside the image and
// transparent pixels count as background.
func SampleMode(img image.Image, x, y int) (labelIndex, handleIndex int) {
	if img == nil {
		return -1, -1
	}
	b := img.Bounds()
	values := make([]int, 0, SampleSize*SampleSize)
	for dy := 0; dy < SampleSize; dy++ {
		for dx := 0; dx < SampleSize; dx++ {
			px, py := b.Min.X+x+dx, b.Min.Y+y+dy
			if !(image.Point{X: px, Y: py}).In(b) {
				values = append(values, 0)
				continue
			}
			r, g, bl, a := img.At(px, py).RGBA()
			if a>>8 < 255 {
				values = append(values, 0)
				continue
			}
			values = append(values, int(r>>8)<<16|int(g>>8)<<8|int(bl>>8))
		}
	}
	v := Mode(values)
	return DecodeControlColor([3]uint8{uint8(v >> 16), uint8(v >> 8), uint8(v)})
}
