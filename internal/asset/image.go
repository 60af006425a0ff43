package asset

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register gif decoder
	_ "image/jpeg" // register jpeg decoder
	_ "image/png"  // register png decoder
	"io"
	"os"

	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"  // register bmp decoder
	_ "golang.org/x/image/tiff" // register tiff decoder
	_ "golang.org/x/image/webp" // register webp decoder
)

// sniffLen is the header size filetype needs to match every image type
const sniffLen = 262

// OpenImage reads and decodes an image file
func OpenImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	return DecodeImage(f)
}

// DecodeImage checks the header of r for a known image type and decodes
// the image
func DecodeImage(r io.Reader) (image.Image, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	head = head[:n]
	if !filetype.IsImage(head) {
		return nil, fmt.Errorf("%w: not an image", ErrUnsupported)
	}
	kind, _ := filetype.Match(head)
	img, _, err := image.Decode(io.MultiReader(bytes.NewReader(head), r))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupported, kind.MIME.Value, err)
	}
	return img, nil
}

// Upscale resizes img by ratio for drawing on a high resolution canvas
func Upscale(img image.Image, ratio float64) *image.RGBA {
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*ratio))
	h := max(1, int(float64(b.Dy())*ratio))
	return transform.Resize(img, w, h, transform.Linear)
}
