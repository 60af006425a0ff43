// Package picking maps screen pixels back to label handles. Labels draw
// themselves a second time onto a control layer in colors that encode
// their index and handle; reading a pixel decodes the hit.
package picking

const (
	handleBits = 12
	handleMask = 0x3FF
)

// EncodeControlColor packs a label index and handle index into a 24 bit
// color. Zero is reserved for the background.
func EncodeControlColor(labelIndex, handleIndex int) [3]uint8 {
	v := ((labelIndex << handleBits) | (handleIndex & handleMask)) + 1
	return [3]uint8{uint8(v >> 16), uint8(v >> 8), uint8(v)}
}

// DecodeControlColor unpacks a control color. The background decodes to
// (-1, -1).
func DecodeControlColor(c [3]uint8) (labelIndex, handleIndex int) {
	v := int(c[0])<<16 | int(c[1])<<8 | int(c[2])
	if v == 0 {
		return -1, -1
	}
	v--
	return v >> handleBits, v & handleMask
}

// MaxLabelIndex is the largest label index that survives encoding
const MaxLabelIndex = (1<<24 - 2) >> handleBits
