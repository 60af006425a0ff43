package pointcloud

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/philipparndt/golabel/pkg/geometry"
)

// stlTriangleSize is the size of one binary STL facet: normal, three
// vertices and the attribute byte count
const stlTriangleSize = 12*4 + 2

// ParseMesh reads the vertices of an ASCII or binary STL mesh as a cloud.
// Vertices shared by several facets are added once.
func ParseMesh(r io.Reader) (*Cloud, error) {
	br := bufio.NewReader(r)
	header, _ := br.Peek(80)
	if bytes.HasPrefix(header, []byte("solid")) && !isBinarySTL(header) {
		return parseASCIISTL(br)
	}
	return parseBinarySTL(br)
}

// isBinarySTL catches binary files whose 80 byte header starts with
// "solid" anyway, which some exporters write. ASCII files have a
// printable header.
func isBinarySTL(header []byte) bool {
	for _, b := range header {
		if b == 0 {
			return true
		}
	}
	return false
}

type meshBuilder struct {
	cloud *Cloud
	seen  map[geometry.Vector3]struct{}
}

func newMeshBuilder() *meshBuilder {
	return &meshBuilder{cloud: NewCloud(""), seen: map[geometry.Vector3]struct{}{}}
}

func (m *meshBuilder) add(v geometry.Vector3) {
	if _, ok := m.seen[v]; ok {
		return
	}
	m.seen[v] = struct{}{}
	m.cloud.AddPoint(v)
}

func parseASCIISTL(r io.Reader) (*Cloud, error) {
	scanner := bufio.NewScanner(r)
	mesh := newMeshBuilder()
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != "vertex" {
			continue
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("%w: line %d: vertex needs 3 coordinates", ErrFormat, line)
		}
		var xyz [3]float64
		for i := range xyz {
			v, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
			}
			xyz[i] = v
		}
		mesh.add(geometry.NewVector3(xyz[0], xyz[1], xyz[2]))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}
	return mesh.cloud, nil
}

func parseBinarySTL(r io.Reader) (*Cloud, error) {
	header := make([]byte, 80)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %v", ErrFormat, err)
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: failed to read triangle count: %v", ErrFormat, err)
	}

	mesh := newMeshBuilder()
	buf := make([]byte, stlTriangleSize)
	for i := range count {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("%w: failed to read triangle %d: %v", ErrFormat, i, err)
		}
		// skip the normal
		for v := range 3 {
			off := 12 + v*12
			mesh.add(geometry.NewVector3(
				float64(readFloat32(buf[off:])),
				float64(readFloat32(buf[off+4:])),
				float64(readFloat32(buf[off+8:])),
			))
		}
	}
	return mesh.cloud, nil
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
