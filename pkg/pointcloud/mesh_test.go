package pointcloud

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/golabel/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asciiSTL = `solid wedge
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 0 1 0
      vertex 0 0 2
    endloop
  endfacet
endsolid wedge
`

func binarySTL(t *testing.T, triangles [][3][3]float32) []byte {
	t.Helper()
	var buf bytes.Buffer
	header := make([]byte, 80)
	copy(header, "solid exported")
	buf.Write(header)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(len(triangles))))
	for _, tri := range triangles {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, [3]float32{0, 0, 1}))
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, tri))
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(0)))
	}
	return buf.Bytes()
}

func TestParseASCIIMesh(t *testing.T) {
	cloud, err := ParseMesh(strings.NewReader(asciiSTL))
	require.NoError(t, err)

	assert.Equal(t, 4, cloud.Len(), "shared vertices are added once")
	assert.Equal(t, geometry.NewVector3(0, 0, 2), cloud.Points[3])
	assert.Equal(t, 2.0, cloud.Bounds.Max.Z)
}

func TestParseBinaryMesh(t *testing.T) {
	data := binarySTL(t, [][3][3]float32{
		{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		{{1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
	})
	cloud, err := ParseMesh(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 4, cloud.Len())
	assert.Equal(t, geometry.NewVector3(1, 1, 0), cloud.Points[3])

	_, err = ParseMesh(bytes.NewReader(data[:len(data)-10]))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestParseMeshFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wedge.STL")
	require.NoError(t, os.WriteFile(path, []byte(asciiSTL), 0o644))

	cloud, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "wedge", cloud.Name)
	assert.Equal(t, 4, cloud.Len())
}
