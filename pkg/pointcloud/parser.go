package pointcloud

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/philipparndt/golabel/pkg/geometry"
)

// ErrFormat is returned for files that are not valid PLY or XYZ
var ErrFormat = errors.New("invalid point cloud")

// Parse reads a point cloud file. Files ending in .stl are read as a mesh
// whose vertices form the cloud. PLY files are detected by their magic
// line, everything else is read as whitespace separated XYZ.
func Parse(filename string) (*Cloud, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	parse := ParseReader
	if strings.EqualFold(filepath.Ext(filename), ".stl") {
		parse = ParseMesh
	}
	cloud, err := parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	cloud.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return cloud, nil
}

// ParseReader reads a PLY or XYZ point cloud from r
func ParseReader(r io.Reader) (*Cloud, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err == nil && string(magic[:3]) == "ply" && (magic[3] == '\n' || magic[3] == '\r') {
		return parsePLY(br)
	}
	return parseXYZ(br)
}

// parseXYZ reads "x y z [r g b]" lines. Lines starting with # are skipped.
func parseXYZ(r io.Reader) (*Cloud, error) {
	scanner := bufio.NewScanner(r)
	cloud := NewCloud("")
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if len(fields) < 3 {
			return nil, fmt.Errorf("%w: line %d has %d values", ErrFormat, line, len(fields))
		}
		var v [6]float64
		n := min(len(fields), 6)
		for i := 0; i < n; i++ {
			f, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
			}
			v[i] = f
		}
		p := geometry.NewVector3(v[0], v[1], v[2])
		if n == 6 {
			cloud.AddColoredPoint(p, [3]uint8{colorByte(v[3]), colorByte(v[4]), colorByte(v[5])})
		} else {
			cloud.AddPoint(p)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading XYZ: %w", err)
	}
	return cloud, nil
}

func colorByte(v float64) uint8 {
	if v <= 1 && v > 0 && v != math.Trunc(v) {
		v *= 255
	}
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

type plyFormat int

const (
	plyASCII plyFormat = iota
	plyBinaryLE
)

type plyProperty struct {
	name string
	kind string
	list bool
	// count type of a list property
	countKind string
}

type plyElement struct {
	name       string
	count      int
	properties []plyProperty
}

type plyHeader struct {
	format   plyFormat
	elements []plyElement
}

func parsePLYHeader(r *bufio.Reader) (plyHeader, error) {
	var h plyHeader
	formatSeen := false
	for {
		raw, err := r.ReadString('\n')
		if err != nil {
			return h, fmt.Errorf("%w: unterminated header", ErrFormat)
		}
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "ply", "comment", "obj_info":
		case "format":
			if len(fields) < 2 {
				return h, fmt.Errorf("%w: bad format line", ErrFormat)
			}
			switch fields[1] {
			case "ascii":
				h.format = plyASCII
			case "binary_little_endian":
				h.format = plyBinaryLE
			default:
				return h, fmt.Errorf("%w: unsupported format %q", ErrFormat, fields[1])
			}
			formatSeen = true
		case "element":
			if len(fields) < 3 {
				return h, fmt.Errorf("%w: bad element line", ErrFormat)
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil || n < 0 {
				return h, fmt.Errorf("%w: bad element count %q", ErrFormat, fields[2])
			}
			h.elements = append(h.elements, plyElement{name: fields[1], count: n})
		case "property":
			if len(h.elements) == 0 {
				return h, fmt.Errorf("%w: property before element", ErrFormat)
			}
			el := &h.elements[len(h.elements)-1]
			switch {
			case len(fields) == 5 && fields[1] == "list":
				el.properties = append(el.properties, plyProperty{name: fields[4], kind: fields[3], list: true, countKind: fields[2]})
			case len(fields) == 3:
				el.properties = append(el.properties, plyProperty{name: fields[2], kind: fields[1]})
			default:
				return h, fmt.Errorf("%w: bad property line", ErrFormat)
			}
		case "end_header":
			if !formatSeen {
				return h, fmt.Errorf("%w: missing format", ErrFormat)
			}
			return h, nil
		default:
			return h, fmt.Errorf("%w: unknown header keyword %q", ErrFormat, fields[0])
		}
	}
}

// parsePLY reads the vertex element of a PLY file. Vertex properties
// other than position and color are skipped, as are all other elements.
func parsePLY(r *bufio.Reader) (*Cloud, error) {
	h, err := parsePLYHeader(r)
	if err != nil {
		return nil, err
	}
	cloud := NewCloud("")

	var values valueReader
	if h.format == plyASCII {
		values = &asciiValues{scanner: newWordScanner(r)}
	} else {
		values = &binaryValues{r: r}
	}

	for _, el := range h.elements {
		if el.name != "vertex" {
			if err := skipElement(values, el); err != nil {
				return nil, err
			}
			continue
		}
		if err := readVertices(values, el, cloud); err != nil {
			return nil, err
		}
	}
	return cloud, nil
}

func readVertices(values valueReader, el plyElement, cloud *Cloud) error {
	index := map[string]int{}
	for i, p := range el.properties {
		index[p.name] = i
	}
	for _, name := range []string{"x", "y", "z"} {
		if _, ok := index[name]; !ok {
			return fmt.Errorf("%w: vertex has no %s property", ErrFormat, name)
		}
	}
	_, hasRed := index["red"]
	_, hasGreen := index["green"]
	_, hasBlue := index["blue"]
	colored := hasRed && hasGreen && hasBlue

	row := make([]float64, len(el.properties))
	for i := 0; i < el.count; i++ {
		for j, p := range el.properties {
			if p.list {
				if err := skipList(values, p); err != nil {
					return fmt.Errorf("vertex %d: %w", i, err)
				}
				continue
			}
			v, err := values.next(p.kind)
			if err != nil {
				return fmt.Errorf("vertex %d: %w", i, err)
			}
			row[j] = v
		}
		pt := geometry.NewVector3(row[index["x"]], row[index["y"]], row[index["z"]])
		if colored {
			cloud.AddColoredPoint(pt, [3]uint8{
				plyColor(row[index["red"]], el.properties[index["red"]].kind),
				plyColor(row[index["green"]], el.properties[index["green"]].kind),
				plyColor(row[index["blue"]], el.properties[index["blue"]].kind),
			})
		} else {
			cloud.AddPoint(pt)
		}
	}
	return nil
}

func plyColor(v float64, kind string) uint8 {
	if kind == "float" || kind == "float32" || kind == "double" || kind == "float64" {
		v *= 255
	}
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

func skipElement(values valueReader, el plyElement) error {
	for i := 0; i < el.count; i++ {
		for _, p := range el.properties {
			if p.list {
				if err := skipList(values, p); err != nil {
					return fmt.Errorf("%s %d: %w", el.name, i, err)
				}
				continue
			}
			if _, err := values.next(p.kind); err != nil {
				return fmt.Errorf("%s %d: %w", el.name, i, err)
			}
		}
	}
	return nil
}

func skipList(values valueReader, p plyProperty) error {
	n, err := values.next(p.countKind)
	if err != nil {
		return err
	}
	for k := 0; k < int(n); k++ {
		if _, err := values.next(p.kind); err != nil {
			return err
		}
	}
	return nil
}

// valueReader reads one scalar of a PLY type
type valueReader interface {
	next(kind string) (float64, error)
}

type asciiValues struct {
	scanner *bufio.Scanner
}

func newWordScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)
	return s
}

func (a *asciiValues) next(kind string) (float64, error) {
	if _, err := typeSize(kind); err != nil {
		return 0, err
	}
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("%w: unexpected end of data", ErrFormat)
	}
	v, err := strconv.ParseFloat(a.scanner.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return v, nil
}

type binaryValues struct {
	r   io.Reader
	buf [8]byte
}

func typeSize(kind string) (int, error) {
	switch kind {
	case "char", "int8", "uchar", "uint8":
		return 1, nil
	case "short", "int16", "ushort", "uint16":
		return 2, nil
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4, nil
	case "double", "float64":
		return 8, nil
	}
	return 0, fmt.Errorf("%w: unknown property type %q", ErrFormat, kind)
}

func (b *binaryValues) next(kind string) (float64, error) {
	n, err := typeSize(kind)
	if err != nil {
		return 0, err
	}
	buf := b.buf[:n]
	if _, err := io.ReadFull(b.r, buf); err != nil {
		return 0, fmt.Errorf("%w: unexpected end of data", ErrFormat)
	}
	le := binary.LittleEndian
	switch kind {
	case "char", "int8":
		return float64(int8(buf[0])), nil
	case "uchar", "uint8":
		return float64(buf[0]), nil
	case "short", "int16":
		return float64(int16(le.Uint16(buf))), nil
	case "ushort", "uint16":
		return float64(le.Uint16(buf)), nil
	case "int", "int32":
		return float64(int32(le.Uint32(buf))), nil
	case "uint", "uint32":
		return float64(le.Uint32(buf)), nil
	case "float", "float32":
		return float64(math.Float32frombits(le.Uint32(buf))), nil
	default:
		return math.Float64frombits(le.Uint64(buf)), nil
	}
}
