package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-gi/common"
	"github.com/Carmen-Shannon/oxy-gi/engine/geometry"
)

// ErrMalformedOBJ is returned for OBJ statements that cannot be parsed or that reference missing data.
var ErrMalformedOBJ = errors.New("malformed OBJ")

// objVertex is the de-duplication key of a face corner: position plus texture coordinate.
type objVertex struct {
	position [3]float32
	uv       [2]float32
}

// objShape accumulates the de-duplicated vertices of one object.
type objShape struct {
	lookup  map[objVertex]uint32
	mesh    geometry.Mesh
	corners []uint32
}

func newOBJShape(name string) *objShape {
	return &objShape{lookup: make(map[objVertex]uint32), mesh: geometry.Mesh{Name: name}}
}

// index returns the mesh index of v, appending it on first use.
func (s *objShape) index(v objVertex) uint32 {
	if ix, ok := s.lookup[v]; ok {
		return ix
	}
	ix := uint32(len(s.mesh.Vertices))
	s.lookup[v] = ix
	s.mesh.Vertices = append(s.mesh.Vertices, geometry.Vertex{Position: v.position, UV: v.uv})
	return ix
}

// objLoaderBackendImpl is the implementation of objLoaderBackend.
type objLoaderBackendImpl struct{}

// objLoaderBackend is a loaderBackend for Wavefront OBJ files. It reads positions, texture
// coordinates, faces and object/group statements; everything else (normals, materials,
// smoothing groups) is ignored. Polygons are fan-triangulated and texture V is flipped.
type objLoaderBackend interface {
	loaderBackend
}

var _ objLoaderBackend = &objLoaderBackendImpl{}

// newOBJLoaderBackend creates a new OBJ loader backend.
//
// Returns:
//   - objLoaderBackend: the loader backend for OBJ files
func newOBJLoaderBackend() objLoaderBackend {
	return &objLoaderBackendImpl{}
}

func (b *objLoaderBackendImpl) Load(path string) ([]geometry.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return b.LoadReader(name, f)
}

func (b *objLoaderBackendImpl) LoadReader(name string, r io.Reader) ([]geometry.Mesh, error) {
	var (
		positions [][3]float32
		uvs       [][2]float32
		shapes    []*objShape
		current   *objShape
	)

	// startShape begins a new object; an object that received no faces is replaced.
	startShape := func(shapeName string) {
		if current != nil && len(current.mesh.Indices) == 0 {
			current.mesh.Name = shapeName
			return
		}
		current = newOBJShape(shapeName)
		shapes = append(shapes, current)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		fields := strings.Fields(text)

		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", line, err)
			}
			positions = append(positions, [3]float32{p[0], p[1], p[2]})
		case "vt":
			t, err := parseFloats(fields[1:], 1)
			if err != nil {
				return nil, fmt.Errorf("line %d: texture coordinate: %w", line, err)
			}
			var v float32
			if len(t) > 1 {
				v = t[1]
			}
			uvs = append(uvs, [2]float32{t[0], 1 - v})
		case "o", "g":
			shapeName := name
			if len(fields) > 1 {
				shapeName = strings.Join(fields[1:], " ")
			}
			startShape(shapeName)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face with %d corners: %w", line, len(fields)-1, ErrMalformedOBJ)
			}
			if current == nil {
				startShape(name)
			}
			current.corners = current.corners[:0]
			for _, corner := range fields[1:] {
				v, err := parseCorner(corner, positions, uvs)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				current.corners = append(current.corners, current.index(v))
			}
			c := current.corners
			for i := 1; i+1 < len(c); i++ {
				current.mesh.Indices = append(current.mesh.Indices, c[0], c[i], c[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	meshes := make([]geometry.Mesh, 0, len(shapes))
	for _, s := range shapes {
		if len(s.mesh.Indices) == 0 {
			continue
		}
		meshes = append(meshes, s.mesh)
	}

	common.Logger().Debug("loader: obj parsed", "name", name, "objects", len(meshes), "positions", len(positions), "uvs", len(uvs))
	return meshes, nil
}

// parseFloats parses at least want float fields.
func parseFloats(fields []string, want int) ([]float32, error) {
	if len(fields) < want {
		return nil, fmt.Errorf("%d components, want %d: %w", len(fields), want, ErrMalformedOBJ)
	}
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", f, ErrMalformedOBJ)
		}
		out[i] = float32(v)
	}
	return out, nil
}

// parseCorner resolves one face corner of the form v, v/vt, v//vn or v/vt/vn.
func parseCorner(corner string, positions [][3]float32, uvs [][2]float32) (objVertex, error) {
	parts := strings.Split(corner, "/")

	pi, err := resolveIndex(parts[0], len(positions))
	if err != nil {
		return objVertex{}, fmt.Errorf("position of %q: %w", corner, err)
	}
	v := objVertex{position: positions[pi]}

	if len(parts) > 1 && parts[1] != "" {
		ti, err := resolveIndex(parts[1], len(uvs))
		if err != nil {
			return objVertex{}, fmt.Errorf("texture coordinate of %q: %w", corner, err)
		}
		v.uv = uvs[ti]
	}
	return v, nil
}

// resolveIndex turns a 1-based or negative (relative) OBJ index into a 0-based one.
func resolveIndex(s string, count int) (int, error) {
	ix, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, ErrMalformedOBJ)
	}
	switch {
	case ix > 0:
		ix--
	case ix < 0:
		ix += count
	default:
		return 0, fmt.Errorf("index 0: %w", ErrMalformedOBJ)
	}
	if ix < 0 || ix >= count {
		return 0, fmt.Errorf("index %s of %d: %w", s, count, ErrMalformedOBJ)
	}
	return ix, nil
}
