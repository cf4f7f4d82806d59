package loaders

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-ao-baker/pkg/bake"
	"github.com/df07/go-ao-baker/pkg/core"
)

// LoadOBJ loads an ASCII Wavefront OBJ mesh. Supported statements are
// v, vn and f; faces may use the v, v/vt, v//vn and v/vt/vn index forms,
// negative (relative) indices, and are fan-triangulated when they have
// more than three corners. Vertex normals are kept only if every face
// supplies normal indices; a partial set cannot be interpolated and is
// dropped.
func LoadOBJ(filename string) (*bake.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	mesh := &bake.Mesh{}
	allFacesHaveNormals := true
	lineNum := 0

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			p, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid vertex: %w", lineNum, err)
			}
			mesh.Vertices = append(mesh.Vertices, p)

		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid normal: %w", lineNum, err)
			}
			mesh.Normals = append(mesh.Normals, n)

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNum)
			}

			verts := make([]int, 0, len(fields)-1)
			norms := make([]int, 0, len(fields)-1)
			faceHasNormals := true
			for _, ref := range fields[1:] {
				v, n, hasNormal, err := parseFaceRef(ref, len(mesh.Vertices), len(mesh.Normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
				verts = append(verts, v)
				norms = append(norms, n)
				faceHasNormals = faceHasNormals && hasNormal
			}
			if !faceHasNormals {
				allFacesHaveNormals = false
			}

			// Fan triangulation for polygons
			for i := 1; i+1 < len(verts); i++ {
				mesh.Triangles = append(mesh.Triangles, [3]int{verts[0], verts[i], verts[i+1]})
				mesh.NormalTriangles = append(mesh.NormalTriangles, [3]int{norms[0], norms[i], norms[i+1]})
			}

		default:
			// vt, o, g, s, usemtl, mtllib carry nothing the sampler needs
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read OBJ file: %w", err)
	}

	if !allFacesHaveNormals || len(mesh.Normals) == 0 {
		mesh.Normals = nil
		mesh.NormalTriangles = nil
	}

	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("invalid OBJ mesh: %w", err)
	}
	return mesh, nil
}

// parseVec3 parses three whitespace-separated floats
func parseVec3(fields []string) (core.Vec3, error) {
	if len(fields) < 3 {
		return core.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	var comps [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid component %q", fields[i])
		}
		comps[i] = v
	}
	return core.NewVec3(comps[0], comps[1], comps[2]), nil
}

// parseFaceRef parses one face corner reference of the form v, v/vt,
// v//vn or v/vt/vn, resolving 1-based and negative indices to 0-based.
func parseFaceRef(ref string, numVertices, numNormals int) (vertIdx, normIdx int, hasNormal bool, err error) {
	parts := strings.Split(ref, "/")

	vertIdx, err = resolveIndex(parts[0], numVertices)
	if err != nil {
		return 0, 0, false, fmt.Errorf("invalid vertex reference %q: %w", ref, err)
	}

	if len(parts) >= 3 && parts[2] != "" {
		normIdx, err = resolveIndex(parts[2], numNormals)
		if err != nil {
			return 0, 0, false, fmt.Errorf("invalid normal reference %q: %w", ref, err)
		}
		hasNormal = true
	}
	return vertIdx, normIdx, hasNormal, nil
}

// resolveIndex converts a 1-based or negative OBJ index to 0-based
func resolveIndex(s string, count int) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case idx > 0:
		idx--
	case idx < 0:
		idx += count
	default:
		return 0, fmt.Errorf("index 0 is not valid")
	}
	if idx < 0 || idx >= count {
		return 0, fmt.Errorf("index %s out of range [1, %d]", s, count)
	}
	return idx, nil
}
