// Package bake defines the mesh input and sample output types shared by
// the surface sampler and the scene loaders.
package bake

import (
	"fmt"

	"github.com/df07/go-ao-baker/pkg/core"
)

// Mesh is a read-only triangulated mesh. Vertex normals are optional;
// when present, NormalTriangles must be present too (and vice versa),
// providing one normal-index triplet per triangle.
type Mesh struct {
	Vertices  []core.Vec3
	Triangles [][3]int

	Normals         []core.Vec3
	NormalTriangles [][3]int
}

// NumTriangles returns the number of triangles in the mesh
func (m *Mesh) NumTriangles() int {
	return len(m.Triangles)
}

// HasNormals reports whether the mesh carries per-vertex shading normals
func (m *Mesh) HasNormals() bool {
	return len(m.Normals) > 0
}

// Validate checks the structural invariants of the mesh: non-empty
// geometry, in-bounds indices, and normals paired with normal triangles.
func (m *Mesh) Validate() error {
	if len(m.Vertices) == 0 {
		return fmt.Errorf("mesh has no vertices")
	}
	if len(m.Triangles) == 0 {
		return fmt.Errorf("mesh has no triangles")
	}
	if (len(m.Normals) > 0) != (len(m.NormalTriangles) > 0) {
		return fmt.Errorf("mesh normals and normal triangles must be supplied together")
	}
	if len(m.NormalTriangles) > 0 && len(m.NormalTriangles) != len(m.Triangles) {
		return fmt.Errorf("mesh has %d normal triangles for %d triangles",
			len(m.NormalTriangles), len(m.Triangles))
	}

	for i, tri := range m.Triangles {
		for _, v := range tri {
			if v < 0 || v >= len(m.Vertices) {
				return fmt.Errorf("triangle %d: vertex index %d out of range [0, %d)",
					i, v, len(m.Vertices))
			}
		}
	}
	for i, tri := range m.NormalTriangles {
		for _, n := range tri {
			if n < 0 || n >= len(m.Normals) {
				return fmt.Errorf("triangle %d: normal index %d out of range [0, %d)",
					i, n, len(m.Normals))
			}
		}
	}

	return nil
}
