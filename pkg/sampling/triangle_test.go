package sampling

import (
	"math"
	"testing"

	"github.com/df07/go-ao-baker/pkg/bake"
	"github.com/df07/go-ao-baker/pkg/core"
)

func TestTriangleArea(t *testing.T) {
	tests := []struct {
		name       string
		v0, v1, v2 core.Vec3
		expected   float64
	}{
		{
			name:     "right triangle legs 3 and 4",
			v0:       core.NewVec3(0, 0, 0),
			v1:       core.NewVec3(3, 0, 0),
			v2:       core.NewVec3(0, 4, 0),
			expected: 6.0,
		},
		{
			name:     "unit right triangle",
			v0:       core.NewVec3(0, 0, 0),
			v1:       core.NewVec3(1, 0, 0),
			v2:       core.NewVec3(0, 1, 0),
			expected: 0.5,
		},
		{
			name:     "degenerate triangle",
			v0:       core.NewVec3(0, 0, 0),
			v1:       core.NewVec3(1, 1, 1),
			v2:       core.NewVec3(2, 2, 2),
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			area := triangleArea(tt.v0, tt.v1, tt.v2)
			if math.Abs(area-tt.expected) > 1e-12 {
				t.Errorf("Expected area %v, got %v", tt.expected, area)
			}
		})
	}
}

func TestSampleTriangle_Barycentrics(t *testing.T) {
	mesh := &bake.Mesh{
		Vertices: []core.Vec3{
			core.NewVec3(-2, 0, 1),
			core.NewVec3(3, 0.5, 0),
			core.NewVec3(0, 4, -1),
		},
		Triangles: [][3]int{{0, 1, 2}},
	}

	out := bake.NewAOSamples(64)
	sampleTriangle(mesh, 0, triangleRange{offset: 0, count: 64}, out, func() {})

	for i, info := range out.Infos {
		sum := 0.0
		for _, b := range info.Bary {
			if b < 0 || b > 1 {
				t.Errorf("sample %d: barycentric %v outside [0,1]", i, b)
			}
			sum += b
		}
		if math.Abs(sum-1.0) > 1e-5 {
			t.Errorf("sample %d: barycentrics sum to %v, want 1", i, sum)
		}

		// Position must be the barycentric combination of the vertices
		expected := mesh.Vertices[0].Multiply(info.Bary[0]).
			Add(mesh.Vertices[1].Multiply(info.Bary[1])).
			Add(mesh.Vertices[2].Multiply(info.Bary[2]))
		if out.Positions[i].Subtract(expected).Length() > 1e-12 {
			t.Errorf("sample %d: position %v does not match barycentrics", i, out.Positions[i])
		}

		if info.TriIdx != 0 {
			t.Errorf("sample %d: expected triangle index 0, got %d", i, info.TriIdx)
		}
	}
}

func TestSampleTriangle_NormalFallback(t *testing.T) {
	// No shading normals supplied: every sample's shading normal must be
	// the geometric normal.
	mesh := &bake.Mesh{
		Vertices: []core.Vec3{
			core.NewVec3(0, 0, 0),
			core.NewVec3(1, 0, 0),
			core.NewVec3(0, 1, 0),
		},
		Triangles: [][3]int{{0, 1, 2}},
	}

	out := bake.NewAOSamples(16)
	sampleTriangle(mesh, 0, triangleRange{offset: 0, count: 16}, out, func() {})

	expected := core.NewVec3(0, 0, 1)
	for i := range out.Infos {
		if out.FaceNormals[i].Subtract(expected).Length() > 1e-14 {
			t.Errorf("sample %d: face normal %v, want %v", i, out.FaceNormals[i], expected)
		}
		if out.Normals[i].Subtract(out.FaceNormals[i]).Length() > 1e-14 {
			t.Errorf("sample %d: shading normal %v differs from face normal %v",
				i, out.Normals[i], out.FaceNormals[i])
		}
	}
}

func TestSampleTriangle_InterpolatedNormals(t *testing.T) {
	mesh := &bake.Mesh{
		Vertices: []core.Vec3{
			core.NewVec3(0, 0, 0),
			core.NewVec3(1, 0, 0),
			core.NewVec3(0, 1, 0),
		},
		Triangles: [][3]int{{0, 1, 2}},
		Normals: []core.Vec3{
			core.NewVec3(0, 0, 1),
			core.NewVec3(0.1, 0, 1).Normalize(),
			core.NewVec3(0, 0.1, 1).Normalize(),
		},
		NormalTriangles: [][3]int{{0, 1, 2}},
	}

	out := bake.NewAOSamples(32)
	sampleTriangle(mesh, 0, triangleRange{offset: 0, count: 32}, out, func() {})

	for i := range out.Infos {
		if math.Abs(out.Normals[i].Length()-1.0) > 1e-12 {
			t.Errorf("sample %d: shading normal not unit length: %v", i, out.Normals[i])
		}
		// All vertex normals point up, so the interpolation must too
		if out.Normals[i].Z <= 0 {
			t.Errorf("sample %d: shading normal %v points away from the surface", i, out.Normals[i])
		}
	}
}

func TestSampleTriangle_DeterministicJitter(t *testing.T) {
	mesh := &bake.Mesh{
		Vertices: []core.Vec3{
			core.NewVec3(0, 0, 0),
			core.NewVec3(1, 0, 0),
			core.NewVec3(0, 1, 0),
			core.NewVec3(1, 1, 0),
		},
		Triangles: [][3]int{{0, 1, 2}, {1, 3, 2}},
	}

	a := bake.NewAOSamples(20)
	b := bake.NewAOSamples(20)
	for _, out := range []*bake.AOSamples{a, b} {
		sampleTriangle(mesh, 0, triangleRange{offset: 0, count: 10}, out, func() {})
		sampleTriangle(mesh, 1, triangleRange{offset: 10, count: 10}, out, func() {})
	}

	for i := range a.Infos {
		if a.Positions[i] != b.Positions[i] {
			t.Fatalf("sample %d: positions differ between identical runs", i)
		}
	}

	// Different triangles receive different jitter offsets, so their
	// first samples must not coincide in barycentric space
	if a.Infos[0].Bary == a.Infos[10].Bary {
		t.Error("expected per-triangle jitter to decorrelate the Halton lattice")
	}
}
