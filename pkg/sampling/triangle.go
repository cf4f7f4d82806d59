package sampling

import (
	"math"

	"github.com/df07/go-ao-baker/pkg/bake"
	"github.com/df07/go-ao-baker/pkg/core"
)

// triangleRange is a triangle's slice of the global output buffers,
// computed up front by the allocation plan.
type triangleRange struct {
	offset int // first global sample slot owned by the triangle
	count  int // number of consecutive slots
}

// triangleArea returns half the magnitude of the cross product of two
// edge vectors.
func triangleArea(v0, v1, v2 core.Vec3) float64 {
	e0 := v1.Subtract(v0)
	e1 := v2.Subtract(v0)
	return 0.5 * e0.Cross(e1).Length()
}

// faceNormal returns the normalized geometric normal of the triangle
func faceNormal(v0, v1, v2 core.Vec3) core.Vec3 {
	e0 := v1.Subtract(v0)
	e1 := v2.Subtract(v0)
	return e0.Cross(e1).Normalize()
}

// sampleTriangle fills the triangle's slots in the global output buffers
// with low-discrepancy samples confined to that triangle. It reads only
// the triangle's own geometry and writes only slots in rng, so triangles
// can be sampled in parallel. DA is left unset; the caller fills it once
// every triangle's final sample count is known.
func sampleTriangle(mesh *bake.Mesh, triIdx int, rng triangleRange, out *bake.AOSamples, flipped func()) {
	tri := mesh.Triangles[triIdx]
	v0 := mesh.Vertices[tri[0]]
	v1 := mesh.Vertices[tri[1]]
	v2 := mesh.Vertices[tri[2]]

	geomNormal := faceNormal(v0, v1, v2)

	var n0, n1, n2 core.Vec3
	if mesh.HasNormals() {
		nidx := mesh.NormalTriangles[triIdx]
		n0 = faceforward(mesh.Normals[nidx[0]], geomNormal, flipped)
		n1 = faceforward(mesh.Normals[nidx[1]], geomNormal, flipped)
		n2 = faceforward(mesh.Normals[nidx[2]], geomNormal, flipped)
	} else {
		// Missing vertex normals, so use the face normal
		n0 = geomNormal
		n1 = geomNormal
		n2 = geomNormal
	}

	// Deterministic per-triangle offset to shift the Halton points,
	// decorrelating the lattice across triangles
	seed := tea(uint32(triIdx), uint32(triIdx), 4)
	offset := core.NewVec2(rnd(&seed), rnd(&seed))

	for i := 0; i < rng.count; i++ {
		slot := rng.offset + i

		// Low-discrepancy point in the unit square, 1-based within the
		// triangle's own sequence
		r1 := offset.X + Halton(uint32(i)+1, 2)
		r1 -= math.Floor(r1)
		r2 := offset.Y + Halton(uint32(i)+1, 3)
		r2 -= math.Floor(r2)

		// Map to the triangle. Ref: PBRT 2nd edition, section 13.6.4
		sqrtR1 := math.Sqrt(r1)
		b0 := 1.0 - sqrtR1
		b1 := r2 * sqrtR1
		b2 := 1.0 - b0 - b1

		out.Positions[slot] = v0.Multiply(b0).Add(v1.Multiply(b1)).Add(v2.Multiply(b2))
		out.Normals[slot] = n0.Multiply(b0).Add(n1.Multiply(b1)).Add(n2.Multiply(b2)).Normalize()
		out.FaceNormals[slot] = geomNormal

		out.Infos[slot].TriIdx = triIdx
		out.Infos[slot].Bary = [3]float64{b0, b1, b2}
	}
}
