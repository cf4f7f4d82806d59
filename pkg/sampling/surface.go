package sampling

import (
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/df07/go-ao-baker/pkg/bake"
)

// Config contains the parameters for surface sampling
type Config struct {
	MinSamplesPerTriangle int         // floor placed on every triangle, may be 0
	Workers               int         // sampling goroutines; 0 = NumCPU, 1 = sequential
	Diagnostics           Diagnostics // nil = log through the global zap logger
}

// SurfaceSampler distributes a target number of samples over a mesh in
// proportion to triangle surface area and fills in each sample's
// differential area. A sampler is safe to reuse across meshes; the
// normal-flip diagnostic fires at most once per sampler.
type SurfaceSampler struct {
	config   Config
	diag     Diagnostics
	flipOnce sync.Once
}

// NewSurfaceSampler creates a surface sampler with the given configuration
func NewSurfaceSampler(config Config) *SurfaceSampler {
	if config.MinSamplesPerTriangle < 0 {
		panic("sampling: MinSamplesPerTriangle must be non-negative")
	}
	diag := config.Diagnostics
	if diag == nil {
		diag = NewLogDiagnostics(zap.L())
	}
	return &SurfaceSampler{config: config, diag: diag}
}

// notifyFlip collapses per-corner flip notifications into a single
// advisory diagnostic. Races between triangles are benign: sync.Once
// guarantees exactly one delivery.
func (s *SurfaceSampler) notifyFlip() {
	s.flipOnce.Do(s.diag.NormalsFlipped)
}

// SampleSurface fills the caller-allocated output buffers with exactly
// out.NumSamples() samples distributed over the mesh. Violated
// preconditions (invalid mesh, undersized buffers, target below the
// per-triangle floor) are caller bugs and panic; no partial output is
// produced in that case.
func (s *SurfaceSampler) SampleSurface(mesh *bake.Mesh, out *bake.AOSamples) {
	if mesh == nil {
		panic("sampling: nil mesh")
	}
	if err := mesh.Validate(); err != nil {
		panic(fmt.Sprintf("sampling: invalid mesh: %v", err))
	}

	if out == nil {
		panic("sampling: nil output buffers")
	}

	target := out.NumSamples()
	if err := out.Validate(target); err != nil {
		panic(fmt.Sprintf("sampling: invalid output buffers: %v", err))
	}

	numTriangles := mesh.NumTriangles()
	minSamples := s.config.MinSamplesPerTriangle
	if target < numTriangles*minSamples {
		panic(fmt.Sprintf("sampling: target of %d samples is below the floor of %d triangles x %d",
			target, numTriangles, minSamples))
	}

	areas, meshArea := triangleAreas(mesh)
	counts := s.planSampleCounts(areas, meshArea, target)

	s.placeSamples(mesh, counts, out)
	assignDifferentialAreas(areas, counts, out)
}

// triangleAreas computes each triangle's surface area and the mesh total
func triangleAreas(mesh *bake.Mesh) (areas []float64, meshArea float64) {
	areas = make([]float64, mesh.NumTriangles())
	for i, tri := range mesh.Triangles {
		areas[i] = triangleArea(mesh.Vertices[tri[0]], mesh.Vertices[tri[1]], mesh.Vertices[tri[2]])
		meshArea += areas[i]
	}
	return areas, meshArea
}

// planSampleCounts decides every triangle's final sample count. Three
// phases, in an order that determines which triangles receive the
// rounding leftovers:
//  1. every triangle gets the configured floor, covering even
//     zero-area triangles;
//  2. the remainder is split proportionally to area, truncating toward
//     zero, greedily in index order (a mesh with no area at all
//     degenerates to an even split);
//  3. the truncation shortfall is handed out one sample per triangle in
//     index order until the target is reached.
func (s *SurfaceSampler) planSampleCounts(areas []float64, meshArea float64, target int) []int {
	numTriangles := len(areas)
	counts := make([]int, numTriangles)

	// Phase 1: minimum samples per triangle
	placed := 0
	for i := range counts {
		counts[i] = s.config.MinSamplesPerTriangle
		placed += counts[i]
	}

	// Phase 2: area-proportional allocation of the remainder. With no
	// area to weight by, every triangle gets an even share instead.
	remainder := target - placed
	for i := 0; i < numTriangles && placed < target; i++ {
		var n int
		if meshArea > 0 {
			n = int(float64(remainder) * areas[i] / meshArea)
		} else {
			n = remainder / numTriangles
		}
		if left := target - placed; n > left {
			n = left
		}
		counts[i] += n
		placed += n
	}

	// Truncation underestimates, so the shortfall is bounded by the
	// triangle count
	if target-placed > numTriangles {
		panic(fmt.Sprintf("sampling: proportional allocation left %d samples unplaced for %d triangles",
			target-placed, numTriangles))
	}

	// Phase 3: hand out the shortfall one sample at a time
	for i := 0; i < numTriangles && placed < target; i++ {
		counts[i]++
		placed++
	}

	if placed != target {
		panic(fmt.Sprintf("sampling: placed %d samples, want %d", placed, target))
	}
	return counts
}

// placeSamples runs the per-triangle sampler over the allocation plan.
// Each triangle owns a disjoint slice of the output buffers, so the work
// fans out across workers with no synchronization beyond the WaitGroup.
func (s *SurfaceSampler) placeSamples(mesh *bake.Mesh, counts []int, out *bake.AOSamples) {
	ranges := make([]triangleRange, len(counts))
	offset := 0
	for i, c := range counts {
		ranges[i] = triangleRange{offset: offset, count: c}
		offset += c
	}

	numWorkers := s.config.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(ranges) {
		numWorkers = len(ranges)
	}

	if numWorkers <= 1 {
		for i := range ranges {
			sampleTriangle(mesh, i, ranges[i], out, s.notifyFlip)
		}
		return
	}

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			for i := start; i < len(ranges); i += numWorkers {
				sampleTriangle(mesh, i, ranges[i], out, s.notifyFlip)
			}
		}(w)
	}
	wg.Wait()
}

// assignDifferentialAreas sets dA = area / count for every sample, in a
// single pass in triangle order. dA times the triangle's sample count
// reproduces the triangle's area by construction.
func assignDifferentialAreas(areas []float64, counts []int, out *bake.AOSamples) {
	k := 0
	for i, c := range counts {
		if c == 0 {
			panic(fmt.Sprintf("sampling: triangle %d received no samples", i))
		}
		dA := areas[i] / float64(c)
		for j := 0; j < c; j++ {
			out.Infos[k].DA = dA
			k++
		}
	}
}
