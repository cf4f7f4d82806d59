package bake

import (
	"fmt"

	"github.com/df07/go-ao-baker/pkg/core"
)

// SampleInfo carries the per-sample metadata the downstream integrator
// needs to weight each sample's contribution.
type SampleInfo struct {
	TriIdx int        // owning triangle index
	Bary   [3]float64 // barycentric coordinates within the triangle
	DA     float64    // differential area represented by this sample
}

// AOSamples holds the generated surface samples as four parallel arrays,
// all indexed by the same global sample index. The sampler writes into
// these buffers but never allocates or resizes them.
type AOSamples struct {
	Positions   []core.Vec3  // world-space sample positions
	Normals     []core.Vec3  // interpolated shading normals (unit)
	FaceNormals []core.Vec3  // geometric triangle normals (unit)
	Infos       []SampleInfo // triangle index, barycentrics, dA
}

// NewAOSamples allocates output buffers for exactly n samples
func NewAOSamples(n int) *AOSamples {
	return &AOSamples{
		Positions:   make([]core.Vec3, n),
		Normals:     make([]core.Vec3, n),
		FaceNormals: make([]core.Vec3, n),
		Infos:       make([]SampleInfo, n),
	}
}

// NumSamples returns the capacity of the output buffers
func (s *AOSamples) NumSamples() int {
	return len(s.Infos)
}

// Validate checks that all four buffers exist and hold exactly n slots
func (s *AOSamples) Validate(n int) error {
	if s == nil {
		return fmt.Errorf("nil output buffers")
	}
	if len(s.Positions) != n || len(s.Normals) != n || len(s.FaceNormals) != n || len(s.Infos) != n {
		return fmt.Errorf("output buffers sized %d/%d/%d/%d, want %d for all",
			len(s.Positions), len(s.Normals), len(s.FaceNormals), len(s.Infos), n)
	}
	return nil
}
