// Package sampling generates deterministic, area-weighted sample points
// over the surface of a triangulated mesh. Samples are placed with a
// low-discrepancy distribution inside each triangle and carry the
// interpolated shading normal, the geometric normal, and the differential
// area each sample represents, so that per-sample values can later be
// integrated over the surface.
package sampling

// Halton returns the index-th term of the radix-inverse (Halton) sequence
// for the given base, a value in [0, 1). The sequence is conventionally
// indexed from 1; index 0 returns 0.
// Ref: https://en.wikipedia.org/wiki/Halton_sequence
func Halton(index, base uint32) float64 {
	result := 0.0
	invBase := 1.0 / float64(base)
	f := invBase
	for i := index; i > 0; i /= base {
		result += f * float64(i%base)
		f *= invBase
	}
	return result
}
