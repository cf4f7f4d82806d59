package sampling

// tea mixes two 32-bit values with the given number of TEA rounds.
// Used to derive a well-distributed per-triangle seed from the triangle
// index alone, so the jitter is reproducible for a given mesh.
func tea(val0, val1 uint32, rounds int) uint32 {
	v0, v1 := val0, val1
	var sum uint32
	for n := 0; n < rounds; n++ {
		sum += 0x9e3779b9
		v0 += ((v1 << 4) + 0xa341316c) ^ (v1 + sum) ^ ((v1 >> 5) + 0xc8013ea4)
		v1 += ((v0 << 4) + 0xad90777d) ^ (v0 + sum) ^ ((v0 >> 3) + 0x7e95761e)
	}
	return v0
}

// lcg advances a linear congruential generator state and returns the low
// 24 bits of the new state.
func lcg(state *uint32) uint32 {
	const a, c = 1664525, 1013904223
	*state = a*(*state) + c
	return *state & 0x00ffffff
}

// rnd returns the next pseudo-random value in [0, 1) from the LCG state
func rnd(state *uint32) float64 {
	return float64(lcg(state)) / float64(1<<24)
}
