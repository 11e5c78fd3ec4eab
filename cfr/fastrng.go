package cfr

import "math/rand"

// fastRand is a small, seedable PCG32-style generator used by MCCFR so a
// run is bit-identical given an identical seed, environment, and
// schedule. math/rand's top-level source is process-global and not
// suitable for that guarantee, so each solver owns one instance.
type fastRand struct {
	state uint64
	inc   uint64
}

const (
	pcgMultiplier = 6364136223846793005
)

func newFastRand(seed, seq int64) *fastRand {
	r := &fastRand{}
	r.inc = (uint64(seq) << 1) | 1
	r.step()
	r.state += uint64(seed)
	r.step()
	return r
}

func (r *fastRand) step() {
	r.state = r.state*pcgMultiplier + r.inc
}

// Uint32 returns the next pseudo-random uint32.
func (r *fastRand) Uint32() uint32 {
	old := r.state
	r.step()
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)
	return (xorshifted >> rot) | (xorshifted << ((-rot) & 31))
}

// Float64 returns a pseudo-random float64 in [0, 1).
func (r *fastRand) Float64() float64 {
	return float64(r.Uint32()) / (1 << 32)
}

// Intn returns a pseudo-random int in [0, n).
func (r *fastRand) Intn(n int) int {
	if n <= 0 {
		panic("cfr: Intn called with n <= 0")
	}
	return int(r.Float64() * float64(n))
}

// wrapperSource adapts fastRand to math/rand.Source64 so it can back a
// *rand.Rand for callers that want the standard distribution helpers
// (rand.Rand.Shuffle, etc.) on top of the same reproducible stream.
type wrapperSource struct{ r *fastRand }

func (w wrapperSource) Uint64() uint64 {
	hi := uint64(w.r.Uint32())
	lo := uint64(w.r.Uint32())
	return hi<<32 | lo
}

func (w wrapperSource) Int63() int64 {
	return int64(w.Uint64() >> 1)
}

func (w wrapperSource) Seed(int64) {}

// newRand returns a *rand.Rand backed by a fastRand seeded with seed,
// for algorithms that want rand.Rand's convenience API.
func newRand(seed int64) *rand.Rand {
	return rand.New(wrapperSource{r: newFastRand(seed, 0)})
}
