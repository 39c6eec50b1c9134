package mixer

import "math/bits"

// DefaultSeed is the compile-time default PRNG seed.
const DefaultSeed = 21

// rot64 rotates x left by k, except that k == 0 or k == 64 both mean
// "byte-swap" rather than a no-op or undefined shift — the convention
// the mixer lowering and this PRNG share.
func rot64(x uint64, k uint) uint64 {
	if k%64 == 0 {
		return bits.ReverseBytes64(x)
	}
	return bits.RotateLeft64(x, int(k))
}

// Random is Bob Jenkins' 4-word rotate-and-mix generator. It is a
// bespoke, deterministic RNG, not math/rand: the sieve's accepted
// mixers are only reproducible under this exact algorithm, so no
// stdlib or third-party RNG can substitute for it.
type Random struct {
	a, b, c, d uint64
}

// NewRandom seeds a Random and runs the 20 warm-up iterations the
// reference implementation always performs before the first value is
// consumed by a caller.
func NewRandom(seed uint64) *Random {
	r := &Random{a: 0xdeadbeef, b: seed, c: seed, d: seed}
	for i := 0; i < 20; i++ {
		r.Value()
	}
	return r
}

// Value advances the generator and returns the next 64-bit word.
func (r *Random) Value() uint64 {
	e := r.a - rot64(r.b, 23)
	r.a = r.b ^ rot64(r.c, 16)
	r.b = r.c + rot64(r.d, 11)
	r.c = r.d + e
	r.d = e + r.a
	return r.d
}

// Intn returns Value() % n. n must be positive.
func (r *Random) Intn(n int) int {
	if n <= 0 {
		panic("mixer: Intn requires n > 0")
	}
	return int(r.Value() % uint64(n))
}

// State is a snapshot of a Random stream's four internal words, taken
// so a stream's exact position can be serialized and later restored —
// the draw count alone doesn't determine the position, since different
// consumers pull a different, data-dependent number of values per draw.
type State struct {
	A, B, C, D uint64
}

// State returns a snapshot of r's current position.
func (r *Random) State() State {
	return State{r.a, r.b, r.c, r.d}
}

// Restore sets r's position to a previously captured State.
func (r *Random) Restore(s State) {
	r.a, r.b, r.c, r.d = s.A, s.B, s.C, s.D
}
