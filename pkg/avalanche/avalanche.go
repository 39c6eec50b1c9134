// Package avalanche exercises a compiled mixer over bit-pair deltas and
// scores how thoroughly each flipped input bit propagates across the
// output state.
package avalanche

import (
	"math/bits"
	"sort"
	"unsafe"

	"github.com/oisee/spookymix-sieve/pkg/codegen"
	"github.com/oisee/spookymix-sieve/pkg/jit"
	"github.com/oisee/spookymix-sieve/pkg/mixer"
)

// Measures, Trials and Limit are fixed by the sieve's contract, not
// tunable: they are part of what "avalanches well enough" means here.
const (
	Measures = 10
	Trials   = 3
	Limit    = 3 * 64
)

// MixFunc runs one compiled mixer step in place over state, reading data.
type MixFunc func(state, data *[mixer.VARS]uint64)

// Tester runs the avalanche procedure, drawing its random trial inputs
// from a shared PRNG stream — the same stream mixer.Generator draws
// from, so that an entire sieve run (generate, compile, test) is
// reproducible end to end from one seed.
type Tester struct {
	rng *mixer.Random
}

// NewTester builds a Tester reading from rng.
func NewTester(rng *mixer.Random) *Tester {
	return &Tester{rng: rng}
}

func grayCode(x uint64) uint64 { return x ^ (x >> 1) }

// buildMeasures derives the ten comparison vectors per state variable
// from a before/after state pair.
func buildMeasures(a0, a1 *[mixer.VARS]uint64) [Measures][mixer.VARS]uint64 {
	var m [Measures][mixer.VARS]uint64
	for i := 0; i < mixer.VARS; i++ {
		m[0][i] = a0[i]
		m[1][i] = a1[i]
		m[2][i] = a0[i] ^ a1[i]
		m[3][i] = grayCode(a0[i] - a1[i])
		m[4][i] = grayCode(a0[i] + a1[i])
		for k := 0; k < 5; k++ {
			m[5+k][i] = ^m[k][i]
		}
	}
	return m
}

func flipBit(data *[mixer.VARS]uint64, bit int) {
	data[bit/64] ^= uint64(1) << uint(bit&63)
}

// oneTest runs the full (iBit, iBit2) sweep against fn once, returning
// the minimum popcount sum seen across every measure and bit pair, or
// 0 the moment any measure falls below Limit.
func (t *Tester) oneTest(fn MixFunc) int {
	min := -1
	for iBit := 0; iBit < 64; iBit++ {
		for iBit2 := iBit; iBit2 < mixer.VARS*64; iBit2++ {
			var acc [Measures][mixer.VARS]uint64

			for trial := 0; trial < Trials; trial++ {
				var a0, a1 [mixer.VARS]uint64
				for i := 0; i < mixer.VARS; i++ {
					v := t.rng.Value()
					a0[i] = v
					a1[i] = v
				}
				var data [mixer.VARS]uint64
				fn(&a0, &data)

				flipBit(&data, iBit)
				if iBit2 != iBit {
					flipBit(&data, iBit2)
				}
				fn(&a1, &data)

				measures := buildMeasures(&a0, &a1)
				for m := 0; m < Measures; m++ {
					for i := 0; i < mixer.VARS; i++ {
						acc[m][i] |= measures[m][i]
					}
				}
			}

			for m := 0; m < Measures; m++ {
				sum := 0
				for i := 0; i < mixer.VARS; i++ {
					sum += bits.OnesCount64(acc[m][i])
				}
				if sum < Limit {
					return 0
				}
				if min == -1 || sum < min {
					min = sum
				}
			}
		}
	}
	return min
}

func wrap(fn *jit.Func) MixFunc {
	return func(state, data *[mixer.VARS]uint64) {
		fn.Call(unsafe.Pointer(&state[0]), unsafe.Pointer(&data[0]))
	}
}

// robustOf5 returns the median (third order statistic) of five scores
// — a cheap, outlier-resistant estimate used in place of a plain mean.
func robustOf5(scores [5]int) int {
	s := scores
	sort.Ints(s[:])
	return s[2]
}

// Test runs the full acceptance test for mix: every starting offset in
// both the forward and backward lowering, five independent oneTest
// runs per (direction, start) reduced to a robust estimate, and the
// minimum of all those estimates as the final score. A score of 0
// means reject; a robust estimate of 0 for any (direction, start)
// fails the whole mixer immediately. A single rejecting oneTest among
// the five does not by itself reject the mixer.
func (t *Tester) Test(mix *mixer.Mixer, abi jit.ABI) int {
	best := -1
	for start := 0; start < mixer.VARS; start++ {
		for _, backward := range [2]bool{false, true} {
			fn := codegen.Compile(mix, start, abi, backward)
			var scores [5]int
			for trial := range scores {
				scores[trial] = t.oneTest(wrap(fn))
			}
			fn.Free()

			robust := robustOf5(scores)
			if robust == 0 {
				return 0
			}
			if best == -1 || robust < best {
				best = robust
			}
		}
	}
	if best == -1 {
		return 0
	}
	return best
}
