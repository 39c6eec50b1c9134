package avalanche

import (
	"testing"

	"github.com/oisee/spookymix-sieve/pkg/jit"
	"github.com/oisee/spookymix-sieve/pkg/mixer"
)

func TestGrayCode(t *testing.T) {
	cases := []struct{ x, want uint64 }{
		{0, 0},
		{1, 1},
		{2, 3},
		{3, 2},
		{0xff, 0x80},
	}
	for _, c := range cases {
		if got := grayCode(c.x); got != c.want {
			t.Errorf("grayCode(%d) = %d, want %d", c.x, got, c.want)
		}
	}
	var x uint64 = 0xdeadbeef
	if got, want := grayCode(x), x^(x>>1); got != want {
		t.Errorf("grayCode(%#x) = %#x, want %#x", x, got, want)
	}
}

func TestFlipBit(t *testing.T) {
	var data [mixer.VARS]uint64
	flipBit(&data, 0)
	if data[0] != 1 {
		t.Fatalf("flipBit(0): data[0] = %#x, want 1", data[0])
	}
	flipBit(&data, 0)
	if data[0] != 0 {
		t.Fatal("flipBit twice on same bit should restore original value")
	}
	flipBit(&data, 65)
	if data[1] != 2 {
		t.Fatalf("flipBit(65): data[1] = %#x, want 2", data[1])
	}
}

func TestBuildMeasuresComplementsMatch(t *testing.T) {
	var a0, a1 [mixer.VARS]uint64
	for i := range a0 {
		a0[i] = uint64(i) * 0x1111111111111111
		a1[i] = uint64(i) * 0x2222222222222222
	}
	m := buildMeasures(&a0, &a1)
	for k := 0; k < 5; k++ {
		for i := 0; i < mixer.VARS; i++ {
			if m[5+k][i] != ^m[k][i] {
				t.Fatalf("measure %d var %d: complement mismatch", k, i)
			}
		}
	}
}

func TestRobustOf5IsOrderIndependent(t *testing.T) {
	a := robustOf5([5]int{5, 1, 3, 2, 4})
	b := robustOf5([5]int{1, 2, 3, 4, 5})
	if a != b {
		t.Fatalf("robustOf5 depends on input order: %d vs %d", a, b)
	}
	if b != 3 {
		t.Fatalf("robustOf5({1..5}) = %d, want 3", b)
	}
}

func TestOneTestRejectsZeroFunction(t *testing.T) {
	rng := mixer.NewRandom(1)
	tester := NewTester(rng)
	zero := func(state, data *[mixer.VARS]uint64) {
		for i := range state {
			state[i] = 0
		}
	}
	if score := tester.oneTest(zero); score != 0 {
		t.Fatalf("zeroing mixer scored %d, want 0 (reject)", score)
	}
}

func TestKnownGoodPreloadAccepted(t *testing.T) {
	if testing.Short() {
		t.Skip("full avalanche sweep is expensive; skipped under -short")
	}
	rng := mixer.NewRandom(mixer.DefaultSeed)
	tester := NewTester(rng)
	mix := mixer.SpookyMix()
	abi := jit.DetectABI("linux")

	score := tester.Test(&mix, abi)
	if score <= 0 {
		t.Fatalf("SpookyMix scored %d, want > 0", score)
	}
}
