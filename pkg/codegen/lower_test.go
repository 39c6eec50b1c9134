package codegen

import (
	"testing"
	"unsafe"

	"github.com/oisee/spookymix-sieve/pkg/jit"
	"github.com/oisee/spookymix-sieve/pkg/mixer"
)

func abi() jit.ABI { return jit.DetectABI("linux") }

func runMixer(t *testing.T, fn *jit.Func, state, data *[mixer.VARS]uint64) {
	t.Helper()
	fn.Call(unsafe.Pointer(&state[0]), unsafe.Pointer(&data[0]))
}

func TestCompileForwardIsDeterministic(t *testing.T) {
	mix := mixer.SpookyMix()
	fn := Compile(&mix, 0, abi(), false)
	defer fn.Free()

	var state1, state2 [mixer.VARS]uint64
	var data [mixer.VARS]uint64
	for i := range state1 {
		state1[i] = uint64(i) * 0x0101010101010101
		state2[i] = state1[i]
		data[i] = uint64(i+1) * 7
	}

	runMixer(t, fn, &state1, &data)
	data2 := data
	runMixer(t, fn, &state2, &data2)

	if state1 != state2 {
		t.Fatalf("forward mixer not deterministic: %v vs %v", state1, state2)
	}
}

func TestCompileForwardChangesState(t *testing.T) {
	mix := mixer.SpookyMix()
	fn := Compile(&mix, 0, abi(), false)
	defer fn.Free()

	var state, data [mixer.VARS]uint64
	for i := range data {
		data[i] = uint64(i + 1)
	}
	before := state
	runMixer(t, fn, &state, &data)

	if state == before {
		t.Fatal("mixer left state unchanged given nonzero data")
	}
}

func TestCompileBackwardRuns(t *testing.T) {
	mix := mixer.SpookyMix()
	fn := Compile(&mix, 0, abi(), true)
	defer fn.Free()

	var state, data [mixer.VARS]uint64
	for i := range data {
		data[i] = uint64(i + 3)
	}
	runMixer(t, fn, &state, &data)
}

func TestCompileAllStartOffsets(t *testing.T) {
	mix := mixer.SpookyMix()
	for start := 0; start < mixer.VARS; start++ {
		for _, backward := range []bool{false, true} {
			fn := Compile(&mix, start, abi(), backward)
			var state, data [mixer.VARS]uint64
			data[0] = 1
			runMixer(t, fn, &state, &data)
			fn.Free()
		}
	}
}

func TestCompileRejectsOutOfRangeStart(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range start")
		}
	}()
	mix := mixer.SpookyMix()
	Compile(&mix, mixer.VARS, abi(), false)
}

func TestGeneratedMixerCompiles(t *testing.T) {
	g := mixer.NewGenerator(mixer.DefaultSeed)
	mix := g.Generate()

	fwd := Compile(&mix, 0, abi(), false)
	defer fwd.Free()
	bwd := Compile(&mix, 0, abi(), true)
	defer bwd.Free()

	var state, data [mixer.VARS]uint64
	data[3] = 0xdeadbeef
	runMixer(t, fwd, &state, &data)
	runMixer(t, bwd, &state, &data)
}
