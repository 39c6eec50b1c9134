// Package codegen lowers a mixer program (pkg/mixer) into compiled
// native functions via pkg/jit, in both a forward and a structurally
// asymmetric backward form.
package codegen

import (
	"fmt"

	"github.com/oisee/spookymix-sieve/pkg/jit"
	"github.com/oisee/spookymix-sieve/pkg/mixer"
)

// vreg maps a state variable index in [0, VARS) onto its virtual
// register; VS0..VS(VARS-1) carry the twelve state words, leaving
// VS(VARS) (VS12) unused — the 13th state VReg the ISA provides but
// this sieve's fixed VARS=12 template never needs.
func vreg(i int) jit.VReg {
	return jit.VS0 + jit.VReg(i)
}

// Compile lowers mix into a compiled func(state, data *[VARS]uint64)
// using a fixed rotation-window starting offset. When backward is
// false this is the forward lowering; when true it is the structurally
// asymmetric backward lowering — a second, distinct mixer, not a
// mathematical inverse.
func Compile(mix *mixer.Mixer, start int, abi jit.ABI, backward bool) *jit.Func {
	if start < 0 || start >= mixer.VARS {
		panic(fmt.Sprintf("codegen: start offset %d out of range [0,%d)", start, mixer.VARS))
	}
	b := jit.NewBuilder(abi)

	for i := 0; i < mixer.VARS; i++ {
		b.Load(vreg(i), jit.Mem{Base: jit.VArg0, Disp8: 8 * i})
	}

	if backward {
		lowerBackward(b, mix, start)
	} else {
		lowerForward(b, mix, start)
	}

	for i := 0; i < mixer.VARS; i++ {
		b.Store(jit.Mem{Base: jit.VArg0, Disp8: 8 * i}, vreg(i))
	}

	return b.Finalize()
}

func lowerForward(b *jit.Builder, mix *mixer.Mixer, start int) {
	for iVar := 0; iVar < mixer.VARS; iVar++ {
		feed(b, mix.Op[0], vreg(iVar), 8*iVar)

		for iOp := 1; iOp < mixer.OPS; iOp++ {
			dst := vreg((mix.V1[iOp] + iVar) % mixer.VARS)
			src := vreg((mix.V2[iOp] + iVar) % mixer.VARS)
			dispatch(b, mix.Op[iOp], dst, src, mix.Shift[start+iVar])
		}
	}
}

func lowerBackward(b *jit.Builder, mix *mixer.Mixer, start int) {
	for iVar := mixer.VARS - 1; iVar >= 0; iVar-- {
		stateIdx := (iVar + 1) % mixer.VARS
		dataIdx := mixer.VARS - iVar - 1
		feed(b, flipOp(mix.Op[0]), vreg(stateIdx), 8*dataIdx)

		for iOp := mixer.OPS - 1; iOp >= 1; iOp-- {
			dst := vreg((mix.V1[iOp] + iVar) % mixer.VARS)
			src := vreg((mix.V2[iOp] + iVar) % mixer.VARS)
			op := flipOp(mix.Op[iOp])
			shift := (64 - mix.Shift[start+iVar]) % 64
			dispatch(b, op, dst, src, shift)
		}
	}
}

// feed emits the read-modify memory form of op against [VArg1+disp8],
// the mixer's data-injection step.
func feed(b *jit.Builder, op mixer.OpKind, dst jit.VReg, disp8 int) {
	m := jit.Mem{Base: jit.VArg1, Disp8: disp8}
	switch op {
	case mixer.ADD:
		b.AddMem(dst, m)
	case mixer.SUB:
		b.SubMem(dst, m)
	case mixer.XOR:
		b.XorMem(dst, m)
	default:
		panic(fmt.Sprintf("codegen: injection op must be ADD/SUB/XOR, got %v", op))
	}
}

// dispatch emits one non-injection op. shift is only meaningful for
// ROT; 0 and 64 (mod 64 == 0) both mean byte-swap rather than a
// rotation.
func dispatch(b *jit.Builder, op mixer.OpKind, dst, src jit.VReg, shift int) {
	switch op {
	case mixer.ADD:
		b.Add(dst, src)
	case mixer.SUB:
		b.Sub(dst, src)
	case mixer.XOR:
		b.Xor(dst, src)
	case mixer.ROT:
		if shift%64 == 0 {
			b.Bswap(dst)
		} else {
			b.Rol(dst, shift%64)
		}
	default:
		panic(fmt.Sprintf("codegen: unknown op kind %v", op))
	}
}

// flipOp swaps ADD<->SUB for the backward lowering; XOR and ROT are
// unaffected (ROT's inversion is carried entirely in its shift amount).
func flipOp(op mixer.OpKind) mixer.OpKind {
	switch op {
	case mixer.ADD:
		return mixer.SUB
	case mixer.SUB:
		return mixer.ADD
	default:
		return op
	}
}
