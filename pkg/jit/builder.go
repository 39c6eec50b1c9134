package jit

import "unsafe"

// Builder emits one straight-line function body into a CodeBuffer,
// translating VReg/Mem operands into physical x86-64 encodings under a
// chosen ABI. It owns the prologue (save callee-saved registers) and
// epilogue (restore + ret); callers only ever see VRegs.
type Builder struct {
	buf  *CodeBuffer
	abi  ABI
	regs *[NumVRegs]r86
	done bool
}

// NewBuilder allocates a CodeBuffer and emits the prologue.
func NewBuilder(abi ABI) *Builder {
	b := &Builder{buf: NewCodeBuffer(), abi: abi, regs: vregMap(abi)}
	for _, r := range calleeSaved(abi) {
		emitPush(b.buf, r)
	}
	return b
}

func (b *Builder) phys(v VReg) r86 {
	v.check()
	return b.regs[v]
}

// Add emits dst += src.
func (b *Builder) Add(dst, src VReg) { emitOPrr(b.buf, opADD, b.phys(dst), b.phys(src)) }

// Sub emits dst -= src.
func (b *Builder) Sub(dst, src VReg) { emitOPrr(b.buf, opSUB, b.phys(dst), b.phys(src)) }

// Xor emits dst ^= src.
func (b *Builder) Xor(dst, src VReg) { emitOPrr(b.buf, opXOR, b.phys(dst), b.phys(src)) }

// Rol emits dst = rotate-left(dst, count). count must be in [0,64).
func (b *Builder) Rol(dst VReg, count int) { b.shift(extROL, dst, count) }

// Ror emits dst = rotate-right(dst, count). count must be in [0,64).
func (b *Builder) Ror(dst VReg, count int) { b.shift(extROR, dst, count) }

// Shl emits dst <<= count. count must be in [0,64).
func (b *Builder) Shl(dst VReg, count int) { b.shift(extSHL, dst, count) }

// Shr emits dst >>= count (logical). count must be in [0,64).
func (b *Builder) Shr(dst VReg, count int) { b.shift(extSHR, dst, count) }

func (b *Builder) shift(ext int, dst VReg, count int) {
	if count < 0 || count >= 64 {
		panic("jit: shift/rotate count out of range [0,64)")
	}
	emitOPrs(b.buf, ext, b.phys(dst), count)
}

// Bswap emits dst = byteswap(dst).
func (b *Builder) Bswap(dst VReg) { emitBswap(b.buf, b.phys(dst)) }

// Load emits dst = *(uint64*)(m.Base + m.Disp8).
func (b *Builder) Load(dst VReg, m Mem) {
	m.check()
	emitOPrm(b.buf, opMOVrm, b.phys(dst), b.phys(m.Base), m.Disp8)
}

// Store emits *(uint64*)(m.Base + m.Disp8) = src.
func (b *Builder) Store(m Mem, src VReg) {
	m.check()
	emitOPrm(b.buf, opMOVmr, b.phys(src), b.phys(m.Base), m.Disp8)
}

// AddMem emits dst += *(uint64*)(m.Base + m.Disp8).
func (b *Builder) AddMem(dst VReg, m Mem) { b.rmOp(opADDrm, dst, m) }

// SubMem emits dst -= *(uint64*)(m.Base + m.Disp8).
func (b *Builder) SubMem(dst VReg, m Mem) { b.rmOp(opSUBrm, dst, m) }

// XorMem emits dst ^= *(uint64*)(m.Base + m.Disp8).
func (b *Builder) XorMem(dst VReg, m Mem) { b.rmOp(opXORrm, dst, m) }

func (b *Builder) rmOp(op byte, dst VReg, m Mem) {
	m.check()
	emitOPrm(b.buf, op, b.phys(dst), b.phys(m.Base), m.Disp8)
}

// Len reports the number of bytes emitted so far, prologue included
// (the epilogue is only emitted by Finalize); it is CodeBuffer.Len at
// the point of the call.
func (b *Builder) Len() int { return b.buf.Len() }

// Func is a finalized, callable JIT-compiled function taking two pointer
// arguments and returning a uint64, matching the mixer ABI: func(state,
// data *[N]uint64) uint64.
type Func struct {
	buf   *CodeBuffer
	entry uintptr
}

// Call invokes the compiled function with a0 and a1 as its first two
// pointer arguments.
func (f *Func) Call(a0, a1 unsafe.Pointer) uint64 {
	return callJIT(f.entry, a0, a1)
}

// Free releases the underlying executable page. The Func must not be
// called again afterward.
func (f *Func) Free() { f.buf.Free() }

// Finalize emits the epilogue (restore callee-saved registers, ret),
// flips the page to read+execute, and returns a callable Func. The
// Builder must not be used again afterward.
func (b *Builder) Finalize() *Func {
	if b.done {
		panic("jit: Builder finalized twice")
	}
	saved := calleeSaved(b.abi)
	for i := len(saved) - 1; i >= 0; i-- {
		emitPop(b.buf, saved[i])
	}
	emitRet(b.buf)
	b.done = true
	entry := b.buf.Finalize()
	return &Func{buf: b.buf, entry: entry}
}
