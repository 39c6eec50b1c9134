//go:build amd64

package jit

import "unsafe"

// callJIT invokes a compiled function at entry, passing a0 and a1 as its
// first two pointer arguments, and returns whatever it left in RAX.
//
// The assembly trampoline (entry_amd64.s) loads a0/a1 into both the SysV
// pair (RDI, RSI) and the Win64 pair (RCX, RDX) before the call, so one
// trampoline serves code built under either ABI. Func.Call may pass it
// code built for an ABI other than the host's (the driver's --abi flag
// allows that); keeping both pairs loaded costs two idle MOVs and
// removes the need for a second trampoline.
func callJIT(entry uintptr, a0, a1 unsafe.Pointer) uint64
