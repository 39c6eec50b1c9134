package jit

import (
	"fmt"
	"syscall"
	"unsafe"
)

// protection tracks a CodeBuffer's page state.
type protection int

const (
	protRW protection = iota
	protRX
)

// CodeBuffer owns one page of anonymous, private memory: writable while
// instructions are being emitted, then flipped read+execute exactly once.
type CodeBuffer struct {
	page []byte
	cur  int
	prot protection
}

// pageSize is resolved once at package init.
var pageSize = syscall.Getpagesize()

// NewCodeBuffer allocates one RW page. Fatal (panics) if the mapping
// can't be obtained — there is no recoverable path for a JIT that can't
// get executable memory.
func NewCodeBuffer() *CodeBuffer {
	if pageSize < 4096 {
		panic(fmt.Sprintf("jit: page size %d below minimum 4096", pageSize))
	}
	page, err := syscall.Mmap(-1, 0, pageSize,
		syscall.PROT_READ|syscall.PROT_WRITE,
		syscall.MAP_PRIVATE|syscall.MAP_ANON)
	if err != nil {
		panic(fmt.Sprintf("jit: mmap failed: %v", err))
	}
	return &CodeBuffer{page: page, prot: protRW}
}

// WriteByte appends one byte and advances the cursor. The caller is
// responsible for not overflowing the page; a compiled mixer is a
// handful of instructions, far under one page.
func (b *CodeBuffer) WriteByte(v byte) {
	if b.prot != protRW {
		panic("jit: write to a finalized CodeBuffer")
	}
	if b.cur >= len(b.page) {
		panic("jit: CodeBuffer overflow")
	}
	b.page[b.cur] = v
	b.cur++
}

// Len returns the number of bytes written so far.
func (b *CodeBuffer) Len() int { return b.cur }

// Finalize flips the page to read+execute and returns its base address as
// a callable entry point. This is a one-way transition; further writes
// are undefined (and will panic, since WriteByte checks prot).
func (b *CodeBuffer) Finalize() uintptr {
	if b.prot == protRX {
		panic("jit: CodeBuffer finalized twice")
	}
	if err := syscall.Mprotect(b.page, syscall.PROT_READ|syscall.PROT_EXEC); err != nil {
		panic(fmt.Sprintf("jit: mprotect failed: %v", err))
	}
	b.prot = protRX
	return uintptr(unsafe.Pointer(&b.page[0]))
}

// Free unmaps the page. Idempotent on an already-freed or nil buffer.
func (b *CodeBuffer) Free() {
	if b == nil || b.page == nil {
		return
	}
	if err := syscall.Munmap(b.page); err != nil {
		panic(fmt.Sprintf("jit: munmap failed: %v", err))
	}
	b.page = nil
}
