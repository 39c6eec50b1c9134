// Package mixer models candidate SpookyHash-style mixing steps: the
// fixed-shape program a mixer is, the three known-good preload designs,
// and the structured random generator that proposes new candidates.
package mixer

import "fmt"

// OPS is the number of ops in a mixer program.
const OPS = 5

// VARS is the number of 64-bit state variables a mixer operates over.
const VARS = 12

// OpKind tags a mixer op.
type OpKind int

const (
	ADD OpKind = iota
	SUB
	XOR
	ROT
)

func (k OpKind) String() string {
	switch k {
	case ADD:
		return "ADD"
	case SUB:
		return "SUB"
	case XOR:
		return "XOR"
	case ROT:
		return "ROT"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// Mixer is one candidate mixing step: an ordered sequence of OPS typed
// ops plus a rotation-shift table.
//
// Op[0] is always the data injection: its destination is the current
// iteration variable and its source is data[iVar], so V1[0]/V2[0] are
// unused placeholders. For a ROT op, V1 == V2 names the rotated
// variable; for any other op, V1 is the destination lane and V2 the
// source lane, both relative to the current iteration variable.
//
// Shift is replicated to length 2*VARS so any starting offset yields a
// contiguous VARS-length window; each entry is in [0,64], where 0 and
// 64 both mean "byte-swap" rather than a rotation.
type Mixer struct {
	Op    [OPS]OpKind
	V1    [OPS]int
	V2    [OPS]int
	Shift [2 * VARS]int
}

// RotPos returns the index of the mixer's single ROT op, or -1 if none
// is present (only possible on a hand-built Mixer; Generate always
// places one).
func (m *Mixer) RotPos() int {
	for i, op := range m.Op {
		if op == ROT {
			return i
		}
	}
	return -1
}

// ShiftAt returns the rotation amount Shift[start+iVar] for variable
// iVar under a given window-starting offset. No modulo is applied:
// start and iVar are each expected in [0,VARS), which keeps the index
// inside the 2*VARS table.
func (m *Mixer) ShiftAt(start, iVar int) int {
	return m.Shift[start+iVar]
}

// checkStructure asserts the two invariants that apply to every mixer
// regardless of origin (preload or generated): exactly one ROT op, and
// every shift value in [0,64]. The stronger generated-only invariants
// (fixed rotpos, fixed lane connections, at-least-one-XOR/at-least-one-
// ADD-or-SUB) are checked separately by ValidateGenerated, since hand
// -built preloads are not required to follow the generator's template.
func (m *Mixer) checkStructure() {
	rots := 0
	for _, op := range m.Op {
		if op == ROT {
			rots++
		}
	}
	if rots != 1 {
		panic(fmt.Sprintf("mixer: expected exactly one ROT op, found %d", rots))
	}
	for _, s := range m.Shift {
		if s < 0 || s > 64 {
			panic(fmt.Sprintf("mixer: shift value %d out of range [0,64]", s))
		}
	}
}

// ValidateGenerated checks the stronger structural template that only
// Generate's output must satisfy: op[2] == ROT, and among op[1..OPS)
// at least one ADD/SUB and at least one XOR, and the three non-rotation
// mixing ops connect lanes (2,VARS-2), (VARS-1,0), (VARS-1,1) in that
// order.
func (m *Mixer) ValidateGenerated() {
	m.checkStructure()
	const rotpos = 2
	if m.Op[rotpos] != ROT {
		panic(fmt.Sprintf("mixer: op[%d] = %v, want ROT", rotpos, m.Op[rotpos]))
	}
	if m.V1[rotpos] != 0 || m.V2[rotpos] != 0 {
		panic("mixer: ROT op must rotate variable 0")
	}

	var hasXor, hasAddSub bool
	for i := 1; i < OPS; i++ {
		if i == rotpos {
			continue
		}
		switch m.Op[i] {
		case XOR:
			hasXor = true
		case ADD, SUB:
			hasAddSub = true
		}
	}
	if !hasXor || !hasAddSub {
		panic("mixer: generated mixer must have at least one XOR and one ADD/SUB among op[1..OPS)")
	}

	wantLanes := [3][2]int{{2, VARS - 2}, {VARS - 1, 0}, {VARS - 1, 1}}
	lane := 0
	for i := 1; i < OPS; i++ {
		if i == rotpos {
			continue
		}
		v1, v2 := m.V1[i], m.V2[i]
		if v1 != wantLanes[lane][0] || v2 != wantLanes[lane][1] {
			panic(fmt.Sprintf("mixer: op[%d] lane = (%d,%d), want (%d,%d)",
				i, v1, v2, wantLanes[lane][0], wantLanes[lane][1]))
		}
		lane++
	}
}
