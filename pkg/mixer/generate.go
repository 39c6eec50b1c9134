package mixer

// modBinop selects among the three non-rotation op kinds (ADD, SUB,
// XOR); modAddSub among the two non-XOR kinds only.
const (
	modBinop  = 3
	modAddSub = 2
)

// rotpos is fixed at 2 in the disciplined generator template (see
// DESIGN.md's Open Question resolution: an earlier rotpos draw in
// {2,3} is superseded by this fixed value).
const rotpos = 2

// lanes are the three fixed (v1,v2) connections assigned, in order, to
// the three non-rotation, non-injection ops.
var lanes = [3][2]int{{2, VARS - 2}, {VARS - 1, 0}, {VARS - 1, 1}}

// Generator produces random mixers within the fixed structural
// template, driven by a single Random stream.
type Generator struct {
	rng *Random
}

// NewGenerator creates a Generator seeded deterministically.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: NewRandom(seed)}
}

// RNG returns the Generator's underlying PRNG stream, so a caller can
// share it with another consumer (the avalanche tester's random trial
// fills) and keep a whole sieve run deterministic under one seed.
func (g *Generator) RNG() *Random {
	return g.rng
}

// Generate produces one structurally valid random mixer by drawing its
// op assignment, lane connections, and shift table from the five-step
// procedure below: pin the rotation, draw the xor/add-or-sub split
// (with a collapse-and-redo if the draw lands on xor), fill the
// remaining ops, assign fixed lane connections, then fill shifts. The
// op assignment is redrawn until op[1..OPS) holds at least one XOR and
// at least one ADD/SUB.
func (g *Generator) Generate() Mixer {
	var m Mixer
	m.Op[rotpos] = ROT
	m.V1[rotpos] = 0
	m.V2[rotpos] = 0

draw:
	addop := OpKind(g.rng.Intn(modBinop))
	xorpos := 1 + g.rng.Intn(OPS-2)
	if xorpos >= rotpos {
		xorpos++
	}

	addpos := 0
	if addop == XOR {
		// Collapse: op[0] keeps XOR, xorpos's slot gets a fresh
		// non-XOR draw instead.
		addpos = xorpos
		xorpos = 0
		addop = OpKind(g.rng.Intn(modAddSub))
	}

	m.Op[addpos] = addop
	m.Op[xorpos] = XOR

	for i := 1; i < OPS; i++ {
		if i == rotpos || i == addpos || i == xorpos {
			continue
		}
		m.Op[i] = OpKind(g.rng.Intn(modBinop))
	}

	var hasXor, hasAddSub bool
	for i := 1; i < OPS; i++ {
		switch m.Op[i] {
		case XOR:
			hasXor = true
		case ADD, SUB:
			hasAddSub = true
		}
	}
	if !hasXor || !hasAddSub {
		goto draw
	}

	lane := 0
	for i := 1; i < OPS; i++ {
		if i == rotpos {
			continue
		}
		m.V1[i] = lanes[lane][0]
		m.V2[i] = lanes[lane][1]
		lane++
	}

	for i := 0; i < VARS; i++ {
		s := g.rng.Intn(65)
		m.Shift[i] = s
		m.Shift[i+VARS] = s
	}

	m.ValidateGenerated()
	return m
}
