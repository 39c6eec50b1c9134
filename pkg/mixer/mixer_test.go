package mixer

import "testing"

func TestGenerateStructuralTemplate(t *testing.T) {
	g := NewGenerator(DefaultSeed)
	for i := 0; i < 50; i++ {
		m := g.Generate()
		m.ValidateGenerated() // panics on violation

		if m.Op[rotpos] != ROT {
			t.Fatalf("draw %d: op[%d] = %v, want ROT", i, rotpos, m.Op[rotpos])
		}
		for _, s := range m.Shift {
			if s < 0 || s > 64 {
				t.Fatalf("draw %d: shift %d out of range", i, s)
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	g1 := NewGenerator(DefaultSeed)
	g2 := NewGenerator(DefaultSeed)

	for i := 0; i < 20; i++ {
		m1 := g1.Generate()
		m2 := g2.Generate()
		if m1 != m2 {
			t.Fatalf("draw %d differs between identically seeded generators", i)
		}
	}
}

func TestGenerateDifferentSeedsDiffer(t *testing.T) {
	g1 := NewGenerator(DefaultSeed)
	g2 := NewGenerator(DefaultSeed + 1)

	m1 := g1.Generate()
	m2 := g2.Generate()
	if m1 == m2 {
		t.Fatal("different seeds produced identical first mixer")
	}
}

func TestPreloadsAreStructurallySound(t *testing.T) {
	for name, build := range map[string]func() Mixer{
		"SpookyMix":   SpookyMix,
		"SpookyAlpha": SpookyAlpha,
		"Akron":       Akron,
	} {
		m := build()
		if rp := m.RotPos(); rp < 0 {
			t.Errorf("%s: no ROT op found", name)
		}
	}
}

func TestRandomValueMatchesReference(t *testing.T) {
	// a == 0xdeadbeef and b == c == d == seed immediately after Init,
	// before any warm-up Value() calls; NewRandom always runs the 20
	// warm-ups, so reconstruct manually to check the first raw Value().
	r := &Random{a: 0xdeadbeef, b: 7, c: 7, d: 7}
	v1 := r.Value()
	// e = 0xdeadbeef - (7<<23) = 0xdb2dbeef; a' = 7 ^ (7<<16) = 0x70007;
	// d' = e + a' = 0xdb34bef6.
	if v1 != 0xdb34bef6 {
		t.Fatalf("first raw Value() = %#x, want 0xdb34bef6", v1)
	}
	v2 := r.Value()
	if v1 == v2 {
		t.Fatal("consecutive PRNG values should (overwhelmingly likely) differ")
	}
}

func TestRot64BswapAtBoundaries(t *testing.T) {
	var x uint64 = 0x0102030405060708
	want := uint64(0x0807060504030201)
	if got := rot64(x, 0); got != want {
		t.Fatalf("rot64(x,0) = %#x, want %#x", got, want)
	}
	if got := rot64(x, 64); got != want {
		t.Fatalf("rot64(x,64) = %#x, want %#x", got, want)
	}
}

func TestIntnRejectsNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for n <= 0")
		}
	}()
	r := NewRandom(1)
	r.Intn(0)
}
