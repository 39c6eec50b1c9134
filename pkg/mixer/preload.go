package mixer

// Known-good preload mixers, installed directly rather than generated,
// for validating the avalanche tester against designs already known to
// avalanche well. Unlike Generate's output, these are not required to
// follow the rotpos=2 structural template (ValidateGenerated does not
// apply to them).

func buildPreload(ops [OPS]OpKind, v1, v2 [OPS]int, shift12 [VARS]int) Mixer {
	var m Mixer
	m.Op = ops
	m.V1 = v1
	m.V2 = v2
	for i, s := range shift12 {
		m.Shift[i] = s
		m.Shift[i+VARS] = s
	}
	m.checkStructure()
	return m
}

// SpookyMix is the original SpookyHash long-message mixer.
func SpookyMix() Mixer {
	return buildPreload(
		[OPS]OpKind{ADD, XOR, XOR, ROT, ADD},
		[OPS]int{0, 2, 11, 0, 11},
		[OPS]int{0, 10, 0, 0, 1},
		[VARS]int{11, 32, 43, 31, 17, 28, 39, 57, 55, 54, 22, 46},
	)
}

// SpookyAlpha is an alternate mixer design from the same family.
func SpookyAlpha() Mixer {
	return buildPreload(
		[OPS]OpKind{ADD, ROT, XOR, ADD, ADD},
		[OPS]int{0, 11, 9, 11, 1},
		[OPS]int{0, 11, 1, 10, 10},
		[VARS]int{32, 41, 12, 24, 8, 42, 32, 13, 30, 20, 47, 16},
	)
}

// Akron is a third mixer design from the same family.
func Akron() Mixer {
	return buildPreload(
		[OPS]OpKind{ADD, ROT, XOR, ADD, ADD},
		[OPS]int{0, 2, 2, 4, 0},
		[OPS]int{0, 2, 0, 0, 3},
		[VARS]int{32, 37, 27, 48, 5, 7, 50, 18, 9, 44, 14, 30},
	)
}
