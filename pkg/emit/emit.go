// Package emit prints accepted mixers as portable C source for offline
// timing, outside the sieve's own pass/fail loop.
package emit

import (
	"fmt"
	"io"
	"strings"

	"github.com/oisee/spookymix-sieve/pkg/mixer"
)

// Signature renders a mixer's structural signature: every op[i] v1[i]
// v2[i] triple followed by every shift[i] value, space separated. Used
// both in the C comment emitted alongside a reported mixer and as the
// stable, comparable label recorded in sieveresult.Accepted.
func Signature(mix *mixer.Mixer) string {
	var sb strings.Builder
	for i := 0; i < mixer.OPS; i++ {
		fmt.Fprintf(&sb, "%d %d %d ", int(mix.Op[i]), mix.V1[i], mix.V2[i])
	}
	for i, s := range mix.Shift {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d", s)
	}
	return sb.String()
}

const preamble = `#include <stdio.h>
#include <stdint.h>

#define VAR 12
#define ITERS (100000000)
#define CUT 4000

#define Rot64(x,k) (((k)%64==0) ? __builtin_bswap64(x) : (((x) << ((k)%64)) | ((x) >> (64 - ((k)%64)))))
`

// Emitter writes the three-phase C report (preamble, one function pair
// per accepted mixer, postamble) to a single stream.
type Emitter struct {
	w     io.Writer
	count int
}

// New builds an Emitter writing to w.
func New(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Preamble writes the fixed #include/#define block, once, before any
// mixer is reported.
func (e *Emitter) Preamble() error {
	_, err := io.WriteString(e.w, preamble)
	return err
}

func opSymbol(op mixer.OpKind) string {
	switch op {
	case mixer.ADD:
		return "+="
	case mixer.SUB:
		return "-="
	case mixer.XOR:
		return "^="
	default:
		panic(fmt.Sprintf("emit: op %v has no C assignment operator", op))
	}
}

// Mixer writes the unrolled C function and its timing wrapper for one
// accepted mixer, followed by its structural signature as a comment —
// the same signature line the internal tester's "// minVal = %d"
// diagnostic reports alongside.
func (e *Emitter) Mixer(mix *mixer.Mixer, start int, minVal int) error {
	k := e.count
	e.count++

	fmt.Fprintf(e.w, "\nuint64_t function_%d(uint64_t *data, uint64_t *state) {\n", k)
	for iVar := 0; iVar < mixer.VARS; iVar++ {
		writeInjection(e.w, mix, iVar)
		for iOp := 1; iOp < mixer.OPS; iOp++ {
			writeOp(e.w, mix, iOp, iVar, start)
		}
	}
	fmt.Fprintf(e.w, "\treturn state[0];\n}\n")

	fmt.Fprintf(e.w, "\nvoid wrapper_%d(uint64_t *data, uint64_t *state) {\n", k)
	fmt.Fprintf(e.w, "\tunsigned long t0 = GetTickCount();\n")
	fmt.Fprintf(e.w, "\tfor (long i = 0; i < ITERS; i++) function_%d(data, state);\n", k)
	fmt.Fprintf(e.w, "\tunsigned long t1 = GetTickCount();\n")
	fmt.Fprintf(e.w, "\tif (t1 - t0 < CUT) {\n")
	writeSignature(e.w, mix)
	fmt.Fprintf(e.w, "\t\tprintf(\"// minVal = %%d\\n\", %d);\n", minVal)
	fmt.Fprintf(e.w, "\t\tprintf(\"%%lu ticks\\n\", t1 - t0);\n")
	fmt.Fprintf(e.w, "\t}\n}\n")
	return nil
}

func writeInjection(w io.Writer, mix *mixer.Mixer, iVar int) {
	fmt.Fprintf(w, "\tstate[%d] %s data[%d];\n", iVar, opSymbol(mix.Op[0]), iVar)
}

func writeOp(w io.Writer, mix *mixer.Mixer, iOp, iVar, start int) {
	dst := (mix.V1[iOp] + iVar) % mixer.VARS
	src := (mix.V2[iOp] + iVar) % mixer.VARS
	switch mix.Op[iOp] {
	case mixer.ROT:
		shift := mix.Shift[start+iVar]
		fmt.Fprintf(w, "\tstate[%d] = Rot64(state[%d], %d);\n", dst, dst, shift)
	default:
		fmt.Fprintf(w, "\tstate[%d] %s state[%d];\n", dst, opSymbol(mix.Op[iOp]), src)
	}
}

// writeSignature prints every op[i] v1[i] v2[i] triple followed by
// every shift[i] value, matching the reference structural-signature
// format used both in emitted output and the tester's own diagnostics.
func writeSignature(w io.Writer, mix *mixer.Mixer) {
	fmt.Fprintf(w, "\t\tprintf(\"// signature: %s\\n\");\n", Signature(mix))
}

// Postamble writes the main() that seeds state/data from argc and
// calls every reported wrapper in order.
func (e *Emitter) Postamble() error {
	fmt.Fprintf(e.w, "\nint main(int argc, char **argv) {\n")
	fmt.Fprintf(e.w, "\tuint64_t state[VAR], data[VAR];\n")
	fmt.Fprintf(e.w, "\tfor (int i = 0; i < VAR; i++) { state[i] = i + argc; data[i] = i + argc; }\n")
	for k := 0; k < e.count; k++ {
		fmt.Fprintf(e.w, "\twrapper_%d(data, state);\n", k)
	}
	fmt.Fprintf(e.w, "\treturn 0;\n}\n")
	return nil
}
