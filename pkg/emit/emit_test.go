package emit

import (
	"strings"
	"testing"

	"github.com/oisee/spookymix-sieve/pkg/mixer"
)

func TestEmitProducesThreePhases(t *testing.T) {
	var sb strings.Builder
	e := New(&sb)

	if err := e.Preamble(); err != nil {
		t.Fatalf("Preamble: %v", err)
	}
	mix := mixer.SpookyMix()
	if err := e.Mixer(&mix, 0, 250); err != nil {
		t.Fatalf("Mixer: %v", err)
	}
	if err := e.Postamble(); err != nil {
		t.Fatalf("Postamble: %v", err)
	}

	out := sb.String()
	for _, want := range []string{
		"#define VAR 12",
		"#define ITERS (100000000)",
		"#define CUT 4000",
		"uint64_t function_0(",
		"void wrapper_0(",
		"minVal = %d",
		"int main(int argc, char **argv)",
		"wrapper_0(data, state);",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestEmitMultipleMixersIndexSequentially(t *testing.T) {
	var sb strings.Builder
	e := New(&sb)
	m1 := mixer.SpookyMix()
	m2 := mixer.SpookyAlpha()

	e.Mixer(&m1, 0, 200)
	e.Mixer(&m2, 0, 210)
	e.Postamble()

	out := sb.String()
	if !strings.Contains(out, "function_0(") || !strings.Contains(out, "function_1(") {
		t.Fatal("expected function_0 and function_1")
	}
	if !strings.Contains(out, "wrapper_0(data, state);") || !strings.Contains(out, "wrapper_1(data, state);") {
		t.Fatal("expected both wrappers invoked from main")
	}
}
