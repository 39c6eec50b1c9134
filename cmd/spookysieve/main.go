// Command spookysieve searches for SpookyHash-style long-message
// mixers: generate a structurally valid candidate, JIT-compile it,
// run it through the avalanche tester, and print every accepted
// mixer as C source until N have passed.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/oisee/spookymix-sieve/pkg/avalanche"
	"github.com/oisee/spookymix-sieve/pkg/emit"
	"github.com/oisee/spookymix-sieve/pkg/jit"
	"github.com/oisee/spookymix-sieve/pkg/mixer"
	"github.com/oisee/spookymix-sieve/pkg/sieveresult"
	"github.com/spf13/cobra"
)

func main() {
	var (
		count      int
		seed       int64
		output     string
		abiFlag    string
		checkpoint string
		workers    int
	)

	rootCmd := &cobra.Command{
		Use:   "spookysieve [N]",
		Short: "Search for SpookyHash-style long-message mixers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				n, err := parsePositiveInt(args[0])
				if err != nil {
					return fmt.Errorf("invalid N: %w", err)
				}
				count = n
			}
			if count <= 0 {
				return fmt.Errorf("N must be positive, got %d", count)
			}

			abi, err := parseABI(abiFlag)
			if err != nil {
				return err
			}

			w := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			fmt.Fprintf(os.Stderr, "spookysieve\n")
			fmt.Fprintf(os.Stderr, "  seed:     %d\n", seed)
			fmt.Fprintf(os.Stderr, "  target:   %d mixers\n", count)
			fmt.Fprintf(os.Stderr, "  abi:      %s\n", abiFlag)
			if workers > 1 {
				fmt.Fprintf(os.Stderr, "  workers:  %d (non-deterministic across runs)\n", workers)
			} else {
				fmt.Fprintf(os.Stderr, "  workers:  1 (deterministic)\n")
			}
			fmt.Fprintln(os.Stderr)

			return run(sieveConfig{
				Count:      count,
				Seed:       uint64(seed),
				ABI:        abi,
				Checkpoint: checkpoint,
				Workers:    workers,
				Out:        w,
			})
		},
	}

	rootCmd.Flags().IntVarP(&count, "count", "n", 3, "number of mixers to accept and print")
	rootCmd.Flags().Int64Var(&seed, "seed", mixer.DefaultSeed, "PRNG seed")
	rootCmd.Flags().StringVarP(&output, "out", "o", "", "output file path (default stdout)")
	rootCmd.Flags().StringVar(&abiFlag, "abi", "auto", "calling convention: auto, sysv, or win64")
	rootCmd.Flags().StringVar(&checkpoint, "checkpoint", "", "checkpoint file for resume")
	rootCmd.Flags().IntVar(&workers, "workers", 1, "parallel search streams (1 = deterministic single stream)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type sieveConfig struct {
	Count      int
	Seed       uint64
	ABI        jit.ABI
	Checkpoint string
	Workers    int
	Out        *os.File
}

// run drives the generate -> test -> emit loop. With Workers <= 1 it
// is a single deterministic stream; with more workers it fans out
// across independent seeds, one goroutine per stream, each internally
// single-threaded and only ever touching its own generator and tester.
func run(cfg sieveConfig) error {
	table := sieveresult.NewTable()
	emitter := emit.New(cfg.Out)
	if err := emitter.Preamble(); err != nil {
		return err
	}

	ckpt, resuming := loadCheckpointIfPresent(cfg.Checkpoint)
	if resuming {
		for _, a := range ckpt.Accepted {
			table.Add(a)
		}
	}

	if cfg.Workers <= 1 {
		if err := runSingleStream(cfg, table, ckpt); err != nil {
			return err
		}
	} else {
		runMultiStream(cfg, table)
	}

	for i, a := range table.Accepted() {
		if i >= cfg.Count {
			break
		}
		if err := emitter.Mixer(&a.Mix, 0, a.Score); err != nil {
			return err
		}
	}
	if err := emitter.Postamble(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\naccepted %d mixers\n", table.Len())
	return nil
}

// runSingleStream resumes directly from the checkpoint's PRNG snapshot
// when present, rather than replaying Draws calls to Generate() — the
// tester shares this same stream and consumes it at a different rate,
// so only the snapshot reproduces the stream's true position.
func runSingleStream(cfg sieveConfig, table *sieveresult.Table, ckpt *sieveresult.Checkpoint) error {
	gen := mixer.NewGenerator(cfg.Seed)
	draws := 0
	if ckpt != nil {
		gen.RNG().Restore(ckpt.RNG)
		draws = ckpt.Draws
	}
	tester := avalanche.NewTester(gen.RNG())

	for table.Len() < cfg.Count {
		mix := gen.Generate()
		draws++
		score := tester.Test(&mix, cfg.ABI)
		if score <= 0 {
			continue
		}
		sig := emit.Signature(&mix)
		table.Add(sieveresult.Accepted{Mix: mix, Score: score, Signature: sig})
		fmt.Fprintf(os.Stderr, "  accepted #%d  score=%d  draws=%d\n", table.Len(), score, draws)

		if cfg.Checkpoint != "" {
			c := &sieveresult.Checkpoint{
				Accepted: table.Accepted(),
				Draws:    draws,
				Seed:     cfg.Seed,
				RNG:      gen.RNG().State(),
			}
			if err := sieveresult.SaveCheckpoint(cfg.Checkpoint, c); err != nil {
				return fmt.Errorf("saving checkpoint: %w", err)
			}
		}
	}
	return nil
}

// runMultiStream fans independent seeds (one per worker, offset from
// the base seed) across goroutines. Each stream is internally
// deterministic but the interleaving of which stream's acceptance
// lands first is not, which is why --workers > 1 forfeits run-to-run
// reproducibility in exchange for throughput.
func runMultiStream(cfg sieveConfig, table *sieveresult.Table) {
	type found struct {
		mix   mixer.Mixer
		score int
	}
	results := make(chan found, cfg.Workers)
	done := make(chan struct{})

	for w := 0; w < cfg.Workers; w++ {
		go func(streamSeed uint64) {
			gen := mixer.NewGenerator(streamSeed)
			tester := avalanche.NewTester(gen.RNG())
			for {
				select {
				case <-done:
					return
				default:
				}
				mix := gen.Generate()
				if score := tester.Test(&mix, cfg.ABI); score > 0 {
					select {
					case results <- found{mix, score}:
					case <-done:
						return
					}
				}
			}
		}(cfg.Seed + uint64(w)*0x9e3779b97f4a7c15)
	}

	for table.Len() < cfg.Count {
		f := <-results
		sig := emit.Signature(&f.mix)
		table.Add(sieveresult.Accepted{Mix: f.mix, Score: f.score, Signature: sig})
		fmt.Fprintf(os.Stderr, "  accepted #%d  score=%d\n", table.Len(), f.score)
	}
	close(done)
}

func loadCheckpointIfPresent(path string) (*sieveresult.Checkpoint, bool) {
	if path == "" {
		return nil, false
	}
	ckpt, err := sieveresult.LoadCheckpoint(path)
	if err != nil {
		return nil, false
	}
	return ckpt, true
}

func parseABI(s string) (jit.ABI, error) {
	switch s {
	case "auto":
		return jit.DetectABI(runtime.GOOS), nil
	case "sysv":
		return jit.SysV, nil
	case "win64":
		return jit.Win64, nil
	default:
		return 0, fmt.Errorf("unknown --abi %q: use auto, sysv, or win64", s)
	}
}

func parsePositiveInt(s string) (int, error) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("not a positive integer: %q", s)
		}
		n = n*10 + int(r-'0')
	}
	if n == 0 {
		return 0, fmt.Errorf("must be positive: %q", s)
	}
	return n, nil
}
