package sieveresult

import (
	"encoding/gob"
	"os"

	"github.com/oisee/spookymix-sieve/pkg/mixer"
)

// Checkpoint holds enough state to resume a sieve run: the mixers
// accepted so far, the draw count for progress reporting, and the
// shared PRNG stream's exact position. Both the generator and the
// avalanche tester draw from one PRNG stream, and the tester consumes
// a data-dependent number of values per candidate (every trial of
// every accepted and rejected mixer draws from it), so the stream's
// position after Draws candidates is not a pure function of Draws —
// RNG must be the actual snapshot, not reconstructed by replaying
// Generate() calls.
type Checkpoint struct {
	Accepted []Accepted
	Draws    int
	Seed     uint64
	RNG      mixer.State
}

func init() {
	gob.Register(mixer.Mixer{})
}

// SaveCheckpoint writes sieve progress to a file.
func SaveCheckpoint(path string, ckpt *Checkpoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(ckpt)
}

// LoadCheckpoint loads sieve progress from a file.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var ckpt Checkpoint
	if err := gob.NewDecoder(f).Decode(&ckpt); err != nil {
		return nil, err
	}
	return &ckpt, nil
}
