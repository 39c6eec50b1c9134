// Package sieveresult collects accepted mixers into a sorted,
// thread-safe table and persists sieve progress as a checkpoint.
package sieveresult

import (
	"sort"
	"sync"

	"github.com/oisee/spookymix-sieve/pkg/mixer"
)

// Accepted is one mixer that passed the avalanche test.
type Accepted struct {
	Mix       mixer.Mixer
	Score     int
	Signature string
}

// Table stores accepted mixers.
type Table struct {
	mu       sync.Mutex
	accepted []Accepted
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Add inserts an accepted mixer into the table.
func (t *Table) Add(a Accepted) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.accepted = append(t.accepted, a)
}

// Accepted returns a copy of all accepted mixers, sorted by score
// descending (the highest-avalanching mixers first).
func (t *Table) Accepted() []Accepted {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Accepted, len(t.accepted))
	copy(out, t.accepted)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Len returns the number of accepted mixers.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.accepted)
}
