// ============================================================================
// Word Frequency Table - shared token accounting
// ============================================================================
//
// Package: internal/wordfreq
// File: table.go
// Purpose: Mapping from normalized (lowercase) word to occurrence count.
//
// Locking:
//   Today only the processor writes, but the reporting reader runs
//   concurrently with those writes, so every mutation and read goes through
//   the table's own mutex. Reader and writer must synchronize even while the
//   writer count is 1; a future multi-consumer extension changes nothing
//   here.
//
// ============================================================================

package wordfreq

import (
	"strings"
	"sync"

	"github.com/logfreq/logfreq/pkg/types"
)

// Table counts normalized word occurrences. Counts are monotonically
// non-decreasing except through Clear. Capacity is unbounded.
type Table struct {
	mu     sync.Mutex
	counts map[string]uint64
	total  uint64
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{counts: make(map[string]uint64)}
}

// Increment lowercases word and bumps its count, inserting with count 1 if
// absent. The normalize+lookup+increment sequence is atomic under the
// table's mutex. Empty words are ignored.
func (t *Table) Increment(word string) {
	if word == "" {
		return
	}
	normalized := strings.ToLower(word)

	t.mu.Lock()
	t.counts[normalized]++
	t.total++
	t.mu.Unlock()
}

// Count returns the current count for word (after normalization).
func (t *Table) Count(word string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[strings.ToLower(word)]
}

// TotalTokens returns the number of tokens observed across all events.
func (t *Table) TotalTokens() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Len returns the number of distinct words.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.counts)
}

// Snapshot returns a point-in-time copy sorted by count descending, ties
// broken by lexical order. Safe to call concurrently with Increment.
func (t *Table) Snapshot() types.WordCounts {
	t.mu.Lock()
	snap := make(types.WordCounts, 0, len(t.counts))
	for word, count := range t.counts {
		snap = append(snap, types.WordCount{Word: word, Count: count})
	}
	t.mu.Unlock()

	snap.Sort()
	return snap
}

// Clear resets all counts.
func (t *Table) Clear() {
	t.mu.Lock()
	t.counts = make(map[string]uint64)
	t.total = 0
	t.mu.Unlock()
}
