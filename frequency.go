package huffman

import (
	"cmp"
	"fmt"
	"slices"
)

// Frequencies maps each token to the number of times it occurs.
//
// Tokens are remembered in the order they were first added.  That order is
// the tie-breaker when Build must choose between nodes of equal count, which
// is what makes the resulting codes reproducible.
//
// The zero value is not usable; call NewFrequencies, FrequenciesOf, or
// FrequenciesFromMap.
//
type Frequencies[T comparable] struct {
	counts map[T]uint64
	order  []T
	total  uint64
}

// NewFrequencies returns an empty frequency table.
func NewFrequencies[T comparable]() *Frequencies[T] {
	return &Frequencies[T]{counts: make(map[T]uint64)}
}

// FrequenciesOf counts every token in tokens.
func FrequenciesOf[T comparable](tokens []T) *Frequencies[T] {
	f := NewFrequencies[T]()
	for _, tok := range tokens {
		f.Add(tok, 1)
	}
	return f
}

// FrequenciesFromMap builds a frequency table from a map.  Since map
// iteration order is random, the tokens are inserted in ascending order.
// Tokens with a count of zero are omitted.
func FrequenciesFromMap[T cmp.Ordered](m map[T]uint64) *Frequencies[T] {
	keys := make([]T, 0, len(m))
	for tok, count := range m {
		if count != 0 {
			keys = append(keys, tok)
		}
	}
	slices.Sort(keys)

	f := &Frequencies[T]{counts: make(map[T]uint64, len(keys))}
	for _, tok := range keys {
		f.Add(tok, m[tok])
	}
	return f
}

// Add increases the count for tok by n.  Adding zero is a no-op, so every
// token present in the table has a count of at least 1.
func (f *Frequencies[T]) Add(tok T, n uint64) {
	if n == 0 {
		return
	}
	old, found := f.counts[tok]
	if !found {
		f.order = append(f.order, tok)
	}
	f.counts[tok] = addSaturating(old, n)
	f.total = addSaturating(f.total, n)
}

// Len returns the number of distinct tokens.
func (f *Frequencies[T]) Len() int {
	return len(f.order)
}

// Count returns the count for tok, or 0 if tok is absent.
func (f *Frequencies[T]) Count(tok T) uint64 {
	return f.counts[tok]
}

// Total returns the sum of all counts.
func (f *Frequencies[T]) Total() uint64 {
	return f.total
}

// Tokens returns the distinct tokens in insertion order.
func (f *Frequencies[T]) Tokens() []T {
	return slices.Clone(f.order)
}

// Each calls fn for every token in insertion order.
func (f *Frequencies[T]) Each(fn func(tok T, count uint64)) {
	for _, tok := range f.order {
		fn(tok, f.counts[tok])
	}
}

// String returns a short human-readable summary.
func (f *Frequencies[T]) String() string {
	return fmt.Sprintf("(frequency table with %d tokens, %d occurrences)", len(f.order), f.total)
}

var _ fmt.Stringer = (*Frequencies[int])(nil)
