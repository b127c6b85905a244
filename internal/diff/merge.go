package diff

import "cmp"

// Pair is one row of a merge-join: the matched elements from both sides,
// or one element plus an absence marker.
type Pair[T any] struct {
	A, B T
	// HasA and HasB report which sides contributed an element.
	HasA, HasB bool
}

// MergeJoin aligns two sequences that are sorted ascending by key and
// free of duplicate keys. Equal keys pair up; a key present on one side
// only pairs with the zero value of T. Each input is consumed exactly
// once in a single forward pass, and output pairs come out in ascending
// key order.
func MergeJoin[T any, K cmp.Ordered](a, b []T, key func(T) K) []Pair[T] {
	pairs := make([]Pair[T], 0, max(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch c := cmp.Compare(key(a[i]), key(b[j])); {
		case c < 0:
			pairs = append(pairs, Pair[T]{A: a[i], HasA: true})
			i++
		case c > 0:
			pairs = append(pairs, Pair[T]{B: b[j], HasB: true})
			j++
		default:
			pairs = append(pairs, Pair[T]{A: a[i], B: b[j], HasA: true, HasB: true})
			i++
			j++
		}
	}
	for ; i < len(a); i++ {
		pairs = append(pairs, Pair[T]{A: a[i], HasA: true})
	}
	for ; j < len(b); j++ {
		pairs = append(pairs, Pair[T]{B: b[j], HasB: true})
	}
	return pairs
}
