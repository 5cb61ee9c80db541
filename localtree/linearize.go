// Package localtree builds and balances a rank-local linear octree: the
// sorted, pairwise-disjoint, complete sequence of MortonKeys a rank owns,
// independent of any other rank.
package localtree

import (
	"sort"

	"github.com/flier/octree/morton"
)

// Linearize sorts keys and removes every key that is an ancestor of, or
// equal to, any later survivor, leaving a sorted, pairwise disjoint
// sequence. Safe to call on an unsorted or duplicate-laden slice; does not
// mutate its argument.
//
// A single backward pass comparing each key only to its immediate successor
// is not enough: in [a, a, c] with c a descendant of a, the first a's
// successor is the duplicate a (not an ancestor relation), so it would
// survive naively, leaving [a, c] — not pairwise disjoint. Scanning
// right-to-left against the last *kept* key instead catches both cases in
// one pass.
func Linearize(keys []morton.Key) []morton.Key {
	if len(keys) == 0 {
		return nil
	}

	sorted := append([]morton.Key(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	rev := make([]morton.Key, 0, len(sorted))
	var last morton.Key
	haveLast := false

	for i := len(sorted) - 1; i >= 0; i-- {
		k := sorted[i]
		if haveLast && (k == last || morton.IsAncestor(k, last)) {
			continue
		}
		rev = append(rev, k)
		last = k
		haveLast = true
	}

	out := make([]morton.Key, len(rev))
	for i, k := range rev {
		out[len(rev)-1-i] = k
	}

	return out
}
