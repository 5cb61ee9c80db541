package localtree

import (
	"slices"

	"github.com/flier/octree/morton"
)

// Balance enforces 2:1 balance on a complete linear octree bounded by
// [first, last]: for every leaf k and every neighbor n, no leaf descends from
// Parent(n) more than one level deeper than k. Implements the
// Sundar–Sampath–Biros algorithm: walk levels from LMax down to 1, adding
// each leaf's neighbors' parents to the working set, then linearize and
// re-complete to restore coverage. The pass repeats until it no longer
// changes the tree.
func Balance(keys []morton.Key, first, last morton.Key) []morton.Key {
	w := append([]morton.Key(nil), keys...)
	added := make(map[morton.Key]bool)

	for l := int(morton.LMax); l >= 1; l-- {
		var additions []morton.Key

		for _, k := range w {
			if int(k.Level()) != l {
				continue
			}

			for _, n := range k.Neighbors() {
				if p := n.Parent(); p.IsSome() && !added[p.Unwrap()] {
					added[p.Unwrap()] = true
					additions = append(additions, p.Unwrap())
				}
			}
		}

		w = append(w, additions...)
	}

	out := CompleteLocalTree(Linearize(w), first, last)
	if !slices.Equal(out, keys) {
		return Balance(out, first, last)
	}

	return out
}

// IsBalanced reports whether keys already satisfies 2:1 balance: for every
// leaf and every same-level neighbor represented in keys (possibly by a
// coarser ancestor), the level difference is at most one.
func IsBalanced(keys []morton.Key) bool {
	present := func(k morton.Key) (morton.Key, bool) {
		for _, leaf := range keys {
			if leaf == k || morton.IsAncestor(leaf, k) {
				return leaf, true
			}
		}
		return 0, false
	}

	for _, k := range keys {
		for _, n := range k.Neighbors() {
			rep, ok := present(n)
			if !ok {
				continue
			}

			var diff int
			if int(k.Level()) > int(rep.Level()) {
				diff = int(k.Level()) - int(rep.Level())
			} else {
				diff = int(rep.Level()) - int(k.Level())
			}

			if diff > 1 {
				return false
			}
		}
	}

	return true
}
